// Package control is the button-facing surface of the simulation: the two
// flags shared between the GPIO edge handlers and the scheduler loop, and
// the bindings that wire physical buttons to them.
package control

import "sync/atomic"

// Flags holds the pause and single-step state. Edge handlers mutate it from
// the GPIO event goroutine while the scheduler reads it from the main loop,
// so both fields are atomics; no invariant spans the two.
type Flags struct {
	paused atomic.Bool
	step   atomic.Bool
}

// NewFlags returns flags in the running state.
func NewFlags() *Flags {
	return &Flags{}
}

// TogglePause flips the paused flag. Bound to the pause button's rising
// edge; a bouncing contact toggles repeatedly, which is accepted behavior
// (see the known-limitations note in the README).
func (f *Flags) TogglePause() {
	for {
		old := f.paused.Load()
		if f.paused.CompareAndSwap(old, !old) {
			return
		}
	}
}

// RequestStep arms a single-generation advance, but only while paused.
// While running it is a no-op.
func (f *Flags) RequestStep() {
	if f.paused.Load() {
		f.step.Store(true)
	}
}

// Paused reports the current pause state.
func (f *Flags) Paused() bool { return f.paused.Load() }

// ConsumeStep clears the step request and reports whether one was pending.
// The scheduler calls this once per generation window while paused, so a
// request advances exactly one generation.
func (f *Flags) ConsumeStep() bool {
	return f.step.Swap(false)
}
