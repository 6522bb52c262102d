// Package hw abstracts the GPIO lines the matrix and buttons are wired to,
// so the display driver and control surface run unchanged against real
// character-device GPIO or the in-memory fakes used by tests and the
// terminal emulator.
package hw

import "errors"

// Logic levels as written to output lines.
const (
	Low  = 0
	High = 1
)

// Domain errors for line setup.
var (
	// ErrLineCount indicates a pin group with the wrong number of offsets.
	ErrLineCount = errors.New("hw: wrong number of GPIO line offsets")

	// ErrClosed indicates a write to a released line.
	ErrClosed = errors.New("hw: line closed")
)

// Pin is a single digital output line.
type Pin interface {
	SetValue(v int) error
	Close() error
}

// PinGroup is a set of output lines latched together in one operation.
type PinGroup interface {
	SetValues(vv []int) error
	Len() int
	Close() error
}

// EdgeFunc is called from the GPIO event context on a rising edge. It must
// not block; handlers in this program only flip atomic flags.
type EdgeFunc func()
