// Package sched runs the main loop: continuous display refresh interleaved
// with fixed-period generation advances, gated by the pause and step flags.
package sched

import (
	"context"
	"time"

	"ledlife/internal/control"
	"ledlife/internal/life"
	"ledlife/internal/metrics"
)

// Display renders the current board. The hardware scan driver and the
// terminal emulator's frame sink both satisfy this.
type Display interface {
	Refresh(g *life.Grid) error
	Blank() error
}

// Defaults for the loop timings. The frame delay bounds CPU use without
// dropping below the refresh rate the eye needs; the period is how often the
// board advances while running.
const (
	DefaultPeriod     = time.Second
	DefaultFrameDelay = 4 * time.Millisecond
)

// Loop owns the grid and advances it on a fixed period. The display is
// refreshed every iteration regardless of pause state, so the matrix stays
// lit while frozen.
type Loop struct {
	grid    *life.Grid
	display Display
	flags   *control.Flags
	metrics []metrics.Metric

	period     time.Duration
	frameDelay time.Duration
	lastGen    time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New returns a loop over the given grid, display and flags. Zero durations
// fall back to the defaults.
func New(grid *life.Grid, display Display, flags *control.Flags, period, frameDelay time.Duration) *Loop {
	if period <= 0 {
		period = DefaultPeriod
	}
	if frameDelay <= 0 {
		frameDelay = DefaultFrameDelay
	}
	return &Loop{
		grid:       grid,
		display:    display,
		flags:      flags,
		period:     period,
		frameDelay: frameDelay,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// AddMetric registers a per-generation observer. Metrics see the seeded
// board once when the loop starts and then every committed generation.
func (l *Loop) AddMetric(m metrics.Metric) { l.metrics = append(l.metrics, m) }

// Grid exposes the board the loop owns. Only the loop goroutine mutates it.
func (l *Loop) Grid() *life.Grid { return l.grid }

// Run refreshes and advances until ctx is canceled, then blanks the display.
// The loop itself has no terminal state; cancelation exists so main can
// park the matrix lines and release GPIO on shutdown.
func (l *Loop) Run(ctx context.Context) error {
	for _, m := range l.metrics {
		m.Reset()
	}
	l.observe()
	l.lastGen = l.now()

	for {
		select {
		case <-ctx.Done():
			if err := l.display.Blank(); err != nil {
				return err
			}
			return ctx.Err()
		default:
		}
		if err := l.Tick(l.now()); err != nil {
			return err
		}
		l.sleep(l.frameDelay)
	}
}

// Tick performs one loop iteration at the given instant: one full display
// scan, then a generation advance if the period has elapsed and the flags
// allow it. While paused, a pending step request is consumed whether or not
// it advances anything, so it is always one-shot.
func (l *Loop) Tick(now time.Time) error {
	if err := l.display.Refresh(l.grid); err != nil {
		return err
	}
	if l.lastGen.IsZero() {
		l.lastGen = now
	}
	if now.Sub(l.lastGen) < l.period {
		return nil
	}
	if l.flags.Paused() {
		if l.flags.ConsumeStep() {
			l.advance()
		}
	} else {
		l.advance()
	}
	l.lastGen = now
	return nil
}

func (l *Loop) advance() {
	l.grid.Step()
	l.observe()
}

func (l *Loop) observe() {
	for _, m := range l.metrics {
		m.Observe(l.grid)
	}
}
