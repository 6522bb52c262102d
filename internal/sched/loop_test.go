package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledlife/internal/control"
	"ledlife/internal/life"
	"ledlife/internal/metrics"
)

// countingDisplay records refreshes and optionally fails.
type countingDisplay struct {
	refreshes int
	blanks    int
	fail      error
}

func (d *countingDisplay) Refresh(*life.Grid) error {
	d.refreshes++
	return d.fail
}

func (d *countingDisplay) Blank() error {
	d.blanks++
	return nil
}

func blinker() *life.Grid {
	g := life.New()
	g.Set(3, 2, true)
	g.Set(3, 3, true)
	g.Set(3, 4, true)
	return g
}

func TestTickRefreshesEveryIteration(t *testing.T) {
	d := &countingDisplay{}
	flags := control.NewFlags()
	l := New(blinker(), d, flags, time.Second, time.Millisecond)

	base := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		if err := l.Tick(base.Add(time.Duration(i) * 10 * time.Millisecond)); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
	}
	if d.refreshes != 5 {
		t.Errorf("expected 5 refreshes, got %d", d.refreshes)
	}
	if g := l.Grid().Generation(); g != 0 {
		t.Errorf("advanced %d generations before the period elapsed", g)
	}
}

func TestGenerationAdvancesOnPeriod(t *testing.T) {
	d := &countingDisplay{}
	flags := control.NewFlags()
	l := New(blinker(), d, flags, time.Second, time.Millisecond)

	base := time.Unix(0, 0)
	l.Tick(base) // establishes the reference
	l.Tick(base.Add(999 * time.Millisecond))
	l.Tick(base.Add(1000 * time.Millisecond)) // advance
	l.Tick(base.Add(1500 * time.Millisecond)) // reference was reset, not yet
	l.Tick(base.Add(2 * time.Second))         // advance
	if g := l.Grid().Generation(); g != 2 {
		t.Errorf("expected 2 generations, got %d", g)
	}
}

func TestPauseFreezesGrid(t *testing.T) {
	d := &countingDisplay{}
	flags := control.NewFlags()
	grid := blinker()
	l := New(grid, d, flags, time.Second, time.Millisecond)

	flags.TogglePause()

	var before [life.Rows * life.Cols]uint8
	grid.Snapshot(&before)

	base := time.Unix(0, 0)
	l.Tick(base)
	for i := 1; i <= 10; i++ {
		l.Tick(base.Add(time.Duration(i) * time.Second))
	}

	var after [life.Rows * life.Cols]uint8
	grid.Snapshot(&after)
	if before != after {
		t.Error("grid changed while paused with no step request")
	}
	if d.refreshes != 11 {
		t.Errorf("display not refreshed while paused: %d refreshes", d.refreshes)
	}
}

func TestStepAdvancesExactlyOneGeneration(t *testing.T) {
	d := &countingDisplay{}
	flags := control.NewFlags()
	grid := blinker()
	l := New(grid, d, flags, time.Second, time.Millisecond)

	flags.TogglePause()
	base := time.Unix(0, 0)
	l.Tick(base)

	flags.RequestStep()
	l.Tick(base.Add(time.Second))
	if g := grid.Generation(); g != 1 {
		t.Fatalf("expected exactly one generation after step, got %d", g)
	}

	// The request was consumed; further period boundaries must freeze again.
	l.Tick(base.Add(2 * time.Second))
	l.Tick(base.Add(3 * time.Second))
	if g := grid.Generation(); g != 1 {
		t.Errorf("grid advanced to generation %d after the step was consumed", g)
	}
}

func TestStepConsumedEvenWhenArmedLate(t *testing.T) {
	// A second press inside the same window must not bank a second step.
	d := &countingDisplay{}
	flags := control.NewFlags()
	l := New(blinker(), d, flags, time.Second, time.Millisecond)

	flags.TogglePause()
	base := time.Unix(0, 0)
	l.Tick(base)

	flags.RequestStep()
	flags.RequestStep()
	l.Tick(base.Add(time.Second))
	l.Tick(base.Add(2 * time.Second))
	if g := l.Grid().Generation(); g != 1 {
		t.Errorf("coalesced presses advanced %d generations, expected 1", g)
	}
}

func TestResumeAfterPause(t *testing.T) {
	d := &countingDisplay{}
	flags := control.NewFlags()
	l := New(blinker(), d, flags, time.Second, time.Millisecond)

	base := time.Unix(0, 0)
	l.Tick(base)
	flags.TogglePause()
	l.Tick(base.Add(time.Second))
	flags.TogglePause()
	l.Tick(base.Add(2 * time.Second))
	if g := l.Grid().Generation(); g != 1 {
		t.Errorf("expected 1 generation after resume, got %d", g)
	}
}

func TestMetricsSeeCommittedGenerations(t *testing.T) {
	d := &countingDisplay{}
	flags := control.NewFlags()
	l := New(blinker(), d, flags, time.Second, time.Millisecond)

	pop := metrics.NewPopulation()
	l.AddMetric(pop)

	base := time.Unix(0, 0)
	l.Tick(base)
	l.Tick(base.Add(time.Second))
	if pop.Value() != 3 {
		t.Errorf("population metric = %v, expected 3 (blinker)", pop.Value())
	}
}

func TestRunStopsOnCancelAndBlanks(t *testing.T) {
	d := &countingDisplay{}
	flags := control.NewFlags()
	l := New(blinker(), d, flags, time.Second, time.Nanosecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, expected context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancelation")
	}
	if d.blanks == 0 {
		t.Error("display not blanked on shutdown")
	}
}

func TestRefreshErrorStopsLoop(t *testing.T) {
	wantErr := errors.New("pin write failed")
	d := &countingDisplay{fail: wantErr}
	flags := control.NewFlags()
	l := New(blinker(), d, flags, time.Second, time.Millisecond)

	if err := l.Tick(time.Unix(0, 0)); !errors.Is(err, wantErr) {
		t.Errorf("Tick returned %v, expected the refresh error", err)
	}
}
