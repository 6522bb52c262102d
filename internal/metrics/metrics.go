// Package metrics provides per-generation observers over the board: each
// metric sees every committed generation and reduces it to one value for the
// TUI side panel and the bench command.
package metrics

import "ledlife/internal/life"

// Metric observes committed generations and exposes a single value.
type Metric interface {
	Name() string
	Observe(g *life.Grid)
	Value() float64
	Reset()
}

// Population tracks the live-cell count of the latest generation and an
// exponential moving average over the run.
type Population struct {
	last    int
	average float64
	seen    bool
}

func NewPopulation() *Population { return &Population{} }

func (p *Population) Name() string { return "population" }

func (p *Population) Observe(g *life.Grid) {
	p.last = g.Population()
	if !p.seen {
		p.average = float64(p.last)
		p.seen = true
		return
	}
	p.average = p.average*0.9 + float64(p.last)*0.1
}

// Value returns the latest live-cell count.
func (p *Population) Value() float64 { return float64(p.last) }

// Average returns the smoothed live-cell count.
func (p *Population) Average() float64 { return p.average }

func (p *Population) Reset() {
	p.last = 0
	p.average = 0
	p.seen = false
}

// Activity counts how many cells changed state in the latest generation.
type Activity struct {
	prev    [life.Rows * life.Cols]uint8
	seen    bool
	changed int
}

func NewActivity() *Activity { return &Activity{} }

func (a *Activity) Name() string { return "activity" }

func (a *Activity) Observe(g *life.Grid) {
	var cur [life.Rows * life.Cols]uint8
	g.Snapshot(&cur)
	if !a.seen {
		a.prev = cur
		a.seen = true
		a.changed = 0
		return
	}
	n := 0
	for i := range cur {
		if cur[i] != a.prev[i] {
			n++
		}
	}
	a.changed = n
	a.prev = cur
}

func (a *Activity) Value() float64 { return float64(a.changed) }

func (a *Activity) Reset() {
	a.seen = false
	a.changed = 0
}

// Stagnation counts consecutive generations with no cell changes, so callers
// can tell a still life (or an extinct board) from a live one.
type Stagnation struct {
	activity Activity
	frames   int
	streak   int
}

func NewStagnation() *Stagnation { return &Stagnation{} }

func (s *Stagnation) Name() string { return "stagnation" }

func (s *Stagnation) Observe(g *life.Grid) {
	s.activity.Observe(g)
	s.frames++
	// The first frame has nothing to differ from.
	if s.frames > 1 && s.activity.changed == 0 {
		s.streak++
	} else {
		s.streak = 0
	}
}

// Value returns the current unchanged-generation streak.
func (s *Stagnation) Value() float64 { return float64(s.streak) }

func (s *Stagnation) Reset() {
	s.activity.Reset()
	s.frames = 0
	s.streak = 0
}
