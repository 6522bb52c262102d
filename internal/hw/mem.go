package hw

import "sync"

// Recorder assigns a global order to line transitions across a set of
// MemPins and MemGroups, so tests can assert the scan protocol's sequencing
// and the terminal emulator can rebuild the frame the matrix would show.
type Recorder struct {
	mu  sync.Mutex
	seq int
	log []Event
}

// Event is one recorded level change.
type Event struct {
	Seq   int
	Label string
	Index int // index within a group, 0 for single pins
	Value int
}

// NewRecorder returns an empty transition recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(label string, index, value int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.log = append(r.log, Event{Seq: r.seq, Label: label, Index: index, Value: value})
	return r.seq
}

// Events returns a copy of all recorded transitions in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.log))
	copy(out, r.log)
	return out
}

// Reset discards recorded transitions but keeps the sequence counter running.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = r.log[:0]
}

// MemPin is an in-memory Pin that records every write.
type MemPin struct {
	rec    *Recorder
	label  string
	mu     sync.Mutex
	value  int
	closed bool
}

// NewMemPin returns a recording pin starting at the given level.
func NewMemPin(rec *Recorder, label string, initial int) *MemPin {
	return &MemPin{rec: rec, label: label, value: initial}
}

func (p *MemPin) SetValue(v int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.value = v
	if p.rec != nil {
		p.rec.record(p.label, 0, v)
	}
	return nil
}

// Value returns the last written level.
func (p *MemPin) Value() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *MemPin) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// MemGroup is an in-memory PinGroup that records every latch.
type MemGroup struct {
	rec    *Recorder
	label  string
	mu     sync.Mutex
	values []int
	closed bool
}

// NewMemGroup returns a recording group of n lines all at the given level.
func NewMemGroup(rec *Recorder, label string, n, initial int) *MemGroup {
	vv := make([]int, n)
	for i := range vv {
		vv[i] = initial
	}
	return &MemGroup{rec: rec, label: label, values: vv}
}

func (g *MemGroup) SetValues(vv []int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	if len(vv) != len(g.values) {
		return ErrLineCount
	}
	for i, v := range vv {
		if g.values[i] != v {
			if g.rec != nil {
				g.rec.record(g.label, i, v)
			}
			g.values[i] = v
		}
	}
	return nil
}

// Values returns a copy of the current levels.
func (g *MemGroup) Values() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int, len(g.values))
	copy(out, g.values)
	return out
}

func (g *MemGroup) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.values)
}

func (g *MemGroup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}
