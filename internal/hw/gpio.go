package hw

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// Chip requests lines from a Linux GPIO character device (e.g. "gpiochip0")
// and hands out Pin / PinGroup values backed by gpiocdev line requests.
type Chip struct {
	name string
}

// NewChip returns a handle for the named GPIO character device. Lines are
// requested lazily, so construction never touches the hardware.
func NewChip(name string) *Chip {
	return &Chip{name: name}
}

// Output requests a single output line initialized to the given level.
func (c *Chip) Output(offset int, initial int) (Pin, error) {
	l, err := gpiocdev.RequestLine(c.name, offset, gpiocdev.AsOutput(initial))
	if err != nil {
		return nil, errors.Wrapf(err, "requesting output line %d on %s", offset, c.name)
	}
	return &gpioPin{line: l}, nil
}

// Outputs requests a group of output lines, all initialized to the given
// level, latched together by SetValues.
func (c *Chip) Outputs(offsets []int, initial int) (PinGroup, error) {
	init := make([]int, len(offsets))
	for i := range init {
		init[i] = initial
	}
	l, err := gpiocdev.RequestLines(c.name, offsets, gpiocdev.AsOutput(init...))
	if err != nil {
		return nil, errors.Wrapf(err, "requesting output lines %v on %s", offsets, c.name)
	}
	return &gpioGroup{lines: l, n: len(offsets)}, nil
}

// RisingEdge requests an input line with an internal pull-up and invokes fn
// on every rising edge. fn runs on the gpiocdev event goroutine and must not
// block. The returned Pin only supports Close.
func (c *Chip) RisingEdge(offset int, fn EdgeFunc) (Pin, error) {
	l, err := gpiocdev.RequestLine(c.name, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { fn() }))
	if err != nil {
		return nil, errors.Wrapf(err, "requesting edge line %d on %s", offset, c.name)
	}
	return &gpioPin{line: l}, nil
}

type gpioPin struct {
	line *gpiocdev.Line
}

func (p *gpioPin) SetValue(v int) error { return p.line.SetValue(v) }
func (p *gpioPin) Close() error         { return p.line.Close() }

type gpioGroup struct {
	lines *gpiocdev.Lines
	n     int
}

func (g *gpioGroup) SetValues(vv []int) error { return g.lines.SetValues(vv) }
func (g *gpioGroup) Len() int                 { return g.n }
func (g *gpioGroup) Close() error             { return g.lines.Close() }
