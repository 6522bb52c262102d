package control

import (
	"github.com/pkg/errors"

	"ledlife/internal/hw"
)

// EdgeSource requests an input line that fires fn on each rising edge.
// hw.Chip satisfies this for real GPIO.
type EdgeSource interface {
	RisingEdge(offset int, fn hw.EdgeFunc) (hw.Pin, error)
}

// Buttons owns the two input lines for the pause and step push buttons.
type Buttons struct {
	pause hw.Pin
	step  hw.Pin
}

// Bind requests both button lines and attaches the flag handlers. The
// handlers only touch the atomic flags, so they return immediately from the
// edge-event context.
func Bind(src EdgeSource, flags *Flags, pauseOffset, stepOffset int) (*Buttons, error) {
	pause, err := src.RisingEdge(pauseOffset, flags.TogglePause)
	if err != nil {
		return nil, errors.Wrap(err, "binding pause button")
	}
	step, err := src.RisingEdge(stepOffset, flags.RequestStep)
	if err != nil {
		pause.Close()
		return nil, errors.Wrap(err, "binding step button")
	}
	return &Buttons{pause: pause, step: step}, nil
}

// Close releases both button lines.
func (b *Buttons) Close() error {
	err := b.pause.Close()
	if cerr := b.step.Close(); err == nil {
		err = cerr
	}
	return err
}
