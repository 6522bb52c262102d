// Package display drives a common-cathode 8x8 LED matrix by row/column
// multiplexing: one row line is driven high at a time while the columns of
// lit cells in that row are pulled low to sink current. Scanning all 8 rows
// every few milliseconds makes the eye integrate the row flashes into one
// stable image.
package display

import (
	"time"

	"github.com/pkg/errors"

	"ledlife/internal/hw"
	"ledlife/internal/life"
)

// Column logic levels. A cell lights when its row is high and its column is
// pulled low; an idle column is held high.
const (
	colLit = hw.Low
	colOff = hw.High
)

// Driver scans a life.Grid onto the matrix lines.
type Driver struct {
	rows [life.Rows]hw.Pin
	cols hw.PinGroup
	hold time.Duration

	colBuf [life.Cols]int
	allOff [life.Cols]int
}

// New builds a driver over 8 row pins and a group of 8 column lines and
// forces everything to the off configuration (rows low, columns high).
// hold is how long each row stays active during a scan; zero means no
// deliberate dwell, which is what the tests use.
func New(rows []hw.Pin, cols hw.PinGroup, hold time.Duration) (*Driver, error) {
	if len(rows) != life.Rows {
		return nil, errors.Wrapf(hw.ErrLineCount, "need %d row pins, got %d", life.Rows, len(rows))
	}
	if cols.Len() != life.Cols {
		return nil, errors.Wrapf(hw.ErrLineCount, "need %d column lines, got %d", life.Cols, cols.Len())
	}
	d := &Driver{cols: cols, hold: hold}
	copy(d.rows[:], rows)
	for i := range d.allOff {
		d.allOff[i] = colOff
	}
	if err := d.Blank(); err != nil {
		return nil, err
	}
	return d, nil
}

// Refresh performs one full scan cycle of the current board. Each row is
// activated exactly once: columns are latched for that row first, the row
// goes high for the hold window, then the row goes low and the columns return
// to the off level before the next row is touched.
func (d *Driver) Refresh(g *life.Grid) error {
	for r := 0; r < life.Rows; r++ {
		bits := g.Row(r)
		for c := 0; c < life.Cols; c++ {
			if bits&(1<<uint(c)) != 0 {
				d.colBuf[c] = colLit
			} else {
				d.colBuf[c] = colOff
			}
		}
		if err := d.cols.SetValues(d.colBuf[:]); err != nil {
			return errors.Wrapf(err, "latching columns for row %d", r)
		}
		if err := d.rows[r].SetValue(hw.High); err != nil {
			return errors.Wrapf(err, "activating row %d", r)
		}
		if d.hold > 0 {
			time.Sleep(d.hold)
		}
		if err := d.rows[r].SetValue(hw.Low); err != nil {
			return errors.Wrapf(err, "deactivating row %d", r)
		}
		if err := d.cols.SetValues(d.allOff[:]); err != nil {
			return errors.Wrapf(err, "parking columns after row %d", r)
		}
	}
	return nil
}

// Blank drives every line to the off configuration.
func (d *Driver) Blank() error {
	if err := d.cols.SetValues(d.allOff[:]); err != nil {
		return errors.Wrap(err, "parking columns")
	}
	for r := range d.rows {
		if err := d.rows[r].SetValue(hw.Low); err != nil {
			return errors.Wrapf(err, "parking row %d", r)
		}
	}
	return nil
}

// Close blanks the matrix and releases all lines.
func (d *Driver) Close() error {
	err := d.Blank()
	for r := range d.rows {
		if cerr := d.rows[r].Close(); err == nil {
			err = cerr
		}
	}
	if cerr := d.cols.Close(); err == nil {
		err = cerr
	}
	return err
}
