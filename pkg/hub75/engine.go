// Package hub75 scans a frame buffer onto a 32x16 dual-half RGB panel by
// bit-banging its shift registers.
//
// The panel keeps nothing: every call to Refresh lights each of the eight
// scan rows once, and the caller has to keep calling it.
package hub75

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fkcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fkcurrie/ledmatrix-golang/pkg/matrix"
)

// DefaultRowDelay is how long each scan row stays lit
const DefaultRowDelay = 5 * time.Microsecond

// Sleeper blocks for the row dwell time
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to Sleeper
type SleepFunc func(d time.Duration)

// Sleep calls f(d)
func (f SleepFunc) Sleep(d time.Duration) { f(d) }

// Engine drives the refresh protocol
type Engine struct {
	fb       *matrix.FrameBuffer
	pins     *Pins
	rowDelay time.Duration
	sleeper  Sleeper
	frames   atomic.Uint64
}

// Option configures an Engine
type Option func(*Engine)

// WithRowDelay sets the dwell time of each scan row
func WithRowDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.rowDelay = d
	}
}

// WithSleeper replaces time.Sleep for the row dwell
func WithSleeper(s Sleeper) Option {
	return func(e *Engine) {
		e.sleeper = s
	}
}

// NewEngine returns an engine scanning fb out through pins
func NewEngine(fb *matrix.FrameBuffer, pins *Pins, opts ...Option) *Engine {
	e := &Engine{
		fb:       fb,
		pins:     pins,
		rowDelay: DefaultRowDelay,
		sleeper:  SleepFunc(time.Sleep),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Frames returns the number of completed refreshes
func (e *Engine) Frames() uint64 {
	return e.frames.Load()
}

// RowDelay returns the configured dwell time of each scan row
func (e *Engine) RowDelay() time.Duration {
	return e.rowDelay
}

// Refresh shows the frame buffer once. For each scan row r it blanks the
// panel, selects row r, shifts out 32 columns of row r (upper half) and row
// r+8 (lower half), latches, unblanks and dwells.
//
// The write order is what keeps the display clean: address before data,
// data before clock, clock before latch, latch before unblank. A failed
// write aborts the refresh.
func (e *Engine) Refresh() error {
	frame := e.fb.Frame()
	p := e.pins

	for row := 0; row < matrix.ScanRows; row++ {
		if err := set(p.OE, 1); err != nil {
			return err
		}
		if err := e.setRow(row); err != nil {
			return err
		}

		for col := 0; col < matrix.Width; col++ {
			if err := setColor(p.R1, p.G1, p.B1, frame[col][row]); err != nil {
				return err
			}
			if err := setColor(p.R2, p.G2, p.B2, frame[col][row+matrix.ScanRows]); err != nil {
				return err
			}
			if err := pulse(p.CLK); err != nil {
				return err
			}
		}

		if err := pulse(p.LAT); err != nil {
			return err
		}
		if err := set(p.OE, 0); err != nil {
			return err
		}
		e.sleeper.Sleep(e.rowDelay)
	}

	e.frames.Add(1)
	return nil
}

// setRow drives the three address lines with the bits of row
func (e *Engine) setRow(row int) error {
	if err := set(e.pins.A, row&1); err != nil {
		return err
	}
	if err := set(e.pins.B, (row>>1)&1); err != nil {
		return err
	}
	return set(e.pins.C, (row>>2)&1)
}

func setColor(r, g, b gpio.Line, c matrix.Color) error {
	rv, gv, bv := matrix.Decode(c)
	if err := set(r, rv); err != nil {
		return err
	}
	if err := set(g, gv); err != nil {
		return err
	}
	return set(b, bv)
}

// pulse drives a line high then straight back low
func pulse(l gpio.Line) error {
	if err := set(l, 1); err != nil {
		return err
	}
	return set(l, 0)
}

func set(l gpio.Line, value int) error {
	if err := l.SetValue(value); err != nil {
		return fmt.Errorf("hub75: write %s: %w", l.Name(), err)
	}
	return nil
}
