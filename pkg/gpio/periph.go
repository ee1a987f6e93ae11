package gpio

import (
	"fmt"
	"sync"

	periphgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// Periph acquires lines from the periph.io pin registry, using names such as
// "GPIO17" or board aliases like "P1_11".
type Periph struct {
	// SkipHostInit leaves driver registration to the caller
	SkipHostInit bool
}

type periphLine struct {
	name string
	pin  periphgpio.PinOut
}

// Acquire looks the pin up by name and drives it low
func (p *Periph) Acquire(name string) (Line, error) {
	if !p.SkipHostInit {
		hostOnce.Do(func() {
			_, hostErr = host.Init()
		})
		if hostErr != nil {
			return nil, &AcquireError{Name: name, Err: fmt.Errorf("host init: %w", hostErr)}
		}
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, &AcquireError{Name: name, Err: fmt.Errorf("no such pin")}
	}
	if err := pin.Out(periphgpio.Low); err != nil {
		return nil, &AcquireError{Name: name, Err: err}
	}
	return &periphLine{name: name, pin: pin}, nil
}

func (l *periphLine) Name() string {
	return l.name
}

func (l *periphLine) SetValue(value int) error {
	return l.pin.Out(periphgpio.Level(value != 0))
}

// Close leaves the pin driving its last level
func (l *periphLine) Close() error {
	return nil
}
