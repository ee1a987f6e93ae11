package gpio

import (
	"fmt"
	"strconv"

	"github.com/warthog618/go-gpiocdev"
)

// DefaultConsumer labels lines requested through the character device
const DefaultConsumer = "ledmatrix"

// Cdev acquires lines from the GPIO character device. A name that is a plain
// number is an offset on Chip; anything else is looked up by line name
// across all chips.
type Cdev struct {
	// Chip used for numeric names, "gpiochip0" when empty
	Chip string
	// Consumer label shown by gpioinfo
	Consumer string
}

type cdevLine struct {
	name string
	line *gpiocdev.Line
}

func (c *Cdev) resolve(name string) (string, int, error) {
	if offset, err := strconv.Atoi(name); err == nil {
		chip := c.Chip
		if chip == "" {
			chip = "gpiochip0"
		}
		return chip, offset, nil
	}
	return gpiocdev.FindLine(name)
}

// Acquire requests the line as an output driven low
func (c *Cdev) Acquire(name string) (Line, error) {
	chip, offset, err := c.resolve(name)
	if err != nil {
		return nil, &AcquireError{Name: name, Err: err}
	}

	consumer := c.Consumer
	if consumer == "" {
		consumer = DefaultConsumer
	}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, &AcquireError{Name: name, Err: fmt.Errorf("request %s:%d: %w", chip, offset, err)}
	}
	return &cdevLine{name: name, line: line}, nil
}

func (l *cdevLine) Name() string {
	return l.name
}

func (l *cdevLine) SetValue(value int) error {
	return l.line.SetValue(level(value))
}

func (l *cdevLine) Close() error {
	return l.line.Close()
}
