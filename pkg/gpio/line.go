// Package gpio provides named output lines for bit-banged panel protocols.
//
// Each backend hands out lines that are already configured as outputs and
// keep their handle open, so a write is a single syscall (or register store).
package gpio

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Line is an output line acquired by name
type Line interface {
	// Name returns the logical name the line was acquired with
	Name() string
	// SetValue drives the line low (0) or high (any other value)
	SetValue(value int) error
	// Close releases the line
	Close() error
}

// Acquirer hands out output lines by logical name
type Acquirer interface {
	Acquire(name string) (Line, error)
}

// AcquireError reports a line that could not be exported or opened
type AcquireError struct {
	Name string
	Err  error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("failed to acquire line %s: %v", e.Name, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// AcquireAll acquires every named line in order. If any line fails, the lines
// already acquired are closed and the failure is returned.
func AcquireAll(a Acquirer, names []string) ([]Line, error) {
	lines := make([]Line, 0, len(names))
	for _, name := range names {
		line, err := a.Acquire(name)
		if err != nil {
			CloseAll(lines)
			return nil, err
		}
		lines = append(lines, line)
		log.Debug().Str("line", name).Msg("acquired GPIO line")
	}
	return lines, nil
}

// CloseAll closes every line, logging failures, and returns the first error
func CloseAll(lines []Line) error {
	var first error
	for _, line := range lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			log.Warn().Err(err).Str("line", line.Name()).Msg("failed to close GPIO line")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func level(value int) int {
	if value != 0 {
		return 1
	}
	return 0
}
