package gpio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// DefaultSysfsBase is where the kernel exposes the legacy GPIO interface
const DefaultSysfsBase = "/sys/class/gpio"

// Sysfs acquires lines through the legacy /sys/class/gpio interface. Names are
// kernel GPIO numbers, optionally prefixed with "gpio" ("73" or "gpio73").
type Sysfs struct {
	// Base is the sysfs GPIO directory, DefaultSysfsBase when empty
	Base string
	// Settle is how long to wait after exporting for udev to create the
	// line directory
	Settle time.Duration
	// Unexport returns the line to the kernel on Close
	Unexport bool
}

type sysfsLine struct {
	name     string
	number   int
	base     string
	unexport bool

	mu sync.Mutex
	fd int
	// one byte, reused for every write
	buf [1]byte
}

func (s *Sysfs) base() string {
	if s.Base == "" {
		return DefaultSysfsBase
	}
	return s.Base
}

// Acquire exports the line once, sets it as an output and keeps its value
// file open for the life of the line
func (s *Sysfs) Acquire(name string) (Line, error) {
	number, err := strconv.Atoi(strings.TrimPrefix(name, "gpio"))
	if err != nil || number < 0 {
		return nil, &AcquireError{Name: name, Err: fmt.Errorf("not a GPIO number")}
	}
	base := s.base()

	exported := false
	if err := writeFile(filepath.Join(base, "export"), strconv.Itoa(number)); err != nil {
		// The kernel answers EBUSY when the line is already exported
		if !errors.Is(err, syscall.EBUSY) {
			return nil, &AcquireError{Name: name, Err: fmt.Errorf("export: %w", err)}
		}
		log.Debug().Int("gpio", number).Msg("GPIO already exported, continuing")
	} else {
		exported = true
	}
	// undo our own export when the line cannot be set up
	fail := func(err error) (Line, error) {
		if exported && s.Unexport {
			unexport(base, number)
		}
		return nil, &AcquireError{Name: name, Err: err}
	}

	if s.Settle > 0 {
		time.Sleep(s.Settle)
	}

	dir := filepath.Join(base, fmt.Sprintf("gpio%d", number))
	if err := writeFile(filepath.Join(dir, "direction"), "out"); err != nil {
		return fail(fmt.Errorf("set direction: %w", err))
	}

	fd, err := unix.Open(filepath.Join(dir, "value"), unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fail(fmt.Errorf("open value: %w", err))
	}

	return &sysfsLine{
		name:     name,
		number:   number,
		base:     base,
		unexport: s.Unexport,
		fd:       fd,
	}, nil
}

func (l *sysfsLine) Name() string {
	return l.name
}

// SetValue rewrites the value file from offset 0, which is what sysfs expects
// of a held descriptor
func (l *sysfsLine) SetValue(value int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fd < 0 {
		return fmt.Errorf("gpio%d: line closed", l.number)
	}
	l.buf[0] = byte('0' + level(value))
	if _, err := unix.Pwrite(l.fd, l.buf[:], 0); err != nil {
		return fmt.Errorf("gpio%d: write value: %w", l.number, err)
	}
	return nil
}

func (l *sysfsLine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fd < 0 {
		return nil
	}
	err := unix.Close(l.fd)
	l.fd = -1

	if l.unexport {
		unexport(l.base, l.number)
	}
	return err
}

func unexport(base string, number int) {
	if err := writeFile(filepath.Join(base, "unexport"), strconv.Itoa(number)); err != nil {
		log.Warn().Err(err).Int("gpio", number).Msg("failed to unexport GPIO")
	}
}

func writeFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}
