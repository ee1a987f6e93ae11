package gpio

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Write is one value written to a simulated line
type Write struct {
	Line  string
	Value int
}

// Sim hands out lines that only record what was written to them. It backs
// dry runs without hardware and protocol tests.
type Sim struct {
	// Record keeps every write in Writes; otherwise only counters are kept
	Record bool
	// Fail makes Acquire fail for the named lines
	Fail map[string]error

	mu     sync.Mutex
	writes []Write
	count  uint64
	levels map[string]int
}

type simLine struct {
	name string
	sim  *Sim
}

// NewSim returns a simulator that records every write
func NewSim() *Sim {
	return &Sim{Record: true}
}

// Acquire returns a recording line, or the configured failure
func (s *Sim) Acquire(name string) (Line, error) {
	if err, ok := s.Fail[name]; ok {
		return nil, &AcquireError{Name: name, Err: err}
	}
	if name == "" {
		return nil, &AcquireError{Name: name, Err: fmt.Errorf("empty line name")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.levels == nil {
		s.levels = make(map[string]int)
	}
	s.levels[name] = 0
	return &simLine{name: name, sim: s}, nil
}

// Writes returns the recorded writes
func (s *Sim) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Count returns the number of writes made since the last Reset
func (s *Sim) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Level returns the last value written to a line
func (s *Sim) Level(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[name]
}

// Reset forgets recorded writes
func (s *Sim) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
	s.count = 0
}

func (l *simLine) Name() string {
	return l.name
}

func (l *simLine) SetValue(value int) error {
	v := level(value)
	s := l.sim

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.levels[l.name] = v
	if s.Record {
		s.writes = append(s.writes, Write{Line: l.name, Value: v})
	}
	log.Trace().Str("line", l.name).Int("value", v).Msg("sim write")
	return nil
}

func (l *simLine) Close() error {
	return nil
}
