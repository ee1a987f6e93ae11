package display

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fkcurrie/ledmatrix-golang/pkg/hub75"
	"github.com/fkcurrie/ledmatrix-golang/pkg/matrix"
)

type countingPanel struct {
	n      atomic.Int64
	failAt int64
	cancel context.CancelFunc
}

func (p *countingPanel) Refresh() error {
	n := p.n.Add(1)
	if p.failAt > 0 && n == p.failAt {
		return errors.New("line write failed")
	}
	if p.cancel != nil && n == 100 {
		p.cancel()
	}
	return nil
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	panel := &countingPanel{cancel: cancel}

	err := NewRefresher(panel, time.Nanosecond).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 100, panel.n.Load())
}

func TestRunReturnsRefreshError(t *testing.T) {
	panel := &countingPanel{failAt: 3}
	err := NewRefresher(panel, 0).Run(context.Background())
	assert.EqualError(t, err, "line write failed")
	assert.EqualValues(t, 3, panel.n.Load())
}

func TestRunDrivesEngine(t *testing.T) {
	sim := &gpio.Sim{}
	names := hub75.DefaultPinNames
	pins, err := hub75.AcquirePins(sim, names)
	require.NoError(t, err)
	defer pins.Close()

	fb := matrix.NewFrameBuffer()
	engine := hub75.NewEngine(fb, pins, hub75.WithRowDelay(0))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = NewRefresher(engine, 0).Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	frames := engine.Frames()
	assert.NotZero(t, frames)
	perFrame := uint64(matrix.ScanRows * (1 + 3 + matrix.Width*8 + 2 + 1))
	assert.Equal(t, frames*perFrame, sim.Count())
}
