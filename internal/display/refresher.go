package display

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Panel is a display that has to be refreshed continuously to stay lit
type Panel interface {
	Refresh() error
}

// Refresher keeps a panel lit by refreshing it back to back
type Refresher struct {
	panel Panel
	// StatsInterval is how often the refresh rate is logged, zero disables it
	StatsInterval time.Duration
}

// NewRefresher creates a new refresher for the panel
func NewRefresher(panel Panel, statsInterval time.Duration) *Refresher {
	return &Refresher{
		panel:         panel,
		StatsInterval: statsInterval,
	}
}

// Run refreshes the panel until the context is cancelled or a refresh fails.
// It returns ctx.Err() on cancellation and the refresh error otherwise.
func (r *Refresher) Run(ctx context.Context) error {
	var frames uint64
	start := time.Now()
	last := start

	for {
		select {
		case <-ctx.Done():
			log.Info().
				Uint64("frames", frames).
				Dur("elapsed", time.Since(start)).
				Msg("refresh loop stopped")
			return ctx.Err()
		default:
		}

		if err := r.panel.Refresh(); err != nil {
			return err
		}
		frames++

		if r.StatsInterval > 0 {
			if now := time.Now(); now.Sub(last) >= r.StatsInterval {
				log.Info().
					Uint64("frames", frames).
					Float64("fps", float64(frames)/now.Sub(start).Seconds()).
					Msg("refresh rate")
				last = now
			}
		}
	}
}
