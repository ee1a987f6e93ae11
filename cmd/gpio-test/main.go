package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fkcurrie/ledmatrix-golang/pkg/gpio"
)

func main() {
	backend := flag.String("backend", gpio.BackendSysfs, "GPIO backend: sysfs | cdev | periph | sim")
	lineName := flag.String("line", "73", "name of the line to toggle")
	chip := flag.String("chip", "gpiochip0", "chip for numeric cdev line names")
	period := flag.Duration("period", time.Second, "toggle period")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("backend", *backend).Str("line", *lineName).Msg("starting GPIO test")

	acquirer, err := gpio.NewAcquirer(*backend, gpio.Options{
		Chip:   *chip,
		Settle: 100 * time.Millisecond,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create GPIO backend")
	}
	line, err := acquirer.Acquire(*lineName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to acquire line")
	}
	defer line.Close()

	log.Info().Msg("successfully acquired GPIO line")

	// Toggle the line every period until terminated
	ticker := time.NewTicker(*period)
	defer ticker.Stop()
	value := 0
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			if err := line.SetValue(0); err != nil {
				log.Warn().Err(err).Msg("failed to reset line")
			}
			return
		case <-ticker.C:
			value ^= 1
			if err := line.SetValue(value); err != nil {
				log.Error().Err(err).Msg("failed to set value")
				continue
			}
			log.Info().Int("value", value).Msg("set GPIO value")
		}
	}
}
