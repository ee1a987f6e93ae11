package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fkcurrie/ledmatrix-golang/internal/config"
	"github.com/fkcurrie/ledmatrix-golang/internal/display"
	"github.com/fkcurrie/ledmatrix-golang/internal/monitor"
	"github.com/fkcurrie/ledmatrix-golang/internal/pattern"
	"github.com/fkcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fkcurrie/ledmatrix-golang/pkg/hub75"
	"github.com/fkcurrie/ledmatrix-golang/pkg/matrix"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file (.json or .yaml)")
	backend := flag.String("backend", "", "GPIO backend: sysfs | cdev | periph | sim (overrides config)")
	patternName := flag.String("pattern", "diagonal", "test pattern: "+strings.Join(pattern.Names(), ", "))
	svgPath := flag.String("svg", "", "SVG image to show instead of a pattern")
	monitorAddr := flag.String("monitor", "", "serve the board monitor on this address (overrides config)")
	dumpOnly := flag.Bool("dump", false, "print the board and exit without driving the panel")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Load configuration
	cfg, loaded, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	if !loaded {
		log.Warn().Str("path", *configPath).Msg("config file not found; using defaults")
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *monitorAddr != "" {
		cfg.Monitor.Addr = *monitorAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Draw the picture
	fb := matrix.NewFrameBuffer()
	if *svgPath != "" {
		if err := loadSVG(fb, *svgPath); err != nil {
			log.Fatal().Err(err).Str("path", *svgPath).Msg("failed to load image")
		}
	} else if err := pattern.Draw(fb, *patternName); err != nil {
		log.Fatal().Err(err).Msg("failed to draw pattern")
	}

	fmt.Println("LED PATTERN:")
	if err := fb.WriteBoard(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("failed to print board")
	}
	if *dumpOnly {
		return
	}

	// Acquire the panel; a half-wired panel is never driven
	acquirer, err := gpio.NewAcquirer(cfg.Backend, cfg.GPIOOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create GPIO backend")
	}
	pins, err := hub75.AcquirePins(acquirer, cfg.Pins)
	if err != nil {
		var aerr *gpio.AcquireError
		if errors.As(err, &aerr) {
			log.Fatal().Err(aerr.Err).Str("line", aerr.Name).Str("backend", cfg.Backend).Msg("unable to acquire panel line")
		}
		log.Fatal().Err(err).Msg("unable to acquire panel lines")
	}
	defer pins.Close()
	log.Info().Str("backend", cfg.Backend).Dur("row_delay", cfg.RowDelay()).Msg("panel lines acquired")

	engine := hub75.NewEngine(fb, pins, hub75.WithRowDelay(cfg.RowDelay()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.Monitor.Addr != "" {
		mon := monitor.NewServer(fb, time.Duration(cfg.Monitor.IntervalMs)*time.Millisecond)
		srv = &http.Server{
			Addr:              cfg.Monitor.Addr,
			Handler:           mon.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Monitor.Addr).Msg("monitor listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("monitor server failed")
			}
		}()
	}

	log.Info().Msg("refreshing panel")
	refresher := display.NewRefresher(engine, time.Duration(cfg.StatsIntervalS)*time.Second)
	err = refresher.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			log.Warn().Err(serr).Msg("failed to shut down monitor")
		}
		cancel()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		pins.Close()
		log.Fatal().Err(err).Msg("refresh failed")
	}
	log.Info().Uint64("frames", engine.Frames()).Msg("shutting down")
}

func loadSVG(fb *matrix.FrameBuffer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	frame, err := matrix.LoadSVG(f)
	if err != nil {
		return err
	}
	fb.Load(frame)
	return nil
}
