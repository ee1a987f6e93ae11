package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fkcurrie/ledmatrix-golang/pkg/gpio"
	"github.com/fkcurrie/ledmatrix-golang/pkg/hub75"
)

// Config represents the application configuration
type Config struct {
	Backend        string         `json:"backend" yaml:"backend"`
	Chip           string         `json:"chip" yaml:"chip"`
	Sysfs          SysfsConfig    `json:"sysfs" yaml:"sysfs"`
	Pins           hub75.PinNames `json:"pins" yaml:"pins"`
	RowDelayUs     int            `json:"row_delay_us" yaml:"row_delay_us"`
	StatsIntervalS int            `json:"stats_interval_s" yaml:"stats_interval_s"`
	Monitor        MonitorConfig  `json:"monitor" yaml:"monitor"`
}

// SysfsConfig holds settings for the sysfs GPIO backend
type SysfsConfig struct {
	Base     string `json:"base" yaml:"base"`
	SettleMs int    `json:"settle_ms" yaml:"settle_ms"`
	Unexport bool   `json:"unexport" yaml:"unexport"`
}

// MonitorConfig holds settings for the board monitor server
type MonitorConfig struct {
	Addr       string `json:"addr" yaml:"addr"`
	IntervalMs int    `json:"interval_ms" yaml:"interval_ms"`
}

// LoadConfig loads the configuration from a file. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return config, nil
}

// LoadOrDefault loads the configuration from path, falling back to the
// defaults only when the file does not exist. A file that exists but fails to
// parse or validate is an error. loaded reports whether the file was used.
func LoadOrDefault(path string) (config *Config, loaded bool, err error) {
	config, err = LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return config, true, nil
}

// DefaultConfig returns the default configuration: the reference board's
// sysfs wiring with a 5µs row dwell
func DefaultConfig() *Config {
	return &Config{
		Backend: gpio.BackendSysfs,
		Chip:    "gpiochip0",
		Sysfs: SysfsConfig{
			Base:     gpio.DefaultSysfsBase,
			SettleMs: 100,
		},
		Pins:           hub75.DefaultPinNames,
		RowDelayUs:     int(hub75.DefaultRowDelay / time.Microsecond),
		StatsIntervalS: 10,
		Monitor: MonitorConfig{
			IntervalMs: 200,
		},
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	switch c.Backend {
	case gpio.BackendSysfs, gpio.BackendCdev, gpio.BackendPeriph, gpio.BackendSim:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.RowDelayUs < 0 {
		return fmt.Errorf("row_delay_us must not be negative")
	}
	if c.Sysfs.SettleMs < 0 {
		return fmt.Errorf("sysfs.settle_ms must not be negative")
	}
	if c.Monitor.Addr != "" && c.Monitor.IntervalMs <= 0 {
		return fmt.Errorf("monitor.interval_ms must be positive")
	}
	return c.Pins.Validate()
}

// RowDelay returns the scan row dwell time
func (c *Config) RowDelay() time.Duration {
	return time.Duration(c.RowDelayUs) * time.Microsecond
}

// GPIOOptions returns the options for gpio.NewAcquirer
func (c *Config) GPIOOptions() gpio.Options {
	return gpio.Options{
		Chip:      c.Chip,
		SysfsBase: c.Sysfs.Base,
		Settle:    time.Duration(c.Sysfs.SettleMs) * time.Millisecond,
		Unexport:  c.Sysfs.Unexport,
	}
}
