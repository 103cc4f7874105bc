package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ECS_STRESS_"

// Config controls a stress run. Values come from DefaultConfig, then an
// optional YAML file, then ECS_STRESS_* environment variables, then flags.
type Config struct {
	Duration       time.Duration `yaml:"duration" env:"DURATION"`
	Entities       int           `yaml:"entities" env:"ENTITIES"`
	TickInterval   time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`
	SpawnPerTick   int           `yaml:"spawn_per_tick" env:"SPAWN_PER_TICK"`
	Seed           int64         `yaml:"seed" env:"SEED"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	Profile        string        `yaml:"profile" env:"PROFILE"`
	GCPauseMetrics bool          `yaml:"gc_pause_metrics" env:"GC_PAUSE_METRICS"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		Duration:     10 * time.Second,
		Entities:     10000,
		TickInterval: 5 * time.Millisecond,
		SpawnPerTick: 10,
		Seed:         1,
		LogLevel:     "info",
	}
}

// LoadConfig reads the YAML file at path (if any) over the defaults and
// applies environment overrides. A nil environ means the process environment.
func LoadConfig(path string, environ map[string]string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	opts := env.Options{Prefix: envPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Duration <= 0 {
		errs = append(errs, errors.New("duration must be positive"))
	}
	if c.Entities < 0 {
		errs = append(errs, errors.New("entities must not be negative"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick interval must be positive"))
	}
	if c.SpawnPerTick < 0 {
		errs = append(errs, errors.New("spawn per tick must not be negative"))
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		errs = append(errs, fmt.Errorf("unknown profile %q (want cpu or mem)", c.Profile))
	}
	return errors.Join(errs...)
}
