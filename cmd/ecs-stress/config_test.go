package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stress.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
duration: 2s
entities: 500
tick_interval: 1ms
log_level: debug
`)

	cfg, err := LoadConfig(path, map[string]string{
		"ECS_STRESS_ENTITIES": "42",
		"ECS_STRESS_PROFILE":  "cpu",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Duration)
	assert.Equal(t, time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 42, cfg.Entities, "environment overrides the file")
	assert.Equal(t, "cpu", cfg.Profile)
	assert.Equal(t, DefaultConfig().SpawnPerTick, cfg.SpawnPerTick, "unset keys keep their defaults")
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "entites: 10\n")

	_, err := LoadConfig(path, map[string]string{})
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigBadEnvironment(t *testing.T) {
	_, err := LoadConfig("", map[string]string{"ECS_STRESS_DURATION": "soon"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"mem profile", func(c *Config) { c.Profile = "mem" }, true},
		{"zero duration", func(c *Config) { c.Duration = 0 }, false},
		{"negative entities", func(c *Config) { c.Entities = -1 }, false},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, false},
		{"negative spawn", func(c *Config) { c.SpawnPerTick = -3 }, false},
		{"unknown profile", func(c *Config) { c.Profile = "block" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestParseConfigFlagsWin(t *testing.T) {
	t.Setenv("ECS_STRESS_SEED", "7")
	t.Setenv("ECS_STRESS_ENTITIES", "900")
	path := writeConfig(t, "entities: 300\nspawn_per_tick: 3\n")

	cfg, err := parseConfig([]string{"-config", path, "-entities", "5", "-gc-pause-metrics"})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Entities)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.SpawnPerTick)
	assert.True(t, cfg.GCPauseMetrics)
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := parseConfig([]string{"-profile", "trace"})
	assert.ErrorContains(t, err, "unknown profile")
}
