package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultOverscan, cfg.Virtual.Overscan)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadFromPath(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfig(t, "virtual:\n  overscan: 6\n")
		cfg, err := LoadFromPath(path)
		require.NoError(t, err)

		assert.Equal(t, 6, cfg.Virtual.Overscan)
		// Untouched sections come from defaults.
		assert.Equal(t, float32(3), cfg.Virtual.DefaultItemHeight)
		assert.Equal(t, DefaultLogDir, cfg.Logging.Dir)
	})

	t.Run("zero overscan is honored when set", func(t *testing.T) {
		path := writeConfig(t, "virtual:\n  overscan: 0\n")
		cfg, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Virtual.Overscan)
	})

	t.Run("booleans merge when present", func(t *testing.T) {
		path := writeConfig(t, "ui:\n  show_scrollbar: false\ntelemetry:\n  enabled: true\n")
		cfg, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.False(t, cfg.UI.ShowScrollbar)
		assert.True(t, cfg.Telemetry.Enabled)
		assert.Equal(t, DefaultMetricsListen, cfg.Telemetry.Listen)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := writeConfig(t, "virtual: [not a map")
		_, err := LoadFromPath(path)
		require.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SLIPSTREAM_OVERSCAN", "9")
	t.Setenv("SLIPSTREAM_SCROLL_SPEED", "5.5")
	t.Setenv("SLIPSTREAM_LOG_LEVEL", "debug")
	t.Setenv("SLIPSTREAM_TELEMETRY", "true")

	path := writeConfig(t, "virtual:\n  overscan: 2\n")
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Virtual.Overscan, "env beats file")
	assert.Equal(t, float32(5.5), cfg.Virtual.ScrollSpeed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-positive min height", func(c *Config) { c.Virtual.MinItemHeight = 0 }},
		{"max below min", func(c *Config) { c.Virtual.MaxItemHeight = 0.5 }},
		{"negative overscan", func(c *Config) { c.Virtual.Overscan = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }},
		{"telemetry without listen", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Listen = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEngineMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Virtual.Overscan = 7
	cfg.Virtual.MaxItemHeight = 99

	engine := cfg.Virtual.Engine()
	assert.Equal(t, 7, engine.Overscan)
	assert.Equal(t, float32(99), engine.MaxItemHeight)
	assert.Equal(t, cfg.Virtual.ScrollSpeed, engine.ScrollSpeed)
}

func TestWatcherReloads(t *testing.T) {
	path := writeConfig(t, "virtual:\n  overscan: 1\n")

	reloaded := make(chan *Config, 1)
	w := NewWatcher(path, func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// Give the watcher time to arm before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("virtual:\n  overscan: 4\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 4, cfg.Virtual.Overscan)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload within timeout")
	}

	cancel()
	<-done
}
