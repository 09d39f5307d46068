// Package config loads slipstream configuration with the usual
// precedence: built-in defaults, then the YAML file, then environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/slipstream/pkg/virtual"
)

// Default tuning values exported for documentation and validation
const (
	DefaultOverscan        = 3
	DefaultScrollSpeed     = 3.0
	DefaultViewportColumns = 60
	DefaultLogDir          = ".slipstream/logs"
	DefaultMetricsListen   = "127.0.0.1:9188"
)

// Config is the complete slipstream configuration
type Config struct {
	Virtual   VirtualConfig   `yaml:"virtual"`
	UI        UIConfig        `yaml:"ui"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// VirtualConfig tunes the virtualization engine. Heights are in the
// unit the renderer measures in; the demo uses terminal rows.
type VirtualConfig struct {
	Overscan          int     `yaml:"overscan"`
	MinItemHeight     float32 `yaml:"min_item_height"`
	MaxItemHeight     float32 `yaml:"max_item_height"`
	DefaultItemHeight float32 `yaml:"default_item_height"`
	ScrollSpeed       float32 `yaml:"scroll_speed"`
	BottomTolerance   float32 `yaml:"bottom_tolerance"`
	FollowTolerance   float32 `yaml:"follow_tolerance"`
}

// Engine converts the YAML section into the engine's Config.
func (v VirtualConfig) Engine() virtual.Config {
	return virtual.Config{
		Overscan:          v.Overscan,
		MinItemHeight:     v.MinItemHeight,
		MaxItemHeight:     v.MaxItemHeight,
		DefaultItemHeight: v.DefaultItemHeight,
		ScrollSpeed:       v.ScrollSpeed,
		BottomTolerance:   v.BottomTolerance,
		FollowTolerance:   v.FollowTolerance,
	}
}

// UIConfig controls demo rendering.
type UIConfig struct {
	// WrapColumns is the column budget used for height estimates.
	WrapColumns int `yaml:"wrap_columns"`
	// ShowScrollbar toggles the right-edge scrollbar.
	ShowScrollbar bool `yaml:"show_scrollbar"`
	// Theme selects the demo palette ("dark" or "light").
	Theme string `yaml:"theme"`
}

// LoggingConfig controls the structured JSONL logger.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// TelemetryConfig controls frame tracking and the Prometheus endpoint.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DefaultConfig returns the built-in defaults. The virtual section
// defaults to terminal-row units.
func DefaultConfig() *Config {
	return &Config{
		Virtual: VirtualConfig{
			Overscan:          DefaultOverscan,
			MinItemHeight:     1,
			MaxItemHeight:     40,
			DefaultItemHeight: 3,
			ScrollSpeed:       DefaultScrollSpeed,
			BottomTolerance:   0.5,
			FollowTolerance:   2,
		},
		UI: UIConfig{
			WrapColumns:   DefaultViewportColumns,
			ShowScrollbar: true,
			Theme:         "dark",
		},
		Logging: LoggingConfig{
			Dir:   DefaultLogDir,
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
			Listen:  DefaultMetricsListen,
		},
	}
}

// Load loads configuration from default locations with proper
// precedence: defaults, then ~/.slipstream/config.yaml, then
// ./.slipstream/config.yaml, then environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userPath := filepath.Join(home, ".slipstream", "config.yaml")
		if err := loadAndMerge(cfg, userPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	projectPath := filepath.Join(".", ".slipstream", "config.yaml")
	if err := loadAndMerge(cfg, projectPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Zero values only win when
// the raw document actually set them, so partial files work.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if intFieldSet(raw, "virtual", "overscan") {
		base.Virtual.Overscan = override.Virtual.Overscan
	}
	if override.Virtual.MinItemHeight != 0 {
		base.Virtual.MinItemHeight = override.Virtual.MinItemHeight
	}
	if override.Virtual.MaxItemHeight != 0 {
		base.Virtual.MaxItemHeight = override.Virtual.MaxItemHeight
	}
	if override.Virtual.DefaultItemHeight != 0 {
		base.Virtual.DefaultItemHeight = override.Virtual.DefaultItemHeight
	}
	if override.Virtual.ScrollSpeed != 0 {
		base.Virtual.ScrollSpeed = override.Virtual.ScrollSpeed
	}
	if fieldSet(raw, "virtual", "bottom_tolerance") {
		base.Virtual.BottomTolerance = override.Virtual.BottomTolerance
	}
	if fieldSet(raw, "virtual", "follow_tolerance") {
		base.Virtual.FollowTolerance = override.Virtual.FollowTolerance
	}

	if override.UI.WrapColumns != 0 {
		base.UI.WrapColumns = override.UI.WrapColumns
	}
	if fieldSet(raw, "ui", "show_scrollbar") {
		base.UI.ShowScrollbar = override.UI.ShowScrollbar
	}
	if override.UI.Theme != "" {
		base.UI.Theme = override.UI.Theme
	}

	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if fieldSet(raw, "telemetry", "enabled") {
		base.Telemetry.Enabled = override.Telemetry.Enabled
	}
	if override.Telemetry.Listen != "" {
		base.Telemetry.Listen = override.Telemetry.Listen
	}
}

// Validate checks the configuration for values the engine cannot run
// with.
func (c *Config) Validate() error {
	if c.Virtual.MinItemHeight <= 0 {
		return fmt.Errorf("virtual.min_item_height must be positive, got %v", c.Virtual.MinItemHeight)
	}
	if c.Virtual.MaxItemHeight < c.Virtual.MinItemHeight {
		return fmt.Errorf("virtual.max_item_height %v below min_item_height %v",
			c.Virtual.MaxItemHeight, c.Virtual.MinItemHeight)
	}
	if c.Virtual.Overscan < 0 {
		return fmt.Errorf("virtual.overscan must not be negative, got %d", c.Virtual.Overscan)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q is not one of dark, light", c.UI.Theme)
	}
	if c.Telemetry.Enabled && c.Telemetry.Listen == "" {
		return fmt.Errorf("telemetry.listen required when telemetry is enabled")
	}
	return nil
}
