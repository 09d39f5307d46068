package config

import (
	"os"
	"strconv"
	"strings"
)

// fieldSet reports whether a nested key path was present in the raw
// YAML document. Needed for fields whose zero value is meaningful
// (booleans, zero tolerances).
func fieldSet(raw map[string]any, path ...string) bool {
	var cur any = raw
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		cur, ok = m[key]
		if !ok {
			return false
		}
	}
	return true
}

// intFieldSet is fieldSet restricted to integer-valued leaves.
func intFieldSet(raw map[string]any, path ...string) bool {
	return fieldSet(raw, path...)
}

// envBool parses a boolean environment variable.
func envBool(name string) (bool, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// envFloat parses a float environment variable.
func envFloat(name string) (float32, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// envInt parses an integer environment variable.
func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// applyEnvOverrides applies SLIPSTREAM_* environment overrides, the
// last layer of precedence.
func applyEnvOverrides(cfg *Config) {
	if n, ok := envInt("SLIPSTREAM_OVERSCAN"); ok {
		cfg.Virtual.Overscan = n
	}
	if f, ok := envFloat("SLIPSTREAM_DEFAULT_ITEM_HEIGHT"); ok {
		cfg.Virtual.DefaultItemHeight = f
	}
	if f, ok := envFloat("SLIPSTREAM_SCROLL_SPEED"); ok {
		cfg.Virtual.ScrollSpeed = f
	}
	if v := os.Getenv("SLIPSTREAM_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("SLIPSTREAM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SLIPSTREAM_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if b, ok := envBool("SLIPSTREAM_TELEMETRY"); ok {
		cfg.Telemetry.Enabled = b
	}
	if v := os.Getenv("SLIPSTREAM_TELEMETRY_LISTEN"); v != "" {
		cfg.Telemetry.Listen = v
	}
}
