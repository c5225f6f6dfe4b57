// Package config loads the application configuration from a YAML file with
// environment overrides. The file is read-only input: the app never writes
// settings back. A missing file means all defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level plume configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Zoom     ZoomConfig     `yaml:"zoom"`
	Edit     EditConfig     `yaml:"edit"`
	Font     FontConfig     `yaml:"font"`
	EventLog EventLogConfig `yaml:"event_log"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// ZoomConfig bounds the zoom factor.
type ZoomConfig struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Initial float64 `yaml:"initial"`
}

// EditConfig controls edit commit behaviour.
type EditConfig struct {
	// DebounceWindow is the quiet period before a queued edit commits.
	DebounceWindow time.Duration `yaml:"debounce_window"`
}

// FontConfig selects the annotation font.
type FontConfig struct {
	Name string `yaml:"name"` // PDF base font name
	Size int    `yaml:"size"` // points
}

// EventLogConfig enables the optional SQLite session event log.
type EventLogConfig struct {
	// Path of the database file. Empty disables event logging.
	Path string `yaml:"path"`
	// RetentionDays prunes events older than this at startup. 0 keeps all.
	RetentionDays int `yaml:"retention_days"`
}

// Load reads the configuration. The path comes from $PLUME_CONFIG, falling
// back to ~/.config/plume/config.yaml. A missing file is not an error.
func Load() (*Config, error) {
	path := os.Getenv("PLUME_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".config", "plume", "config.yaml")
		}
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFile reads a specific YAML file (tests, tooling).
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PLUME_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PLUME_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("PLUME_EVENT_LOG"); v != "" {
		c.EventLog.Path = v
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Zoom.Min <= 0 {
		c.Zoom.Min = 0.2
	}
	if c.Zoom.Max <= 0 {
		c.Zoom.Max = 6.0
	}
	if c.Zoom.Step <= 0 {
		c.Zoom.Step = 0.1
	}
	if c.Zoom.Initial <= 0 {
		c.Zoom.Initial = 1.0
	}
	if c.Edit.DebounceWindow <= 0 {
		c.Edit.DebounceWindow = 250 * time.Millisecond
	}
	if c.Font.Name == "" {
		c.Font.Name = "Helvetica"
	}
	if c.Font.Size <= 0 {
		c.Font.Size = 12
	}
}
