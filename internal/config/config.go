package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds editor settings. Zero values are replaced by defaults on
// load, the same way missing prefs fall back to the built-in values.
type Config struct {
	// Frame loop
	TickRate      int     `yaml:"tick_rate" toml:"tick_rate"`
	FixedDelta    float32 `yaml:"fixed_delta" toml:"fixed_delta"`
	MaxFixedSteps int     `yaml:"max_fixed_steps" toml:"max_fixed_steps"`
	TimeScale     float32 `yaml:"time_scale" toml:"time_scale"`

	// Physics
	Gravity [2]float32 `yaml:"gravity" toml:"gravity"`

	// Scenes
	ScenePath   string `yaml:"scene_path" toml:"scene_path"`
	SceneFormat string `yaml:"scene_format" toml:"scene_format"`

	// Logging
	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TickRate:      60,
		FixedDelta:    1.0 / 60,
		MaxFixedSteps: 8,
		TimeScale:     1,
		Gravity:       [2]float32{0, 9.81},
		ScenePath:     "assets/scenes/main.yaml",
		SceneFormat:   "yaml",
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load reads path as YAML (.yaml, .yml) or TOML (.toml). Missing values
// keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext and validates the result.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	cfg.fill()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fill() {
	def := Default()
	if c.TickRate == 0 {
		c.TickRate = def.TickRate
	}
	if c.FixedDelta == 0 {
		c.FixedDelta = def.FixedDelta
	}
	if c.MaxFixedSteps == 0 {
		c.MaxFixedSteps = def.MaxFixedSteps
	}
	if c.SceneFormat == "" {
		c.SceneFormat = def.SceneFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.TickRate < 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	if c.FixedDelta < 0 {
		errs = append(errs, fmt.Errorf("fixed_delta must be positive, got %g", c.FixedDelta))
	}
	if c.MaxFixedSteps < 0 {
		errs = append(errs, fmt.Errorf("max_fixed_steps must be positive, got %d", c.MaxFixedSteps))
	}
	if c.TimeScale < 0 {
		errs = append(errs, fmt.Errorf("time_scale must not be negative, got %g", c.TimeScale))
	}
	switch c.SceneFormat {
	case "yaml", "json":
	default:
		errs = append(errs, fmt.Errorf("scene_format must be yaml or json, got %q", c.SceneFormat))
	}
	return errors.Join(errs...)
}

// TickInterval is the wall-clock period between frames.
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}
