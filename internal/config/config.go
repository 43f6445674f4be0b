// Package config loads pathloom settings from an optional YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/joshharrison/pathloom/internal/cpm"
)

// Config is the top-level configuration.
type Config struct {
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// LimitsConfig bounds path enumeration. Zero disables a ceiling.
type LimitsConfig struct {
	MaxPaths int `yaml:"max_paths"`
	MaxSteps int `yaml:"max_steps"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Color bool `yaml:"color"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	def := cpm.DefaultLimits()
	return &Config{
		Limits: LimitsConfig{
			MaxPaths: def.MaxPaths,
			MaxSteps: def.MaxSteps,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CPMLimits converts the limits section for the engine.
func (c *Config) CPMLimits() cpm.Limits {
	return cpm.Limits{MaxPaths: c.Limits.MaxPaths, MaxSteps: c.Limits.MaxSteps}
}

// Validate rejects values the engine and logger cannot use.
func (c *Config) Validate() error {
	if c.Limits.MaxPaths < 0 {
		return fmt.Errorf("limits.max_paths must not be negative, got %d", c.Limits.MaxPaths)
	}
	if c.Limits.MaxSteps < 0 {
		return fmt.Errorf("limits.max_steps must not be negative, got %d", c.Limits.MaxSteps)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PATHLOOM_MAX_PATHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PATHLOOM_MAX_PATHS: %w", err)
		}
		c.Limits.MaxPaths = n
	}
	if v := os.Getenv("PATHLOOM_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PATHLOOM_MAX_STEPS: %w", err)
		}
		c.Limits.MaxSteps = n
	}
	if v := os.Getenv("PATHLOOM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	// https://no-color.org: any non-empty value disables colour.
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = false
	}
	return nil
}
