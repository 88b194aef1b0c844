// Package config loads tool configuration: defaults, overridden by an
// optional YAML file, overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds tool configuration
type Config struct {
	// DBPath is the SQLite database file holding the state blob.
	// Env: MW_DB. Default: ~/.local/share/mindweek/mindweek.db
	DBPath string `yaml:"db_path"`

	// Model is the Anthropic model used for task classification.
	// Env: MW_MODEL. Empty selects the classifier's default.
	Model string `yaml:"model"`

	// APIKey is the Anthropic API key. Env: ANTHROPIC_API_KEY.
	// Never written to the config file by the tool; the yaml field
	// exists for users who prefer file-based setup.
	APIKey string `yaml:"api_key"`

	// ClassifyTimeoutSeconds is the per-attempt classifier timeout.
	// Env: MW_CLASSIFY_TIMEOUT_SECONDS. Default: 15, Range: 1-120.
	ClassifyTimeoutSeconds int `yaml:"classify_timeout_seconds"`

	// RequestsPerMinute caps classifier API calls.
	// Env: MW_CLASSIFY_RPM. Default: 20.
	RequestsPerMinute int `yaml:"classify_rpm"`
}

// Default returns the built-in defaults.
func Default() *Config {
	cfg := &Config{
		ClassifyTimeoutSeconds: 15,
		RequestsPerMinute:      20,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DBPath = filepath.Join(home, ".local", "share", "mindweek", "mindweek.db")
	} else {
		cfg.DBPath = "mindweek.db"
	}
	return cfg
}

// Path returns the config file location (~/.config/mindweek/config.yaml).
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "mindweek", "config.yaml")
}

// Load builds the effective configuration: defaults, then the config
// file if present, then environment overrides. A missing file is not
// an error; a malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", Path(), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", Path(), err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MW_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("MW_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("MW_CLASSIFY_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ClassifyTimeoutSeconds = n
		}
	}
	if v := os.Getenv("MW_CLASSIFY_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RequestsPerMinute = n
		}
	}
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if c.ClassifyTimeoutSeconds < 1 || c.ClassifyTimeoutSeconds > 120 {
		return fmt.Errorf("classify_timeout_seconds must be between 1 and 120 (got %d)", c.ClassifyTimeoutSeconds)
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("classify_rpm must be positive (got %d)", c.RequestsPerMinute)
	}
	return nil
}

// ClassifyTimeout returns the classifier timeout as a duration.
func (c *Config) ClassifyTimeout() time.Duration {
	return time.Duration(c.ClassifyTimeoutSeconds) * time.Second
}
