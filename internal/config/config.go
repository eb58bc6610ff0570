// ABOUTME: CLI configuration loaded from environment variables.
// ABOUTME: Uses caarlos0/env struct tags with optional .env file loading via godotenv.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all campusctl settings.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. A .env file in the working directory is
// loaded first if present, so local development overrides work without
// exporting variables.
type Config struct {
	// APIURL is the base URL of the CampusRentalFinder API, including the
	// version prefix (e.g. "http://localhost:8000/api/v1").
	APIURL string `env:"CAMPUSCTL_API_URL" envDefault:"http://localhost:8000/api/v1"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `env:"CAMPUSCTL_TIMEOUT" envDefault:"30s"`

	// ConfigDir overrides the directory where session credentials are stored.
	// Empty means the XDG default (~/.config/campusctl).
	ConfigDir string `env:"CAMPUSCTL_CONFIG_DIR"`
}

// Load reads configuration from the environment (and .env, if present).
func Load() (*Config, error) {
	// Ignore a missing .env; only a parse failure of an existing file matters.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *Config) Sanitize() {
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}

	if c.ConfigDir == "" {
		c.ConfigDir = DefaultConfigDir()
	}
}

// DefaultConfigDir returns the default config directory following XDG spec.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "campusctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "campusctl")
}
