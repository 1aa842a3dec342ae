// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"

	"country-capital/internal/logger"
)

const DefaultBaseURL = "https://restcountries.com/v3.1"

// Config holds all application configuration
type Config struct {
	API  APIConfig
	Flag FlagConfig
	Log  LogConfig
}

// APIConfig describes the REST Countries endpoint
type APIConfig struct {
	BaseURL      string        `env:"COUNTRY_API_BASE_URL" envDefault:"https://restcountries.com/v3.1"`
	Timeout      time.Duration `env:"COUNTRY_API_TIMEOUT" envDefault:"10s"`
	MaxRedirects int           `env:"COUNTRY_API_MAX_REDIRECTS" envDefault:"10"`
}

// FlagConfig bounds the displayed flag image
type FlagConfig struct {
	MaxWidth  int `env:"FLAG_MAX_WIDTH" envDefault:"320"`
	MaxHeight int `env:"FLAG_MAX_HEIGHT" envDefault:"200"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	JSON  bool   `env:"LOG_JSON" envDefault:"false"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// LoadFrom reads configuration from the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("COUNTRY_API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("COUNTRY_API_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	if c.API.MaxRedirects <= 0 {
		return fmt.Errorf("COUNTRY_API_MAX_REDIRECTS must be positive, got %d", c.API.MaxRedirects)
	}
	if c.Flag.MaxWidth <= 0 || c.Flag.MaxHeight <= 0 {
		return fmt.Errorf("flag box must be positive, got %dx%d", c.Flag.MaxWidth, c.Flag.MaxHeight)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}
