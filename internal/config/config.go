// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Port          string   `env:"PORT" envDefault:"8080"`
	FrontendURL   string   `env:"FRONTEND_URL"`
	DBPath        string   `env:"DB_PATH" envDefault:"./data/folio.db"`
	ProfilePath   string   `env:"PROFILE_PATH"`
	AllowedOrigin []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Contributions ContributionsConfig `envPrefix:"CONTRIB_"`
	Terminal      TerminalConfig      `envPrefix:"TERMINAL_"`
	Janitor       JanitorConfig       `envPrefix:"JANITOR_"`
	Telemetry     TelemetryConfig     `envPrefix:"OTEL_"`
}

// ContributionsConfig controls the contribution statistics engine.
type ContributionsConfig struct {
	Username     string        `env:"USERNAME"`
	APIBaseURL   string        `env:"API_BASE_URL" envDefault:"https://github-contributions-api.deno.dev"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	MaxAttempts  uint          `env:"MAX_ATTEMPTS" envDefault:"1"`
	RefreshRate  float64       `env:"REFRESH_RATE_PER_MINUTE" envDefault:"2"`
	LookupRate   float64       `env:"LOOKUP_RATE_PER_MINUTE" envDefault:"10"`
}

// TerminalConfig controls terminal sessions.
type TerminalConfig struct {
	RecallSize     int `env:"RECALL_SIZE" envDefault:"50"`
	MaxInputLength int `env:"MAX_INPUT_LENGTH" envDefault:"256"`
}

// JanitorConfig controls the background maintenance worker.
type JanitorConfig struct {
	Interval         time.Duration `env:"INTERVAL" envDefault:"5m"`
	HistoryRetention time.Duration `env:"HISTORY_RETENTION" envDefault:"720h"`
	WarmBefore       time.Duration `env:"WARM_BEFORE" envDefault:"30m"`
}

// TelemetryConfig controls optional OTLP tracing.
type TelemetryConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"true"`
	Endpoint    string `env:"ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"folio"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH cannot be empty")
	}
	if c.Contributions.APIBaseURL == "" {
		return errors.New("CONTRIB_API_BASE_URL cannot be empty")
	}
	if c.Contributions.CacheTTL <= 0 {
		return errors.New("CONTRIB_CACHE_TTL must be > 0")
	}
	if c.Contributions.FetchTimeout <= 0 {
		return errors.New("CONTRIB_FETCH_TIMEOUT must be > 0")
	}
	if c.Contributions.MaxAttempts == 0 {
		return errors.New("CONTRIB_MAX_ATTEMPTS must be >= 1")
	}
	if c.Terminal.RecallSize <= 0 {
		return errors.New("TERMINAL_RECALL_SIZE must be > 0")
	}
	if c.Terminal.MaxInputLength <= 0 {
		return errors.New("TERMINAL_MAX_INPUT_LENGTH must be > 0")
	}
	if c.Janitor.Interval <= 0 {
		return errors.New("JANITOR_INTERVAL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	if appEnv := os.Getenv("APP_ENV"); appEnv != "" {
		return appEnv == "development"
	}
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// TracingEnabled reports whether an OTLP exporter should be installed.
func (c *Config) TracingEnabled() bool {
	return c.Telemetry.Enabled && c.Telemetry.Endpoint != ""
}
