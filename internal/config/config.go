package config

import (
	"fmt"
	"net"
	"strings"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Host         string   `env:"HOST" envDefault:"0.0.0.0"`
	Port         string   `env:"PORT" envDefault:"5367" validate:"required,numeric"`
	DatabasePath string   `env:"DATABASE_PATH" envDefault:"users.db"`
	DatabaseURL  string   `env:"DATABASE_URL"`
	BcryptCost   int      `env:"BCRYPT_COST" envDefault:"10" validate:"min=4,max=31"`
	CORSOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	// InitDBRoute exposes the destructive /initdb route over HTTP.
	InitDBRoute bool `env:"INITDB_ROUTE_ENABLED" envDefault:"false"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.CORSOrigins = normalizeOrigins(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and that some database is configured.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DatabaseURL == "" && strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("invalid config: DATABASE_PATH or DATABASE_URL is required")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// UsePostgres reports whether DATABASE_URL selects the postgres backend.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func normalizeOrigins(in []string) []string {
	var out []string
	for _, part := range in {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
