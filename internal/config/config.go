// Package config provides environment configuration management.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment configuration for the application.
// Variables carry the APP_ prefix, e.g. APP_OIDC_AUTHORITY.
type Config struct {
	DatabasePath       string   `env:"DATABASE_PATH"        envDefault:"./data/funclist.db"`
	Port               int      `env:"PORT"                 envDefault:"8000"`
	LogLevel           string   `env:"LOG_LEVEL"            envDefault:"info"`
	OIDCAuthority      string   `env:"OIDC_AUTHORITY"`
	OIDCClientID       string   `env:"OIDC_CLIENT_ID"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// StaticPath, when set, enables serving the single-page front-end with
	// fallback-to-index routing. Empty disables static hosting.
	StaticPath string `env:"STATIC_PATH"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "APP_"}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.OIDCAuthority == "" {
		return nil, fmt.Errorf("APP_OIDC_AUTHORITY is required")
	}
	if cfg.OIDCClientID == "" {
		return nil, fmt.Errorf("APP_OIDC_CLIENT_ID is required")
	}

	return cfg, nil
}
