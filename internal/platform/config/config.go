// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/libris/pkg/query"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// # Configuration Schema

// Config holds all runtime configuration for the Libris API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageDriver selects the catalog backend: "postgres" or "sqlite".
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Embedded Database (SQLite)
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/libris.db"`

	// Key-Value Cache (Redis). Empty disables the search cache.
	RedisURL string `env:"REDIS_URL"`

	// Search engine tuning
	SearchTolerance float64       `env:"SEARCH_TOLERANCE" envDefault:"0.12"`
	SearchCacheTTL  time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"5m"`

	// CirculationMaxAttempts bounds the retries of a conflicting borrow/return.
	CirculationMaxAttempts int `env:"CIRCULATION_MAX_ATTEMPTS" envDefault:"6"`

	// Staff token verification. Empty public key leaves mutating routes open.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`
	JWTIssuer      string `env:"JWT_ISSUER" envDefault:"libris"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate enforces the cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.SearchTolerance < 0 || c.SearchTolerance > 1 {
		return fmt.Errorf("SEARCH_TOLERANCE must be within [0,1], got %v", c.SearchTolerance)
	}

	if c.CirculationMaxAttempts < 1 {
		return errors.New("CIRCULATION_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AuthEnabled reports whether staff token verification is configured.
func (c *Config) AuthEnabled() bool {
	return c.JWTPubKeyPath != ""
}

// AllowedOrigins returns the comma-separated EXTRA_ORIGINS as a trimmed list.
func (c *Config) AllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
