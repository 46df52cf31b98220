// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/taibuivan/libris/internal/platform/config"
	"github.com/taibuivan/libris/internal/platform/constants"
)

const (
	configFileName = "librisctl"
	configFileType = "yaml"
	envPrefix      = "LIBRIS"

	cfgKeyDriver        = "driver"
	cfgKeyDatabaseURL   = "database_url"
	cfgKeyMigrationPath = "migration_path"
	cfgKeySQLitePath    = "sqlite_path"
	cfgKeyRedisURL      = "redis_url"
	cfgKeyTolerance     = "search_tolerance"
	cfgKeyCacheTTL      = "search_cache_ttl"
	cfgKeyMaxAttempts   = "circulation_max_attempts"
	cfgKeyPrivateKey    = "jwt_private_key_path"
	cfgKeyPublicKey     = "jwt_public_key_path"
	cfgKeyIssuer        = "jwt_issuer"
)

// settings is the resolved librisctl configuration.
type settings struct {
	Driver        string
	DatabaseURL   string
	MigrationPath string
	SQLitePath    string
	RedisURL      string

	SearchTolerance        float64
	SearchCacheTTL         time.Duration
	CirculationMaxAttempts int

	PrivateKeyPath string
	PublicKeyPath  string
	Issuer         string
}

// storageFlags maps config keys to the persistent flags that override them.
var storageFlags = map[string]string{
	cfgKeyDriver:      "driver",
	cfgKeyDatabaseURL: "database-url",
	cfgKeySQLitePath:  "sqlite-path",
	cfgKeyRedisURL:    "redis-url",
}

// registerFlags adds the storage flags shared by every subcommand.
func registerFlags(flags *pflag.FlagSet) {
	flags.String("driver", config.DriverSQLite, "catalog backend: postgres or sqlite")
	flags.String("database-url", "", "PostgreSQL connection string")
	flags.String("sqlite-path", "./data/libris.db", "SQLite database file")
	flags.String("redis-url", "", "Redis URL of the search cache to invalidate after writes")
}

// loadSettings resolves flags > LIBRIS_* env > config file > defaults.
// A missing config file is not an error.
func loadSettings(configFile string, flags *pflag.FlagSet) (*settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyMigrationPath, "./data/migrations")
	v.SetDefault(cfgKeyTolerance, 0.12)
	v.SetDefault(cfgKeyCacheTTL, "5m")
	v.SetDefault(cfgKeyMaxAttempts, 6)
	v.SetDefault(cfgKeyIssuer, constants.AuthIssuer)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for key, name := range storageFlags {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.libris")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	resolved := &settings{
		Driver:                 v.GetString(cfgKeyDriver),
		DatabaseURL:            v.GetString(cfgKeyDatabaseURL),
		MigrationPath:          v.GetString(cfgKeyMigrationPath),
		SQLitePath:             v.GetString(cfgKeySQLitePath),
		RedisURL:               v.GetString(cfgKeyRedisURL),
		SearchTolerance:        v.GetFloat64(cfgKeyTolerance),
		SearchCacheTTL:         v.GetDuration(cfgKeyCacheTTL),
		CirculationMaxAttempts: v.GetInt(cfgKeyMaxAttempts),
		PrivateKeyPath:         v.GetString(cfgKeyPrivateKey),
		PublicKeyPath:          v.GetString(cfgKeyPublicKey),
		Issuer:                 v.GetString(cfgKeyIssuer),
	}
	return resolved, nil
}

// serverConfig maps the settings onto the server configuration so the shared
// validation rules apply.
func (s *settings) serverConfig() *config.Config {
	return &config.Config{
		StorageDriver:          s.Driver,
		DatabaseURL:            s.DatabaseURL,
		MigrationPath:          s.MigrationPath,
		SQLitePath:             s.SQLitePath,
		RedisURL:               s.RedisURL,
		SearchTolerance:        s.SearchTolerance,
		SearchCacheTTL:         s.SearchCacheTTL,
		CirculationMaxAttempts: s.CirculationMaxAttempts,
	}
}
