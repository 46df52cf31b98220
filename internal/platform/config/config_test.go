// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/platform/config"
)

/*
TestLoad_SQLiteDefaults tests that a minimal SQLite environment loads with defaults.
*/
func TestLoad_SQLiteDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/libris.db")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.InDelta(t, 0.12, cfg.SearchTolerance, 1e-9)
	assert.Equal(t, 5*time.Minute, cfg.SearchCacheTTL)
	assert.Equal(t, 6, cfg.CirculationMaxAttempts)
	assert.False(t, cfg.AuthEnabled())
}

/*
TestConfig_Validate tests the cross-field rules.
*/
func TestConfig_Validate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			StorageDriver:          config.DriverPostgres,
			DatabaseURL:            "postgres://localhost/libris",
			SearchTolerance:        0.12,
			CirculationMaxAttempts: 3,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"valid", func(c *config.Config) {}, false},
		{"postgres_without_url", func(c *config.Config) { c.DatabaseURL = "" }, true},
		{"unknown_driver", func(c *config.Config) { c.StorageDriver = "mongo" }, true},
		{"tolerance_above_one", func(c *config.Config) { c.SearchTolerance = 1.5 }, true},
		{"negative_tolerance", func(c *config.Config) { c.SearchTolerance = -0.1 }, true},
		{"zero_attempts", func(c *config.Config) { c.CirculationMaxAttempts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestConfig_AllowedOrigins tests the EXTRA_ORIGINS split.
*/
func TestConfig_AllowedOrigins(t *testing.T) {
	cfg := config.Config{ExtraOrigins: " https://desk.libris.test, ,https://opac.libris.test"}
	assert.Equal(t, []string{"https://desk.libris.test", "https://opac.libris.test"}, cfg.AllowedOrigins())

	assert.Empty(t, (&config.Config{}).AllowedOrigins())
}
