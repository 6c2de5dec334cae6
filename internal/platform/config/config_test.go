// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruitlog/internal/platform/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "a-very-long-test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.DriverDocument, cfg.StorageDriver)
	assert.Equal(t, "./data/db.json", cfg.DataFile)
	assert.False(t, cfg.OTPDebugExpose)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Environment:   "development",
			StorageDriver: config.DriverDocument,
			DataFile:      "db.json",
			SessionSecret: "0123456789abcdef",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"document ok", func(c *config.Config) {}, false},
		{"short secret", func(c *config.Config) { c.SessionSecret = "short" }, true},
		{"unknown driver", func(c *config.Config) { c.StorageDriver = "mongo" }, true},
		{"postgres without url", func(c *config.Config) {
			c.StorageDriver = config.DriverPostgres
			c.RedisURL = "redis://localhost:6379/0"
		}, true},
		{"postgres without redis", func(c *config.Config) {
			c.StorageDriver = config.DriverPostgres
			c.DatabaseURL = "postgres://localhost/fruitlog"
		}, true},
		{"postgres ok", func(c *config.Config) {
			c.StorageDriver = config.DriverPostgres
			c.DatabaseURL = "postgres://localhost/fruitlog"
			c.RedisURL = "redis://localhost:6379/0"
		}, false},
		{"debug otp in production", func(c *config.Config) {
			c.Environment = "production"
			c.OTPDebugExpose = true
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
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
