// Copyright (c) 2026 Yomira. All rights reserved.
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
  - Backend Selection: STORAGE_DRIVER picks the JSON document or PostgreSQL + Redis.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Storage Drivers

const (
	// DriverDocument keeps every collection in a single JSON file.
	DriverDocument = "document"

	// DriverPostgres keeps records in PostgreSQL and OTP codes and sessions in Redis.
	DriverPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the logistics API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StorageDriver selects the persistence backend ("document" or "postgres").
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"document"`

	// DataFile is the JSON document used by the "document" driver.
	DataFile string `env:"DATA_FILE" envDefault:"./data/db.json"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for OTP codes and sessions
	RedisURL string `env:"REDIS_URL"`

	// SessionSecret signs the bearer session tokens (HS256).
	SessionSecret string `env:"SESSION_SECRET,required"`

	// OTPDebugExpose returns the plaintext OTP in the "_debug_otp" field.
	// Demo deployments only.
	OTPDebugExpose bool `env:"OTP_DEBUG_EXPOSE" envDefault:"false"`

	// SeedFile is an optional YAML file of users created when the user store is empty.
	SeedFile string `env:"SEED_FILE"`

	// PurgeSchedule is an optional cron expression for removing expired OTP codes and sessions.
	PurgeSchedule string `env:"PURGE_SCHEDULE"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks driver-specific requirements.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}

	switch c.StorageDriver {
	case DriverDocument:
		if c.DataFile == "" {
			return errors.New("DATA_FILE is required for the document driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.OTPDebugExpose && c.IsProduction() {
		return errors.New("OTP_DEBUG_EXPOSE cannot be enabled in production")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the comma-separated EXTRA_ORIGINS as a list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
