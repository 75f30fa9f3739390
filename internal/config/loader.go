// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges and cross-field constraints that struct tags
// cannot express.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}

	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if c.HTTPPort == c.MetricsPort {
		return fmt.Errorf("HTTP_PORT and METRICS_PORT must differ, both are %d", c.HTTPPort)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	origin, err := url.Parse(c.PublicOrigin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return fmt.Errorf("invalid PUBLIC_ORIGIN: %q (must be an absolute URL)", c.PublicOrigin)
	}

	if c.TrackerTTL < 0 {
		return fmt.Errorf("REDIS_TRACKER_TTL must be non-negative, got %v", c.TrackerTTL)
	}

	if c.CatalogWait <= 0 {
		return fmt.Errorf("CATALOG_WAIT must be positive, got %v", c.CatalogWait)
	}

	if c.DatabaseURL == "" && c.CatalogSeedPath == "" {
		return fmt.Errorf("either DATABASE_URL or CATALOG_SEED_PATH is required")
	}

	return nil
}
