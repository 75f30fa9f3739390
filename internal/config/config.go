// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server configuration
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8081"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"quitter"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// PublicOrigin is the base URL share links point at.
	PublicOrigin string `env:"PUBLIC_ORIGIN" envDefault:"http://localhost:8080"`

	// Redis configuration (tracker store)
	RedisHost       string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string        `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisMaxRetries uint64        `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	TrackerTTL      time.Duration `env:"REDIS_TRACKER_TTL" envDefault:"0s"`

	// Catalog configuration
	// DatabaseURL is optional. When empty the catalog is served from
	// the YAML seed only.
	DatabaseURL     string        `env:"DATABASE_URL"`
	CatalogSeedPath string        `env:"CATALOG_SEED_PATH" envDefault:"config/catalog.yaml"`
	CatalogWait     time.Duration `env:"CATALOG_WAIT" envDefault:"2s"`
}
