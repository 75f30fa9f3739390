// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bobishh/quitter/internal/bootstrap"
	"github.com/bobishh/quitter/internal/config"
	"github.com/bobishh/quitter/internal/server"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	dbPool            *pgxpool.Pool
	shutdownTelemetry func(context.Context) error

	// loadCancel stops a catalog load still retrying at shutdown.
	loadCancel context.CancelFunc
}

// New creates and initializes a new application instance.
//
// Components are initialized in dependency order:
// 1. Redis (tracker store)
// 2. Postgres (optional catalog repository)
// 3. Catalog (loaded in the background)
// 4. Tracker store, reconciler and HTTP handlers
// 5. Servers (HTTP API, metrics)
// 6. Telemetry (OpenTelemetry tracing)
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// Step 1: Initialize Redis
	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	// Step 2: Initialize Postgres, when configured
	repo, err := app.initCatalogRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init catalog repository: %w", err)
	}

	// Step 3: Load the catalog
	src, err := app.initCatalogSource(ctx, repo)
	if err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithCancel(context.Background())
	app.loadCancel = cancel
	catalog := bootstrap.InitCatalog(loadCtx, src)

	// Step 4: Build services and handlers
	store := service.NewRedisTrackerStore(app.redisClient, service.RedisTrackerStoreConfig{
		TTL: cfg.TrackerTTL,
	})

	deps := bootstrap.Dependencies{
		Store:        store,
		Catalog:      catalog,
		Reconciler:   bootstrap.InitReconciler(catalog),
		Health:       service.NewHealthChecker(app.redisClient, catalog),
		PublicOrigin: cfg.PublicOrigin,
		CatalogWait:  cfg.CatalogWait,
	}
	if repo != nil {
		deps.Repo = repo
	}
	routes := bootstrap.InitRoutes(deps)

	// Step 5: Setup servers
	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, routes)
	if err := app.httpServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// Step 6: Setup telemetry
	shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ServiceName, cfg.Environment, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdownTelemetry

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, a.cfg.RedisMaxRetries)

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		maxRetries,
	)

	if err != nil {
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// initCatalogRepository connects to Postgres and migrates the catalog
// tables. It returns nil when DATABASE_URL is not set.
func (a *App) initCatalogRepository(ctx context.Context) (*service.PostgresCatalogRepository, error) {
	if a.cfg.DatabaseURL == "" {
		logrus.Info("DATABASE_URL not set, catalog is served from the seed file only")
		return nil, nil
	}

	var pool *pgxpool.Pool
	err := backoff.Retry(
		func() error {
			p, err := service.NewPostgresPool(ctx, a.cfg.DatabaseURL)
			if err != nil {
				logrus.Warnf("Postgres connection failed: %v, retrying...", err)
				return err
			}
			pool = p
			return nil
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), a.cfg.RedisMaxRetries),
	)
	if err != nil {
		return nil, err
	}
	a.dbPool = pool

	repo := service.NewPostgresCatalogRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog tables: %w", err)
	}

	logrus.Info("Postgres catalog repository initialized")
	return repo, nil
}

// initCatalogSource picks where the catalog is loaded from. With a
// repository the seed file, when present, is upserted first so that a
// fresh database starts with the default habits.
func (a *App) initCatalogSource(ctx context.Context, repo *service.PostgresCatalogRepository) (service.CatalogSource, error) {
	var seed *service.CatalogSeed
	if a.cfg.CatalogSeedPath != "" {
		s, err := service.LoadCatalogSeed(a.cfg.CatalogSeedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog seed from %s: %w", a.cfg.CatalogSeedPath, err)
		}
		seed = s
		logrus.Infof("loaded catalog seed from %s", a.cfg.CatalogSeedPath)
	}

	if repo == nil {
		if seed == nil {
			return nil, fmt.Errorf("no catalog source configured")
		}
		return seed, nil
	}

	if seed != nil {
		if err := repo.Seed(ctx, seed); err != nil {
			return nil, fmt.Errorf("failed to seed catalog repository: %w", err)
		}
	}
	return repo, nil
}
