// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether the service can answer shared-link requests:
// Redis must answer a ping and the catalog must have finished loading.
type HealthChecker struct {
	client  redis.UniversalClient
	catalog *Catalog
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(client redis.UniversalClient, catalog *Catalog) *HealthChecker {
	return &HealthChecker{client: client, catalog: catalog}
}

// Check performs a Redis health check and a catalog readiness check
func (h *HealthChecker) Check(ctx context.Context) error {
	if h.catalog != nil && !h.catalog.IsReady() {
		return ErrCatalogNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := h.client.Ping(ctx).Result()
	if err != nil {
		logrus.Errorf("Redis health check failed: %v", err)
		return err
	}

	logrus.Debugf("Redis health check passed")
	return nil
}

// IsHealthy returns true if Redis is accessible and the catalog is loaded
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
