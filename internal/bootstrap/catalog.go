// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"context"

	"github.com/bobishh/quitter/pkg/metrics"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// InitCatalog creates the catalog and loads it from src in the background.
//
// The HTTP server starts before the catalog is ready. Handlers that
// must not act on a partial catalog (shared links) wait on
// Catalog.WaitReady and answer 503 when it takes too long.
//
// src is either the Postgres repository or the YAML seed, see
// app.initCatalogSource. Transient load failures are retried with
// exponential backoff until ctx is cancelled.
func InitCatalog(ctx context.Context, src service.CatalogSource) *service.Catalog {
	catalog := service.NewCatalog()

	go func() {
		err := backoff.Retry(
			func() error {
				if err := catalog.Load(ctx, src); err != nil {
					logrus.Warnf("catalog load failed: %v, retrying...", err)
					return err
				}
				return nil
			},
			backoff.WithContext(backoff.NewExponentialBackOff(), ctx),
		)
		if err != nil {
			logrus.Errorf("catalog was not loaded: %v", err)
			return
		}
		RecordCatalogSize(catalog)
	}()

	return catalog
}

// RecordCatalogSize updates the catalog gauge.
func RecordCatalogSize(catalog *service.Catalog) {
	metrics.CatalogRecords.WithLabelValues(metrics.KindHabit).Set(float64(len(catalog.Habits())))
	metrics.CatalogRecords.WithLabelValues(metrics.KindTheme).Set(float64(len(catalog.Themes())))
}
