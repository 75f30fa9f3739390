// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"time"

	"github.com/bobishh/quitter/pkg/handler"
	"github.com/bobishh/quitter/pkg/reconcile"
	"github.com/bobishh/quitter/pkg/service"
	"github.com/sirupsen/logrus"
)

// Dependencies groups what the HTTP handlers are built from.
//
// Repo is optional. When nil, habits and themes created through the
// API are kept in memory only.
type Dependencies struct {
	Store        service.TrackerStore
	Catalog      *service.Catalog
	Repo         service.CatalogRepository
	Reconciler   *reconcile.Reconciler
	Health       handler.HealthChecker
	PublicOrigin string
	CatalogWait  time.Duration
}

// InitRoutes creates every HTTP handler.
func InitRoutes(deps Dependencies) handler.Routes {
	routes := handler.Routes{
		Health:   handler.NewHealth(deps.Health),
		Catalog:  handler.NewCatalog(deps.Catalog, deps.Repo),
		Trackers: handler.NewTrackers(deps.Store, deps.Catalog, deps.PublicOrigin),
		Shared:   handler.NewShared(deps.Store, deps.Catalog, deps.Reconciler, deps.CatalogWait),
	}
	logrus.Infof("initialized HTTP handlers (share origin %s)", deps.PublicOrigin)
	return routes
}
