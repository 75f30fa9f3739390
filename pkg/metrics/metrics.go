// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package metrics holds the application Prometheus collectors. They are
// registered on the metrics server registry by Register.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quitter"

var (
	// ReconcileDecisionsTotal counts reconciliation outcomes by decision name.
	ReconcileDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_decisions_total",
			Help:      "Total number of shared links reconciled, by decision",
		},
		[]string{"decision"},
	)

	// SharedLinkFailuresTotal counts shared links that could not be reconciled.
	SharedLinkFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shared_link_failures_total",
			Help:      "Total number of shared links rejected, by reason",
		},
		[]string{"reason"},
	)

	// ShareLinksProducedTotal counts share URLs produced for trackers.
	ShareLinksProducedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_links_produced_total",
			Help:      "Total number of share URLs produced",
		},
	)

	// CatalogRecords reports the catalog size by record kind.
	CatalogRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Number of habits and themes in the catalog",
		},
		[]string{"kind"},
	)
)

// Failure reasons for SharedLinkFailuresTotal.
const (
	ReasonDecode       = "decode"
	ReasonUnknownHabit = "unknown_habit"
	ReasonNotReady     = "catalog_not_ready"
	ReasonStore        = "store"
)

// Record kinds for CatalogRecords.
const (
	KindHabit = "habit"
	KindTheme = "theme"
)

// Register adds every application collector to registry.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		ReconcileDecisionsTotal,
		SharedLinkFailuresTotal,
		ShareLinksProducedTotal,
		CatalogRecords,
	)
}
