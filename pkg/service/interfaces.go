// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
)

// Storage interfaces used by handlers and the reconciler.
//
// Having interfaces allows easier mocking for unit tests; see pkg/service/mock.

// TrackerStore holds the trackers of each device, ordered by insertion.
type TrackerStore interface {
	List(ctx context.Context, deviceID string) ([]tracker.Tracker, error)
	Get(ctx context.Context, deviceID string, id uuid.UUID) (tracker.Tracker, error)
	Create(ctx context.Context, deviceID string, t tracker.Tracker) error
	// Update replaces the tracker with the same id. It returns ErrTrackerNotFound
	// when there is none.
	Update(ctx context.Context, deviceID string, t tracker.Tracker) error
	Delete(ctx context.Context, deviceID string, id uuid.UUID) error
}

// CatalogSource supplies the habits and themes the catalog is loaded from.
type CatalogSource interface {
	ListHabits(ctx context.Context) ([]tracker.Habit, error)
	ListThemes(ctx context.Context) ([]tracker.Theme, error)
}

// CatalogRepository is a CatalogSource that also persists new records.
type CatalogRepository interface {
	CatalogSource
	InsertHabit(ctx context.Context, h tracker.Habit) error
	InsertTheme(ctx context.Context, t tracker.Theme) error
}
