// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package reconcile

import (
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
)

// Decision is the outcome of reconciling a shared state: UseExisting,
// UseExistingAfterUpdate or CreateNew.
type Decision interface {
	// TrackerID is the tracker the caller should display.
	TrackerID() uuid.UUID
	// Name is a stable label for logs and metrics.
	Name() string

	decision()
}

// UseExisting means a tracker already holds exactly the shared state.
type UseExisting struct {
	ID uuid.UUID
}

// UseExistingAfterUpdate means the matching tracker drifted and must be
// replaced by Updated. Updated keeps the tracker id, habit id and start date.
type UseExistingAfterUpdate struct {
	ID      uuid.UUID
	Updated tracker.Tracker
}

// CreateNew means no tracker matched and Tracker must be created.
type CreateNew struct {
	Tracker tracker.Tracker
}

const (
	DecisionUseExisting            = "use_existing"
	DecisionUseExistingAfterUpdate = "use_existing_after_update"
	DecisionCreateNew              = "create_new"
)

func (d UseExisting) TrackerID() uuid.UUID            { return d.ID }
func (d UseExistingAfterUpdate) TrackerID() uuid.UUID { return d.ID }
func (d CreateNew) TrackerID() uuid.UUID              { return d.Tracker.ID }

func (UseExisting) Name() string            { return DecisionUseExisting }
func (UseExistingAfterUpdate) Name() string { return DecisionUseExistingAfterUpdate }
func (CreateNew) Name() string              { return DecisionCreateNew }

func (UseExisting) decision()            {}
func (UseExistingAfterUpdate) decision() {}
func (CreateNew) decision()              {}
