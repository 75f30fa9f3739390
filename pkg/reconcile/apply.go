// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package reconcile

import (
	"context"
	"fmt"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/sirupsen/logrus"
)

// TrackerWriter is the part of a tracker store that Apply needs.
type TrackerWriter interface {
	Create(ctx context.Context, deviceID string, t tracker.Tracker) error
	Update(ctx context.Context, deviceID string, t tracker.Tracker) error
}

// Apply performs the store write a decision calls for. UseExisting writes
// nothing.
func Apply(ctx context.Context, d Decision, deviceID string, store TrackerWriter) error {
	switch v := d.(type) {
	case UseExisting:
		return nil
	case UseExistingAfterUpdate:
		if err := store.Update(ctx, deviceID, v.Updated); err != nil {
			return fmt.Errorf("failed to update tracker %s: %w", v.ID, err)
		}
		logrus.Infof("updated tracker %s for device %s from shared link", v.ID, deviceID)
		return nil
	case CreateNew:
		if err := store.Create(ctx, deviceID, v.Tracker); err != nil {
			return fmt.Errorf("failed to create tracker %s: %w", v.Tracker.ID, err)
		}
		logrus.Infof("created tracker %s for device %s from shared link", v.Tracker.ID, deviceID)
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownDecision, d)
	}
}
