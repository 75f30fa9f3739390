// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import "errors"

var (
	// ErrTrackerNotFound indicates no tracker with the given id exists for the device.
	ErrTrackerNotFound = errors.New("tracker not found")

	// ErrTrackerExists indicates a create with an id already stored for the device.
	ErrTrackerExists = errors.New("tracker already exists")

	// ErrStoreConflict indicates the optimistic transaction kept losing to concurrent writers.
	ErrStoreConflict = errors.New("tracker store conflict")

	// ErrInvalidHabit indicates a habit record that cannot enter the catalog.
	ErrInvalidHabit = errors.New("invalid habit")

	// ErrInvalidTheme indicates a theme record that cannot enter the catalog.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrCatalogNotReady indicates the catalog has not finished its initial load.
	ErrCatalogNotReady = errors.New("catalog not ready")
)
