// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobishh/quitter/pkg/service"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
)

// TrackerStore is an in-memory service.TrackerStore that records every write
// for testing
type TrackerStore struct {
	mu       sync.Mutex
	trackers map[string][]tracker.Tracker

	// CreateFunc, when set, is called instead of the in-memory create
	CreateFunc func(ctx context.Context, deviceID string, t tracker.Tracker) error

	// UpdateFunc, when set, is called instead of the in-memory update
	UpdateFunc func(ctx context.Context, deviceID string, t tracker.Tracker) error

	// ListError is returned by List and Get when set
	ListError error

	// Call tracking
	CreateCalls []TrackerWriteCall
	UpdateCalls []TrackerWriteCall
	DeleteCalls []TrackerDeleteCall
}

// TrackerWriteCall tracks parameters for Create and Update calls
type TrackerWriteCall struct {
	DeviceID string
	Tracker  tracker.Tracker
}

// TrackerDeleteCall tracks parameters for Delete calls
type TrackerDeleteCall struct {
	DeviceID string
	ID       uuid.UUID
}

// NewTrackerStore creates a new mock TrackerStore holding initial trackers per device
func NewTrackerStore(initial map[string][]tracker.Tracker) *TrackerStore {
	s := &TrackerStore{trackers: make(map[string][]tracker.Tracker)}
	for device, trackers := range initial {
		s.trackers[device] = append([]tracker.Tracker(nil), trackers...)
	}
	return s
}

var _ service.TrackerStore = (*TrackerStore)(nil)

// List implements service.TrackerStore
func (s *TrackerStore) List(ctx context.Context, deviceID string) ([]tracker.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListError != nil {
		return nil, s.ListError
	}
	return append([]tracker.Tracker{}, s.trackers[deviceID]...), nil
}

// Get implements service.TrackerStore
func (s *TrackerStore) Get(ctx context.Context, deviceID string, id uuid.UUID) (tracker.Tracker, error) {
	trackers, err := s.List(ctx, deviceID)
	if err != nil {
		return tracker.Tracker{}, err
	}
	for _, t := range trackers {
		if t.ID == id {
			return t, nil
		}
	}
	return tracker.Tracker{}, fmt.Errorf("%w: %s", service.ErrTrackerNotFound, id)
}

// Create implements service.TrackerStore
func (s *TrackerStore) Create(ctx context.Context, deviceID string, t tracker.Tracker) error {
	s.mu.Lock()
	s.CreateCalls = append(s.CreateCalls, TrackerWriteCall{DeviceID: deviceID, Tracker: t})
	fn := s.CreateFunc
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, deviceID, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.trackers[deviceID] {
		if existing.ID == t.ID {
			return fmt.Errorf("%w: %s", service.ErrTrackerExists, t.ID)
		}
	}
	s.trackers[deviceID] = append(s.trackers[deviceID], t)
	return nil
}

// Update implements service.TrackerStore
func (s *TrackerStore) Update(ctx context.Context, deviceID string, t tracker.Tracker) error {
	s.mu.Lock()
	s.UpdateCalls = append(s.UpdateCalls, TrackerWriteCall{DeviceID: deviceID, Tracker: t})
	fn := s.UpdateFunc
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, deviceID, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	trackers := s.trackers[deviceID]
	for i := range trackers {
		if trackers[i].ID == t.ID {
			trackers[i] = t
			return nil
		}
	}
	return fmt.Errorf("%w: %s", service.ErrTrackerNotFound, t.ID)
}

// Delete implements service.TrackerStore
func (s *TrackerStore) Delete(ctx context.Context, deviceID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.DeleteCalls = append(s.DeleteCalls, TrackerDeleteCall{DeviceID: deviceID, ID: id})
	trackers := s.trackers[deviceID]
	for i := range trackers {
		if trackers[i].ID == id {
			s.trackers[deviceID] = append(trackers[:i], trackers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", service.ErrTrackerNotFound, id)
}

// Writes returns the number of Create, Update and Delete calls so far
func (s *TrackerStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.CreateCalls) + len(s.UpdateCalls) + len(s.DeleteCalls)
}

// WithListError configures List and Get to fail
func (s *TrackerStore) WithListError(err error) *TrackerStore {
	s.ListError = err
	return s
}
