// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// trackerStoreKeyPrefix is the prefix for all per-device tracker keys
	trackerStoreKeyPrefix = "quitter:trackers:"
	// trackerStoreMaxTxRetries bounds optimistic transaction retries per write
	trackerStoreMaxTxRetries = 10
)

// RedisTrackerStore implements TrackerStore using Redis. Each device's
// trackers are one JSON array under a single key.
type RedisTrackerStore struct {
	client redis.UniversalClient
	cfg    RedisTrackerStoreConfig
}

type RedisTrackerStoreConfig struct {
	// TTL expires a device's trackers after the last write. Zero keeps them forever.
	TTL time.Duration
}

// NewRedisTrackerStore creates a new Redis-backed tracker store.
func NewRedisTrackerStore(
	client redis.UniversalClient,
	cfg RedisTrackerStoreConfig,
) *RedisTrackerStore {
	return &RedisTrackerStore{
		client: client,
		cfg:    cfg,
	}
}

// makeTrackerStoreKey creates a Redis key for a device
func makeTrackerStoreKey(deviceID string) string {
	return fmt.Sprintf("%s%s", trackerStoreKeyPrefix, deviceID)
}

// List returns the device's trackers in insertion order.
func (r *RedisTrackerStore) List(ctx context.Context, deviceID string) ([]tracker.Tracker, error) {
	trackers, err := r.load(ctx, r.client, makeTrackerStoreKey(deviceID))
	if err != nil {
		logrus.Errorf("failed to list trackers for device %s: %v", deviceID, err)
		return nil, err
	}
	return trackers, nil
}

// Get returns a single tracker.
func (r *RedisTrackerStore) Get(ctx context.Context, deviceID string, id uuid.UUID) (tracker.Tracker, error) {
	trackers, err := r.List(ctx, deviceID)
	if err != nil {
		return tracker.Tracker{}, err
	}
	for _, t := range trackers {
		if t.ID == id {
			return t, nil
		}
	}
	return tracker.Tracker{}, fmt.Errorf("%w: %s", ErrTrackerNotFound, id)
}

// Create appends a tracker.
func (r *RedisTrackerStore) Create(ctx context.Context, deviceID string, t tracker.Tracker) error {
	err := r.mutate(ctx, deviceID, func(trackers []tracker.Tracker) ([]tracker.Tracker, error) {
		for _, existing := range trackers {
			if existing.ID == t.ID {
				return nil, fmt.Errorf("%w: %s", ErrTrackerExists, t.ID)
			}
		}
		return append(trackers, t), nil
	})
	if err != nil {
		return err
	}

	logrus.Infof("created tracker %s for device %s", t.ID, deviceID)
	return nil
}

// Update replaces a tracker in place, keeping its position.
func (r *RedisTrackerStore) Update(ctx context.Context, deviceID string, t tracker.Tracker) error {
	err := r.mutate(ctx, deviceID, func(trackers []tracker.Tracker) ([]tracker.Tracker, error) {
		for i := range trackers {
			if trackers[i].ID == t.ID {
				trackers[i] = t
				return trackers, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrTrackerNotFound, t.ID)
	})
	if err != nil {
		return err
	}

	logrus.Infof("updated tracker %s for device %s", t.ID, deviceID)
	return nil
}

// Delete removes a tracker.
func (r *RedisTrackerStore) Delete(ctx context.Context, deviceID string, id uuid.UUID) error {
	err := r.mutate(ctx, deviceID, func(trackers []tracker.Tracker) ([]tracker.Tracker, error) {
		for i := range trackers {
			if trackers[i].ID == id {
				return append(trackers[:i], trackers[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrTrackerNotFound, id)
	})
	if err != nil {
		return err
	}

	logrus.Infof("deleted tracker %s for device %s", id, deviceID)
	return nil
}

// mutate applies fn to the device's trackers inside a WATCH/MULTI transaction,
// retrying when another writer touched the key first.
func (r *RedisTrackerStore) mutate(
	ctx context.Context,
	deviceID string,
	fn func([]tracker.Tracker) ([]tracker.Tracker, error),
) error {
	key := makeTrackerStoreKey(deviceID)

	txf := func(tx *redis.Tx) error {
		trackers, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}

		next, err := fn(trackers)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal trackers: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.cfg.TTL)
			return nil
		})
		return err
	}

	for i := 0; i < trackerStoreMaxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			logrus.Debugf("tracker transaction for device %s lost a race (attempt %d/%d)",
				deviceID, i+1, trackerStoreMaxTxRetries)
			continue
		}
		if err != nil {
			logrus.Errorf("failed to write trackers for device %s: %v", deviceID, err)
		}
		return err
	}

	return fmt.Errorf("%w: device %s", ErrStoreConflict, deviceID)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisTrackerStore) load(ctx context.Context, c stringGetter, key string) ([]tracker.Tracker, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return []tracker.Tracker{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trackers: %w", err)
	}

	var trackers []tracker.Tracker
	if err := json.Unmarshal(data, &trackers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trackers: %w", err)
	}
	if trackers == nil {
		trackers = []tracker.Tracker{}
	}
	return trackers, nil
}
