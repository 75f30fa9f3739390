// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTicker_EmitsUntilCancelled(t *testing.T) {
	start := time.Unix(1700000000, 0).UTC()
	clock := start.Add(24 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metrics []float64
	ticker := &Ticker{
		Tracker: Tracker{
			ID:      uuid.New(),
			HabitID: uuid.New(),
			Type:    Abstinence{StartDate: start, UnitsPerDay: 1},
		},
		Interval: time.Millisecond,
		Now: func() time.Time {
			clock = clock.Add(time.Hour)
			return clock
		},
		OnTick: func(now time.Time, metric float64) {
			metrics = append(metrics, metric)
			if len(metrics) == 3 {
				cancel()
			}
		},
	}

	err := ticker.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, expected context.Canceled", err)
	}

	if len(metrics) < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", len(metrics))
	}
	for i := 1; i < len(metrics); i++ {
		if metrics[i] < metrics[i-1] {
			t.Errorf("tick %d decreased: %v -> %v", i, metrics[i-1], metrics[i])
		}
	}
}

func TestTicker_ImmediateTickOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ticks := 0
	ticker := &Ticker{
		Tracker: Tracker{Type: Abstinence{StartDate: time.Now(), UnitsPerDay: 1}},
		OnTick:  func(time.Time, float64) { ticks++ },
	}

	if err := ticker.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, expected context.Canceled", err)
	}
	if ticks != 1 {
		t.Errorf("ticks = %d, expected 1", ticks)
	}
}
