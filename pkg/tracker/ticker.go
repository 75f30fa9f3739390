// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package tracker

import (
	"context"
	"time"
)

// DefaultTickInterval matches the one-second refresh of the dashboard.
const DefaultTickInterval = time.Second

// Ticker recomputes a tracker's metric on a fixed interval and hands each
// value to OnTick. Every tick recomputes from the start instant, so no error
// accumulates across ticks.
type Ticker struct {
	Tracker  Tracker
	Interval time.Duration
	Now      func() time.Time
	OnTick   func(now time.Time, metric float64)
}

// Run emits one value immediately and then one per interval until ctx is
// cancelled. It returns ctx.Err().
func (t *Ticker) Run(ctx context.Context) error {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	now := t.Now
	if now == nil {
		now = time.Now
	}

	t.tick(now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.tick(now())
		}
	}
}

func (t *Ticker) tick(now time.Time) {
	if t.OnTick != nil {
		t.OnTick(now, t.Tracker.Metric(now))
	}
}
