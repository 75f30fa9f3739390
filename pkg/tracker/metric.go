// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package tracker

import (
	"math"
	"time"
)

const hoursPerDay = 24.0

// ComputeMetric returns how many avoided intervals have elapsed between start
// and now, where one interval is 24/unitsPerDay hours. A rate that is not
// strictly positive (including NaN) yields exactly 0.
//
// The result is recomputed from start on every call and is non-decreasing
// in now.
func ComputeMetric(start time.Time, unitsPerDay float64, now time.Time) float64 {
	if !(unitsPerDay > 0) {
		return 0
	}

	intervalHours := hoursPerDay / unitsPerDay
	return elapsedHours(start, now) / intervalHours
}

// elapsedHours avoids time.Duration, which saturates after ~292 years, and
// subtracts in float64 so starts near the int64 bounds do not wrap.
func elapsedHours(start, now time.Time) float64 {
	secs := float64(now.Unix()) - float64(start.Unix())
	nanos := float64(now.Nanosecond() - start.Nanosecond())
	return (secs + nanos/1e9) / 3600
}

// Metric is ComputeMetric applied to the tracker's variant. Usage trackers
// have no avoided-interval metric and report 0.
func (t Tracker) Metric(now time.Time) float64 {
	switch v := t.Type.(type) {
	case Abstinence:
		return ComputeMetric(v.StartDate, v.UnitsPerDay, now)
	case Usage:
		return 0
	default:
		return 0
	}
}

// VisibleIcons returns how many whole unit icons to draw for a metric value,
// capped by limit when one is set. overflow reports that the cap cut the
// count short.
func VisibleIcons(metric float64, limit *uint32) (shown int, overflow bool) {
	if !(metric > 0) {
		return 0, false
	}

	whole := math.Floor(metric)
	if limit != nil && whole > float64(*limit) {
		return int(*limit), true
	}
	if whole > math.MaxInt32 {
		return math.MaxInt32, true
	}
	return int(whole), false
}
