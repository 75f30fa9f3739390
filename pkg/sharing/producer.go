// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package sharing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bobishh/quitter/pkg/tracker"
)

// DefaultUnitsPerDay is used when a user-entered rate cannot be parsed.
const DefaultUnitsPerDay = 1.0

// StateFromTracker builds the wire state of a tracker. Only the Abstinence
// variant can be shared.
func StateFromTracker(t tracker.Tracker) (TrackerState, error) {
	switch v := t.Type.(type) {
	case tracker.Abstinence:
		s := TrackerState{
			StartTimestamp: v.StartDate.Unix(),
			UnitsPerDay:    v.UnitsPerDay,
			UserName:       v.UserName,
		}
		if v.ThemeID != nil {
			id := v.ThemeID.String()
			s.ThemeID = &id
		}
		return s, nil
	case tracker.Usage:
		return TrackerState{}, fmt.Errorf("%w: %s", ErrUnsupportedTrackerType, tracker.KindUsage)
	default:
		return TrackerState{}, fmt.Errorf("%w: %T", ErrUnsupportedTrackerType, t.Type)
	}
}

// ProduceShareURL returns origin/<habit slug>#<encoded state>. It has no
// side effects and fails only for tracker variants that cannot be shared.
func ProduceShareURL(t tracker.Tracker, h tracker.Habit, origin string) (string, error) {
	state, err := StateFromTracker(t)
	if err != nil {
		return "", err
	}
	return ShareURL(origin, h.Slug, state), nil
}

// ShareURL formats origin/<slug>#<encoded state>.
func ShareURL(origin, slug string, s TrackerState) string {
	return strings.TrimSuffix(origin, "/") + "/" + slug + "#" + Encode(s)
}

// ParseRate parses a user-entered units-per-day value. Anything that is not
// a finite, non-negative number falls back to DefaultUnitsPerDay.
func ParseRate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultUnitsPerDay
	}
	return v
}

// ParseIconLimit parses a user-entered theme icon limit. An empty,
// unparseable or negative value means no limit.
func ParseIconLimit(s string) *uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil
	}
	limit := uint32(v)
	return &limit
}
