// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package tracker

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Habit is the thing being tracked. Slug is unique across habits and is
// used as the human-readable URL segment of a shared link.
type Habit struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Slug     string    `json:"slug" yaml:"slug"`
	Name     string    `json:"name" yaml:"name"`
	Icon     string    `json:"icon" yaml:"icon"`
	UnitName string    `json:"unitName" yaml:"unitName"`
}

// Theme is a visual theme record. It is served for rendering only and never
// reconciled.
type Theme struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CSS       string    `json:"css" yaml:"css"`
	IconLimit *uint32   `json:"iconLimit,omitempty" yaml:"iconLimit,omitempty"` // nil = unbounded display
}

// TrackerType is the closed set of tracker variants: Abstinence and Usage.
// Switches over it must handle every variant.
type TrackerType interface {
	kind() string
}

// Abstinence counts time since the user stopped.
type Abstinence struct {
	StartDate   time.Time  `json:"startDate"`
	UnitsPerDay float64    `json:"unitsPerDay"`
	ThemeID     *uuid.UUID `json:"themeId,omitempty"`
	UserName    string     `json:"userName"`
}

// Usage logs individual events. It cannot be shared.
type Usage struct {
	Events []time.Time `json:"events"`
}

func (Abstinence) kind() string { return KindAbstinence }
func (Usage) kind() string      { return KindUsage }

const (
	KindAbstinence = "abstinence"
	KindUsage      = "usage"
)

// Tracker is a user's running instance of abstaining from (or logging) a Habit.
type Tracker struct {
	ID      uuid.UUID
	HabitID uuid.UUID
	Type    TrackerType
}

// NewAbstinence creates an abstinence tracker with a fresh id.
func NewAbstinence(habitID uuid.UUID, a Abstinence) Tracker {
	a.StartDate = a.StartDate.UTC().Truncate(time.Second)
	return Tracker{
		ID:      uuid.New(),
		HabitID: habitID,
		Type:    a,
	}
}

// UnixStart converts a whole-second Unix timestamp into a start date.
func UnixStart(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// Kind returns the variant discriminator, or "" for a tracker without a type.
func (t Tracker) Kind() string {
	if t.Type == nil {
		return ""
	}
	return t.Type.kind()
}

// Abstinence returns the abstinence variant if the tracker carries one.
func (t Tracker) Abstinence() (Abstinence, bool) {
	a, ok := t.Type.(Abstinence)
	return a, ok
}

// abstinenceJSON stores the start as Unix seconds: shared links may carry any
// int64 start, and time.Time only marshals years 0 through 9999.
type abstinenceJSON struct {
	StartTimestamp int64           `json:"startTimestamp"`
	UnitsPerDay    json.RawMessage `json:"unitsPerDay"`
	ThemeID        *uuid.UUID      `json:"themeId,omitempty"`
	UserName       string          `json:"userName"`
}

// MarshalJSON writes non-finite rates as strings ("NaN", "+Inf", "-Inf"),
// which shared links may carry but JSON numbers cannot.
func (a Abstinence) MarshalJSON() ([]byte, error) {
	var rate []byte
	if math.IsNaN(a.UnitsPerDay) || math.IsInf(a.UnitsPerDay, 0) {
		rate = strconv.AppendQuote(nil, strconv.FormatFloat(a.UnitsPerDay, 'g', -1, 64))
	} else {
		rate = strconv.AppendFloat(nil, a.UnitsPerDay, 'g', -1, 64)
	}
	return json.Marshal(abstinenceJSON{
		StartTimestamp: a.StartDate.Unix(),
		UnitsPerDay:    rate,
		ThemeID:        a.ThemeID,
		UserName:       a.UserName,
	})
}

// UnmarshalJSON accepts the rate as a number or as a quoted float.
func (a *Abstinence) UnmarshalJSON(b []byte) error {
	var raw abstinenceJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var rate float64
	if len(raw.UnitsPerDay) > 0 && raw.UnitsPerDay[0] == '"' {
		var s string
		if err := json.Unmarshal(raw.UnitsPerDay, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid unitsPerDay %q: %w", s, err)
		}
		rate = v
	} else if len(raw.UnitsPerDay) > 0 {
		if err := json.Unmarshal(raw.UnitsPerDay, &rate); err != nil {
			return err
		}
	}

	*a = Abstinence{
		StartDate:   UnixStart(raw.StartTimestamp),
		UnitsPerDay: rate,
		ThemeID:     raw.ThemeID,
		UserName:    raw.UserName,
	}
	return nil
}

type trackerJSON struct {
	ID      uuid.UUID       `json:"id"`
	HabitID uuid.UUID       `json:"habitId"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

// MarshalJSON writes the variant under "data" with a "kind" discriminator.
func (t Tracker) MarshalJSON() ([]byte, error) {
	if t.Type == nil {
		return nil, fmt.Errorf("tracker %s has no type", t.ID)
	}
	data, err := json.Marshal(t.Type)
	if err != nil {
		return nil, err
	}
	return json.Marshal(trackerJSON{
		ID:      t.ID,
		HabitID: t.HabitID,
		Kind:    t.Type.kind(),
		Data:    data,
	})
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (t *Tracker) UnmarshalJSON(b []byte) error {
	var raw trackerJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch raw.Kind {
	case KindAbstinence:
		var a Abstinence
		if err := json.Unmarshal(raw.Data, &a); err != nil {
			return fmt.Errorf("failed to unmarshal abstinence tracker: %w", err)
		}
		t.Type = a
	case KindUsage:
		var u Usage
		if err := json.Unmarshal(raw.Data, &u); err != nil {
			return fmt.Errorf("failed to unmarshal usage tracker: %w", err)
		}
		t.Type = u
	default:
		return fmt.Errorf("unknown tracker kind %q", raw.Kind)
	}

	t.ID = raw.ID
	t.HabitID = raw.HabitID
	return nil
}
