// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package reconcile

import (
	"math"

	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RateEpsilon is the tolerance used when comparing units-per-day values.
const RateEpsilon = 1e-9

// HabitLookup resolves habits from the catalog.
type HabitLookup interface {
	FindHabitBySlug(slug string) (tracker.Habit, bool)
	FindHabitByID(id uuid.UUID) (tracker.Habit, bool)
}

// ThemeLookup resolves themes from the catalog.
type ThemeLookup interface {
	FindThemeByID(id uuid.UUID) (tracker.Theme, bool)
}

// Config holds optional reconciler collaborators.
type Config struct {
	// Themes, when set, turns theme ids that name no known theme into "no theme".
	Themes ThemeLookup
	// NewID allocates ids for created trackers. Defaults to uuid.New.
	NewID func() uuid.UUID
}

// Reconciler decides whether a decoded shared state matches a known
// tracker. A tracker is identified by (habit, start timestamp); the rate,
// theme and user name from the link overwrite the stored ones.
type Reconciler struct {
	habits HabitLookup
	themes ThemeLookup
	newID  func() uuid.UUID
}

// NewReconciler creates a reconciler over the given habit lookup.
func NewReconciler(habits HabitLookup, cfg Config) *Reconciler {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.New
	}
	return &Reconciler{
		habits: habits,
		themes: cfg.Themes,
		newID:  newID,
	}
}

// Reconcile matches state, shared under habitSlug, against known trackers.
// known is a snapshot and is never modified. An unresolvable slug returns an
// *UnknownHabitError and no decision.
func (r *Reconciler) Reconcile(state sharing.TrackerState, habitSlug string, known []tracker.Tracker) (Decision, error) {
	habit, ok := r.habits.FindHabitBySlug(habitSlug)
	if !ok {
		return nil, &UnknownHabitError{Slug: habitSlug}
	}

	themeID := r.resolveTheme(state.ThemeID)

	existing, found := findMatch(known, habit.ID, state.StartTimestamp)
	if !found {
		created := tracker.Tracker{
			ID:      r.newID(),
			HabitID: habit.ID,
			Type: tracker.Abstinence{
				StartDate:   tracker.UnixStart(state.StartTimestamp),
				UnitsPerDay: state.UnitsPerDay,
				ThemeID:     themeID,
				UserName:    state.UserName,
			},
		}
		logrus.Debugf("no tracker for habit %s started at %d, creating %s",
			habit.Slug, state.StartTimestamp, created.ID)
		return CreateNew{Tracker: created}, nil
	}

	current := existing.Type.(tracker.Abstinence)
	updated := current
	changed := false

	if !sameRate(current.UnitsPerDay, state.UnitsPerDay) {
		updated.UnitsPerDay = state.UnitsPerDay
		changed = true
	}
	if !sameTheme(current.ThemeID, themeID) {
		updated.ThemeID = themeID
		changed = true
	}
	if current.UserName != state.UserName {
		updated.UserName = state.UserName
		changed = true
	}

	if !changed {
		logrus.Debugf("tracker %s already matches shared state", existing.ID)
		return UseExisting{ID: existing.ID}, nil
	}

	logrus.Debugf("tracker %s drifted from shared state, updating", existing.ID)
	return UseExistingAfterUpdate{
		ID: existing.ID,
		Updated: tracker.Tracker{
			ID:      existing.ID,
			HabitID: existing.HabitID,
			Type:    updated,
		},
	}, nil
}

// ReconcileLink decodes a full share URL and reconciles it.
func (r *Reconciler) ReconcileLink(rawURL string, known []tracker.Tracker) (Decision, error) {
	slug, state, err := sharing.DecodeShareURL(rawURL)
	if err != nil {
		return nil, err
	}
	return r.Reconcile(state, slug, known)
}

// findMatch returns the first abstinence tracker of habitID whose start
// date is startTimestamp in whole seconds.
func findMatch(known []tracker.Tracker, habitID uuid.UUID, startTimestamp int64) (tracker.Tracker, bool) {
	for _, t := range known {
		if t.HabitID != habitID {
			continue
		}
		switch v := t.Type.(type) {
		case tracker.Abstinence:
			if v.StartDate.Unix() == startTimestamp {
				return t, true
			}
		case tracker.Usage:
		}
	}
	return tracker.Tracker{}, false
}

// resolveTheme parses the shared theme id. Unparseable ids, and ids unknown
// to the theme lookup when one is configured, become nil.
func (r *Reconciler) resolveTheme(raw *string) *uuid.UUID {
	if raw == nil {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		logrus.Debugf("ignoring unparseable theme id %q: %v", *raw, err)
		return nil
	}
	if r.themes != nil {
		if _, ok := r.themes.FindThemeByID(id); !ok {
			logrus.Debugf("ignoring unknown theme %s", id)
			return nil
		}
	}
	return &id
}

func sameRate(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if a == b {
		return true
	}
	return math.Abs(a-b) <= RateEpsilon
}

func sameTheme(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
