// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package reconcile

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/bobishh/quitter/pkg/service/mock"
	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
)

var (
	beerHabit = tracker.Habit{
		ID:       uuid.MustParse("0b6f3f5e-8a0c-4a43-9d43-5f0f9e3b2a11"),
		Slug:     "beer",
		Name:     "Beer",
		Icon:     "🍺",
		UnitName: "beers",
	}
	smokingHabit = tracker.Habit{
		ID:       uuid.MustParse("7c1e2d44-51b9-4f0e-8a77-0e3c4b5a6d22"),
		Slug:     "smoking",
		Name:     "Smoking",
		Icon:     "🚬",
		UnitName: "cigarettes",
	}
	classicTheme = tracker.Theme{
		ID:   uuid.MustParse("a3d9c1f0-2b4e-4c6a-8e10-9f7b5d3c1e33"),
		Name: "Classic",
	}
	fixedID = uuid.MustParse("11111111-2222-3333-4444-555555555555")
)

func abstinence(id uuid.UUID, habit tracker.Habit, start int64, rate float64, theme *uuid.UUID, name string) tracker.Tracker {
	return tracker.Tracker{
		ID:      id,
		HabitID: habit.ID,
		Type: tracker.Abstinence{
			StartDate:   tracker.UnixStart(start),
			UnitsPerDay: rate,
			ThemeID:     theme,
			UserName:    name,
		},
	}
}

func newTestReconciler(themes ...tracker.Theme) *Reconciler {
	catalog := mock.NewCatalog(beerHabit, smokingHabit)
	cfg := Config{NewID: func() uuid.UUID { return fixedID }}
	if len(themes) > 0 {
		cfg.Themes = catalog.WithThemes(themes...)
	}
	return NewReconciler(catalog, cfg)
}

func strPtr(s string) *string { return &s }

func TestReconcile_SharedLinkUpdatesRate(t *testing.T) {
	t1 := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 2.0, UserName: "Anon"}

	d, err := newTestReconciler().Reconcile(state, "beer", []tracker.Tracker{t1})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	update, ok := d.(UseExistingAfterUpdate)
	if !ok {
		t.Fatalf("Reconcile() = %T, expected UseExistingAfterUpdate", d)
	}
	if update.ID != t1.ID || update.Updated.ID != t1.ID {
		t.Errorf("ID = %v / %v, expected %v", update.ID, update.Updated.ID, t1.ID)
	}
	if update.Updated.HabitID != beerHabit.ID {
		t.Errorf("HabitID = %v, expected %v", update.Updated.HabitID, beerHabit.ID)
	}

	a, _ := update.Updated.Abstinence()
	if a.UnitsPerDay != 2.0 {
		t.Errorf("UnitsPerDay = %v, expected 2.0", a.UnitsPerDay)
	}
	if a.StartDate.Unix() != 1700000000 {
		t.Errorf("StartDate = %v, expected 1700000000", a.StartDate.Unix())
	}
	if a.UserName != "Anon" || a.ThemeID != nil {
		t.Errorf("UserName/ThemeID = %q/%v, expected Anon/nil", a.UserName, a.ThemeID)
	}
	if d.Name() != DecisionUseExistingAfterUpdate || d.TrackerID() != t1.ID {
		t.Errorf("Name()/TrackerID() = %s/%v", d.Name(), d.TrackerID())
	}
}

func TestReconcile_UnknownHabit(t *testing.T) {
	t1 := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	known := []tracker.Tracker{t1}
	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 1, UserName: "Anon"}

	d, err := newTestReconciler().Reconcile(state, "unknown-slug", known)
	if !errors.Is(err, ErrUnknownHabit) {
		t.Fatalf("Reconcile() error = %v, expected ErrUnknownHabit", err)
	}
	var unknown *UnknownHabitError
	if !errors.As(err, &unknown) || unknown.Slug != "unknown-slug" {
		t.Errorf("error = %#v, expected UnknownHabitError for unknown-slug", err)
	}
	if d != nil {
		t.Errorf("Reconcile() decision = %v, expected nil", d)
	}
	if !reflect.DeepEqual(known, []tracker.Tracker{t1}) {
		t.Errorf("known trackers changed: %+v", known)
	}
}

func TestReconcile_NewIdentity(t *testing.T) {
	existing := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	state := sharing.TrackerState{StartTimestamp: 1700000001, UnitsPerDay: 3.5, UserName: "Bob"}

	d, err := newTestReconciler().Reconcile(state, "beer", []tracker.Tracker{existing})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	created, ok := d.(CreateNew)
	if !ok {
		t.Fatalf("Reconcile() = %T, expected CreateNew", d)
	}
	if created.Tracker.ID != fixedID || d.TrackerID() != fixedID {
		t.Errorf("ID = %v, expected %v", created.Tracker.ID, fixedID)
	}
	if created.Tracker.HabitID != beerHabit.ID {
		t.Errorf("HabitID = %v, expected %v", created.Tracker.HabitID, beerHabit.ID)
	}

	a, ok := created.Tracker.Abstinence()
	if !ok {
		t.Fatalf("created tracker kind = %s, expected abstinence", created.Tracker.Kind())
	}
	if a.StartDate.Unix() != 1700000001 || a.UnitsPerDay != 3.5 || a.UserName != "Bob" || a.ThemeID != nil {
		t.Errorf("created = %+v", a)
	}
}

func TestReconcile_NoDrift(t *testing.T) {
	theme := classicTheme.ID
	t1 := abstinence(uuid.New(), beerHabit, 1700000000, 2.0, &theme, "Anon")
	state := sharing.TrackerState{
		StartTimestamp: 1700000000,
		UnitsPerDay:    2.0,
		ThemeID:        strPtr(classicTheme.ID.String()),
		UserName:       "Anon",
	}

	d, err := newTestReconciler(classicTheme).Reconcile(state, "beer", []tracker.Tracker{t1})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if d != (UseExisting{ID: t1.ID}) {
		t.Errorf("Reconcile() = %#v, expected UseExisting(%v)", d, t1.ID)
	}
}

func TestReconcile_IdentityIgnoresOtherTrackers(t *testing.T) {
	tests := []struct {
		name  string
		known tracker.Tracker
	}{
		{
			name:  "other habit same start",
			known: abstinence(uuid.New(), smokingHabit, 1700000000, 1.0, nil, "Anon"),
		},
		{
			name:  "usage tracker same habit",
			known: tracker.Tracker{ID: uuid.New(), HabitID: beerHabit.ID, Type: tracker.Usage{}},
		},
		{
			name:  "start differs by one second",
			known: abstinence(uuid.New(), beerHabit, 1699999999, 1.0, nil, "Anon"),
		},
	}

	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 1.0, UserName: "Anon"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := newTestReconciler().Reconcile(state, "beer", []tracker.Tracker{tt.known})
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if _, ok := d.(CreateNew); !ok {
				t.Errorf("Reconcile() = %T, expected CreateNew", d)
			}
		})
	}
}

func TestReconcile_SubSecondStartMatches(t *testing.T) {
	t1 := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	a := t1.Type.(tracker.Abstinence)
	a.StartDate = a.StartDate.Add(750_000_000)
	t1.Type = a

	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 1.0, UserName: "Anon"}
	d, err := newTestReconciler().Reconcile(state, "beer", []tracker.Tracker{t1})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if d.TrackerID() != t1.ID {
		t.Errorf("Reconcile() = %#v, expected a decision for %v", d, t1.ID)
	}
}

func TestReconcile_Themes(t *testing.T) {
	known := classicTheme.ID
	dangling := uuid.MustParse("deadbeef-0000-4000-8000-000000000000")

	tests := []struct {
		name      string
		lookup    bool
		existing  *uuid.UUID
		shared    *string
		wantTheme *uuid.UUID
		wantKind  string
	}{
		{"invalid id becomes no theme", false, nil, strPtr("not-a-uuid"), nil, DecisionUseExisting},
		{"invalid id clears theme", false, &known, strPtr("not-a-uuid"), nil, DecisionUseExistingAfterUpdate},
		{"valid id without lookup", false, nil, strPtr(known.String()), &known, DecisionUseExistingAfterUpdate},
		{"dangling id with lookup", true, nil, strPtr(dangling.String()), nil, DecisionUseExisting},
		{"dangling id without lookup", false, nil, strPtr(dangling.String()), &dangling, DecisionUseExistingAfterUpdate},
		{"absent theme clears existing", true, &known, nil, nil, DecisionUseExistingAfterUpdate},
		{"same theme", true, &known, strPtr(known.String()), &known, DecisionUseExisting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReconciler()
			if tt.lookup {
				r = newTestReconciler(classicTheme)
			}

			t1 := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, tt.existing, "Anon")
			state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 1.0, ThemeID: tt.shared, UserName: "Anon"}

			d, err := r.Reconcile(state, "beer", []tracker.Tracker{t1})
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if d.Name() != tt.wantKind {
				t.Fatalf("Reconcile() = %s, expected %s", d.Name(), tt.wantKind)
			}
			if update, ok := d.(UseExistingAfterUpdate); ok {
				a, _ := update.Updated.Abstinence()
				if !reflect.DeepEqual(a.ThemeID, tt.wantTheme) {
					t.Errorf("ThemeID = %v, expected %v", a.ThemeID, tt.wantTheme)
				}
			}
		})
	}
}

func TestReconcile_RateComparison(t *testing.T) {
	tests := []struct {
		name     string
		existing float64
		shared   float64
		wantKind string
	}{
		{"within epsilon", 1.0, 1.0 + 1e-12, DecisionUseExisting},
		{"outside epsilon", 1.0, 1.0 + 1e-6, DecisionUseExistingAfterUpdate},
		{"both NaN", math.NaN(), math.NaN(), DecisionUseExisting},
		{"NaN replaces number", 1.0, math.NaN(), DecisionUseExistingAfterUpdate},
		{"number replaces NaN", math.NaN(), 1.0, DecisionUseExistingAfterUpdate},
		{"same infinity", math.Inf(1), math.Inf(1), DecisionUseExisting},
		{"opposite infinities", math.Inf(1), math.Inf(-1), DecisionUseExistingAfterUpdate},
		{"zero", 0, 0, DecisionUseExisting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t1 := abstinence(uuid.New(), beerHabit, 1700000000, tt.existing, nil, "Anon")
			state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: tt.shared, UserName: "Anon"}

			d, err := newTestReconciler().Reconcile(state, "beer", []tracker.Tracker{t1})
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if d.Name() != tt.wantKind {
				t.Errorf("Reconcile() = %s, expected %s", d.Name(), tt.wantKind)
			}
		})
	}
}

func TestReconcile_UserNameUpdate(t *testing.T) {
	t1 := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 1.0, UserName: "anon"}

	d, err := newTestReconciler().Reconcile(state, "beer", []tracker.Tracker{t1})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	update, ok := d.(UseExistingAfterUpdate)
	if !ok {
		t.Fatalf("Reconcile() = %T, expected UseExistingAfterUpdate", d)
	}
	if a, _ := update.Updated.Abstinence(); a.UserName != "anon" || a.UnitsPerDay != 1.0 {
		t.Errorf("Updated = %+v", a)
	}
}

func TestReconcile_FirstMatchWins(t *testing.T) {
	first := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	second := abstinence(uuid.New(), beerHabit, 1700000000, 2.0, nil, "Anon")
	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 2.0, UserName: "Anon"}

	d, err := newTestReconciler().Reconcile(state, "beer", []tracker.Tracker{first, second})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if d.TrackerID() != first.ID {
		t.Errorf("TrackerID() = %v, expected first match %v", d.TrackerID(), first.ID)
	}
}

func TestReconcile_DoesNotModifyKnown(t *testing.T) {
	t1 := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	known := []tracker.Tracker{t1}
	snapshot := append([]tracker.Tracker(nil), known...)

	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 5, ThemeID: strPtr(classicTheme.ID.String()), UserName: "X"}
	if _, err := newTestReconciler().Reconcile(state, "beer", known); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if !reflect.DeepEqual(known, snapshot) {
		t.Errorf("known trackers changed: %+v, expected %+v", known, snapshot)
	}
}

func TestReconcile_DefaultIDs(t *testing.T) {
	r := NewReconciler(mock.NewCatalog(beerHabit), Config{})
	state := sharing.TrackerState{StartTimestamp: 1700000000, UnitsPerDay: 1.0}

	d1, _ := r.Reconcile(state, "beer", nil)
	d2, _ := r.Reconcile(state, "beer", nil)
	if d1.TrackerID() == uuid.Nil || d1.TrackerID() == d2.TrackerID() {
		t.Errorf("TrackerID() = %v, %v, expected fresh distinct ids", d1.TrackerID(), d2.TrackerID())
	}
}

func TestReconcileLink(t *testing.T) {
	t1 := abstinence(uuid.New(), beerHabit, 1700000000, 1.0, nil, "Anon")
	link := "https://quit.example.com/beer#" + sharing.Encode(sharing.TrackerState{
		StartTimestamp: 1700000000,
		UnitsPerDay:    2.0,
		UserName:       "Anon",
	})

	d, err := newTestReconciler().ReconcileLink(link, []tracker.Tracker{t1})
	if err != nil {
		t.Fatalf("ReconcileLink() error = %v", err)
	}
	if d.Name() != DecisionUseExistingAfterUpdate || d.TrackerID() != t1.ID {
		t.Errorf("ReconcileLink() = %s(%v)", d.Name(), d.TrackerID())
	}

	if _, err := newTestReconciler().ReconcileLink("https://quit.example.com/beer#AAAA", nil); !errors.Is(err, sharing.ErrDecode) {
		t.Errorf("ReconcileLink() error = %v, expected ErrDecode", err)
	}
}
