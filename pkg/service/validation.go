// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"fmt"
	"strings"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/bobishh/quitter/pkg/wire"
	"github.com/google/uuid"
)

// ValidateHabit checks a habit can enter the catalog. The slug becomes a URL
// path segment, so it may not contain separators or whitespace.
func ValidateHabit(h tracker.Habit) error {
	if h.ID == uuid.Nil {
		return fmt.Errorf("%w: empty id", ErrInvalidHabit)
	}
	if h.Slug == "" {
		return fmt.Errorf("%w: empty slug", ErrInvalidHabit)
	}
	if strings.ContainsAny(h.Slug, "/#?% \t\r\n") {
		return fmt.Errorf("%w: slug %q is not a valid path segment", ErrInvalidHabit, h.Slug)
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: habit %q has no name", ErrInvalidHabit, h.Slug)
	}
	return nil
}

// ValidateTheme checks a theme can enter the catalog.
func ValidateTheme(t tracker.Theme) error {
	if t.ID == uuid.Nil {
		return fmt.Errorf("%w: empty id", ErrInvalidTheme)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: theme %s has no name", ErrInvalidTheme, t.ID)
	}
	return nil
}

// HabitFromWire converts a decoded Habit message. An empty id gets a fresh
// one. Habits created this way also need an icon and a unit name.
func HabitFromWire(w wire.Habit) (tracker.Habit, error) {
	id, err := parseOrNewID(w.ID)
	if err != nil {
		return tracker.Habit{}, fmt.Errorf("%w: %v", ErrInvalidHabit, err)
	}

	h := tracker.Habit{
		ID:       id,
		Slug:     w.Slug,
		Name:     w.Name,
		Icon:     w.Icon,
		UnitName: w.UnitName,
	}
	if err := ValidateHabit(h); err != nil {
		return tracker.Habit{}, err
	}
	if strings.TrimSpace(h.Icon) == "" || strings.TrimSpace(h.UnitName) == "" {
		return tracker.Habit{}, fmt.Errorf("%w: habit %q needs an icon and a unit name", ErrInvalidHabit, h.Slug)
	}
	return h, nil
}

// ThemeFromWire converts a decoded Theme message. A negative icon limit is rejected.
func ThemeFromWire(w wire.Theme) (tracker.Theme, error) {
	id, err := parseOrNewID(w.ID)
	if err != nil {
		return tracker.Theme{}, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}

	t := tracker.Theme{
		ID:   id,
		Name: w.Name,
		CSS:  w.CSS,
	}
	if w.IconLimit != nil {
		if *w.IconLimit < 0 {
			return tracker.Theme{}, fmt.Errorf("%w: negative icon limit %d", ErrInvalidTheme, *w.IconLimit)
		}
		limit := uint32(*w.IconLimit)
		t.IconLimit = &limit
	}
	if err := ValidateTheme(t); err != nil {
		return tracker.Theme{}, err
	}
	return t, nil
}

// HabitToWire converts a habit to its message form.
func HabitToWire(h tracker.Habit) wire.Habit {
	return wire.Habit{
		ID:       h.ID.String(),
		Slug:     h.Slug,
		Name:     h.Name,
		Icon:     h.Icon,
		UnitName: h.UnitName,
	}
}

// ThemeToWire converts a theme to its message form. Limits beyond int32 are
// sent as the int32 maximum.
func ThemeToWire(t tracker.Theme) wire.Theme {
	w := wire.Theme{
		ID:   t.ID.String(),
		Name: t.Name,
		CSS:  t.CSS,
	}
	if t.IconLimit != nil {
		limit := int32(1<<31 - 1)
		if *t.IconLimit < uint32(limit) {
			limit = int32(*t.IconLimit)
		}
		w.IconLimit = &limit
	}
	return w
}

func parseOrNewID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(s)
}
