// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
)

// Catalog is a mock habit and theme lookup for testing
type Catalog struct {
	// FindHabitBySlugFunc allows tests to customize the behavior
	FindHabitBySlugFunc func(slug string) (tracker.Habit, bool)

	// Simple fields for common test scenarios
	Habits []tracker.Habit
	Themes []tracker.Theme

	// Call tracking
	SlugLookups []string
}

// NewCatalog creates a new mock Catalog with the given habits
func NewCatalog(habits ...tracker.Habit) *Catalog {
	return &Catalog{Habits: habits}
}

// WithThemes sets the themes returned by FindThemeByID
func (m *Catalog) WithThemes(themes ...tracker.Theme) *Catalog {
	m.Themes = themes
	return m
}

// FindHabitBySlug returns the mocked habit with the given slug
func (m *Catalog) FindHabitBySlug(slug string) (tracker.Habit, bool) {
	m.SlugLookups = append(m.SlugLookups, slug)
	if m.FindHabitBySlugFunc != nil {
		return m.FindHabitBySlugFunc(slug)
	}
	for _, h := range m.Habits {
		if h.Slug == slug {
			return h, true
		}
	}
	return tracker.Habit{}, false
}

// FindHabitByID returns the mocked habit with the given id
func (m *Catalog) FindHabitByID(id uuid.UUID) (tracker.Habit, bool) {
	for _, h := range m.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return tracker.Habit{}, false
}

// FindThemeByID returns the mocked theme with the given id
func (m *Catalog) FindThemeByID(id uuid.UUID) (tracker.Theme, bool) {
	for _, t := range m.Themes {
		if t.ID == id {
			return t, true
		}
	}
	return tracker.Theme{}, false
}
