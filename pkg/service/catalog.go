// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Catalog is the in-memory read model of habits and themes. It satisfies the
// reconciler's habit and theme lookups.
//
// Ready() is closed once the initial load finished; lookups before that see
// whatever was added so far and callers that must not act on a partial
// catalog wait with WaitReady.
type Catalog struct {
	mu           sync.RWMutex
	habits       map[uuid.UUID]tracker.Habit
	habitsBySlug map[string]uuid.UUID
	habitOrder   []uuid.UUID
	themes       map[uuid.UUID]tracker.Theme
	themeOrder   []uuid.UUID

	ready     chan struct{}
	readyOnce sync.Once
}

// NewCatalog creates an empty, not yet ready catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		habits:       make(map[uuid.UUID]tracker.Habit),
		habitsBySlug: make(map[string]uuid.UUID),
		themes:       make(map[uuid.UUID]tracker.Theme),
		ready:        make(chan struct{}),
	}
}

// Load adds every habit and theme from src and marks the catalog ready.
func (c *Catalog) Load(ctx context.Context, src CatalogSource) error {
	habits, err := src.ListHabits(ctx)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	themes, err := src.ListThemes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list themes: %w", err)
	}

	for _, h := range habits {
		if err := c.AddHabit(h); err != nil {
			return err
		}
	}
	for _, t := range themes {
		if err := c.AddTheme(t); err != nil {
			return err
		}
	}

	c.MarkReady()
	logrus.Infof("catalog loaded with %d habits and %d themes", len(habits), len(themes))
	return nil
}

// AddHabit inserts or replaces a habit. Slugs stay unique across habits.
func (c *Catalog) AddHabit(h tracker.Habit) error {
	if err := ValidateHabit(h); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if owner, ok := c.habitsBySlug[h.Slug]; ok && owner != h.ID {
		return fmt.Errorf("%w: slug %q already used by habit %s", ErrInvalidHabit, h.Slug, owner)
	}

	if prev, ok := c.habits[h.ID]; ok {
		delete(c.habitsBySlug, prev.Slug)
	} else {
		c.habitOrder = append(c.habitOrder, h.ID)
	}
	c.habits[h.ID] = h
	c.habitsBySlug[h.Slug] = h.ID
	return nil
}

// AddTheme inserts or replaces a theme.
func (c *Catalog) AddTheme(t tracker.Theme) error {
	if err := ValidateTheme(t); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.themes[t.ID]; !ok {
		c.themeOrder = append(c.themeOrder, t.ID)
	}
	c.themes[t.ID] = t
	return nil
}

// MarkReady closes the Ready channel. Safe to call more than once.
func (c *Catalog) MarkReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// Ready is closed when the initial load completed.
func (c *Catalog) Ready() <-chan struct{} {
	return c.ready
}

// IsReady reports whether the initial load completed.
func (c *Catalog) IsReady() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the catalog is ready or ctx is done.
func (c *Catalog) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrCatalogNotReady, ctx.Err())
	}
}

func (c *Catalog) FindHabitBySlug(slug string) (tracker.Habit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.habitsBySlug[slug]
	if !ok {
		return tracker.Habit{}, false
	}
	return c.habits[id], true
}

func (c *Catalog) FindHabitByID(id uuid.UUID) (tracker.Habit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.habits[id]
	return h, ok
}

func (c *Catalog) FindThemeByID(id uuid.UUID) (tracker.Theme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.themes[id]
	return t, ok
}

// Habits returns all habits in insertion order.
func (c *Catalog) Habits() []tracker.Habit {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]tracker.Habit, 0, len(c.habitOrder))
	for _, id := range c.habitOrder {
		out = append(out, c.habits[id])
	}
	return out
}

// Themes returns all themes in insertion order.
func (c *Catalog) Themes() []tracker.Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]tracker.Theme, 0, len(c.themeOrder))
	for _, id := range c.themeOrder {
		out = append(out, c.themes[id])
	}
	return out
}
