// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// seedNamespace derives stable habit and theme ids for seed entries without one.
var seedNamespace = uuid.MustParse("6f1c2a9e-3b7d-5e4a-9c10-2d8f4b6a7e31")

// CatalogSeed is the habit and theme catalog read from a YAML file.
type CatalogSeed struct {
	Habits []HabitSeed `yaml:"habits"`
	Themes []ThemeSeed `yaml:"themes"`
}

// HabitSeed is a habit entry. ID may be omitted.
type HabitSeed struct {
	ID       string `yaml:"id,omitempty"`
	Slug     string `yaml:"slug"`
	Name     string `yaml:"name"`
	Icon     string `yaml:"icon"`
	UnitName string `yaml:"unitName"`
}

// ThemeSeed is a theme entry. ID may be omitted.
type ThemeSeed struct {
	ID        string  `yaml:"id,omitempty"`
	Name      string  `yaml:"name"`
	CSS       string  `yaml:"css,omitempty"`
	IconLimit *uint32 `yaml:"iconLimit,omitempty"`
}

// LoadCatalogSeed loads the catalog seed from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadCatalogSeed(path string) (*CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed %s: %w", path, err)
	}
	return ParseCatalogSeed(data)
}

// ParseCatalogSeed parses and validates seed YAML.
func ParseCatalogSeed(data []byte) (*CatalogSeed, error) {
	expanded := expandEnvVars(string(data))

	var seed CatalogSeed
	if err := yaml.Unmarshal([]byte(expanded), &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog seed: %w", err)
	}

	return &seed, nil
}

// Validate checks every entry converts and that slugs and ids are unique.
func (s *CatalogSeed) Validate() error {
	slugs := make(map[string]bool)
	habitIDs := make(map[uuid.UUID]bool)
	for _, hs := range s.Habits {
		h, err := hs.habit()
		if err != nil {
			return err
		}
		if slugs[h.Slug] {
			return fmt.Errorf("%w: duplicate slug %q", ErrInvalidHabit, h.Slug)
		}
		slugs[h.Slug] = true
		if habitIDs[h.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidHabit, h.ID)
		}
		habitIDs[h.ID] = true
	}

	themeIDs := make(map[uuid.UUID]bool)
	for _, ts := range s.Themes {
		t, err := ts.theme()
		if err != nil {
			return err
		}
		if themeIDs[t.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidTheme, t.ID)
		}
		themeIDs[t.ID] = true
	}

	return nil
}

// ListHabits implements CatalogSource.
func (s *CatalogSeed) ListHabits(_ context.Context) ([]tracker.Habit, error) {
	habits := make([]tracker.Habit, 0, len(s.Habits))
	for _, hs := range s.Habits {
		h, err := hs.habit()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// ListThemes implements CatalogSource.
func (s *CatalogSeed) ListThemes(_ context.Context) ([]tracker.Theme, error) {
	themes := make([]tracker.Theme, 0, len(s.Themes))
	for _, ts := range s.Themes {
		t, err := ts.theme()
		if err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, nil
}

func (hs HabitSeed) habit() (tracker.Habit, error) {
	id := uuid.NewSHA1(seedNamespace, []byte("habit:"+hs.Slug))
	if hs.ID != "" {
		parsed, err := uuid.Parse(hs.ID)
		if err != nil {
			return tracker.Habit{}, fmt.Errorf("%w: habit %q: %v", ErrInvalidHabit, hs.Slug, err)
		}
		id = parsed
	}

	h := tracker.Habit{
		ID:       id,
		Slug:     hs.Slug,
		Name:     hs.Name,
		Icon:     hs.Icon,
		UnitName: hs.UnitName,
	}
	return h, ValidateHabit(h)
}

func (ts ThemeSeed) theme() (tracker.Theme, error) {
	id := uuid.NewSHA1(seedNamespace, []byte("theme:"+ts.Name))
	if ts.ID != "" {
		parsed, err := uuid.Parse(ts.ID)
		if err != nil {
			return tracker.Theme{}, fmt.Errorf("%w: theme %q: %v", ErrInvalidTheme, ts.Name, err)
		}
		id = parsed
	}

	t := tracker.Theme{
		ID:        id,
		Name:      ts.Name,
		CSS:       ts.CSS,
		IconLimit: ts.IconLimit,
	}
	return t, ValidateTheme(t)
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		// Support ${VAR:default} syntax
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
