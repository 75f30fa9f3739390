// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"errors"
	"math"
	"testing"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/bobishh/quitter/pkg/wire"
	"github.com/google/uuid"
)

func TestHabitFromWire(t *testing.T) {
	tests := []struct {
		name    string
		input   wire.Habit
		wantErr bool
	}{
		{"valid", wire.Habit{ID: uuid.NewString(), Slug: "beer", Name: "Beer", Icon: "🍺", UnitName: "pint"}, false},
		{"generated id", wire.Habit{Slug: "beer", Name: "Beer", Icon: "🍺", UnitName: "pint"}, false},
		{"bad id", wire.Habit{ID: "nope", Slug: "beer", Name: "Beer"}, true},
		{"empty slug", wire.Habit{Name: "Beer"}, true},
		{"slug with slash", wire.Habit{Slug: "be/er", Name: "Beer"}, true},
		{"slug with fragment", wire.Habit{Slug: "beer#x", Name: "Beer"}, true},
		{"blank name", wire.Habit{Slug: "beer", Name: "  "}, true},
		{"no icon", wire.Habit{Slug: "beer", Name: "Beer", UnitName: "pint"}, true},
		{"no unit", wire.Habit{Slug: "beer", Name: "Beer", Icon: "🍺"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := HabitFromWire(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHabit) {
					t.Errorf("HabitFromWire() error = %v, expected ErrInvalidHabit", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("HabitFromWire() error = %v", err)
			}
			if h.ID == uuid.Nil {
				t.Error("HabitFromWire() should assign an id")
			}
			if back := HabitToWire(h); back.Slug != tt.input.Slug || back.Name != tt.input.Name {
				t.Errorf("HabitToWire() = %+v", back)
			}
		})
	}
}

func TestThemeFromWire(t *testing.T) {
	limit := int32(50)
	negative := int32(-1)

	th, err := ThemeFromWire(wire.Theme{Name: "Winamp", IconLimit: &limit})
	if err != nil {
		t.Fatalf("ThemeFromWire() error = %v", err)
	}
	if th.IconLimit == nil || *th.IconLimit != 50 {
		t.Errorf("IconLimit = %v, expected 50", th.IconLimit)
	}

	if _, err := ThemeFromWire(wire.Theme{Name: "Bad", IconLimit: &negative}); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("ThemeFromWire() negative limit error = %v, expected ErrInvalidTheme", err)
	}
	if _, err := ThemeFromWire(wire.Theme{}); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("ThemeFromWire() empty error = %v, expected ErrInvalidTheme", err)
	}
}

func TestThemeToWire_ClampsLimit(t *testing.T) {
	huge := uint32(math.MaxUint32)
	w := ThemeToWire(tracker.Theme{ID: uuid.New(), Name: "x", IconLimit: &huge})
	if w.IconLimit == nil || *w.IconLimit != math.MaxInt32 {
		t.Errorf("IconLimit = %v, expected MaxInt32", w.IconLimit)
	}

	if w := ThemeToWire(tracker.Theme{ID: uuid.New(), Name: "x"}); w.IconLimit != nil {
		t.Errorf("IconLimit = %d, expected nil", *w.IconLimit)
	}
}
