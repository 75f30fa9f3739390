// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownHabit indicates a shared link whose path segment names no known habit.
	ErrUnknownHabit = errors.New("unknown habit")

	// ErrUnknownDecision indicates a Decision value outside the known set.
	ErrUnknownDecision = errors.New("unknown reconciliation decision")
)

// UnknownHabitError carries the slug that failed to resolve.
type UnknownHabitError struct {
	Slug string
}

func (e *UnknownHabitError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownHabit, e.Slug)
}

func (e *UnknownHabitError) Is(target error) bool { return target == ErrUnknownHabit }
