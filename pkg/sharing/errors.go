// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package sharing

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("invalid shared tracker state")

	// ErrUnsupportedTrackerType indicates a tracker variant that cannot be shared.
	ErrUnsupportedTrackerType = errors.New("tracker type cannot be shared")

	// ErrMalformedShareURL indicates a share URL without a habit slug or fragment.
	ErrMalformedShareURL = errors.New("malformed share URL")
)

// DecodeError reports why a fragment could not be decoded. Callers fall back
// to the default view.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDecode, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) true for any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func decodeErrorf(err error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...), Err: err}
}
