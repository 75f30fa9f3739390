// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package sharing

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseShareURL splits a share URL into its habit slug (the last path
// segment) and its fragment.
func ParseShareURL(raw string) (slug, fragment string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedShareURL, err)
	}

	path := strings.Trim(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		return "", "", fmt.Errorf("%w: missing habit slug", ErrMalformedShareURL)
	}

	fragment = u.EscapedFragment()
	if fragment == "" {
		return "", "", fmt.Errorf("%w: missing fragment", ErrMalformedShareURL)
	}
	return path, fragment, nil
}

// DecodeShareURL parses a share URL and decodes its fragment.
func DecodeShareURL(raw string) (slug string, state TrackerState, err error) {
	slug, fragment, err := ParseShareURL(raw)
	if err != nil {
		return "", TrackerState{}, err
	}
	state, err = Decode(fragment)
	if err != nil {
		return "", TrackerState{}, err
	}
	return slug, state, nil
}
