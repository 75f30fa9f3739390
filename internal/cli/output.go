// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/bobishh/quitter/pkg/sharing"
)

// stateView is the printable form of a decoded tracker state.
type stateView struct {
	Slug           string      `json:"slug,omitempty"`
	StartTimestamp int64       `json:"startTimestamp"`
	Start          string      `json:"start"`
	UnitsPerDay    interface{} `json:"unitsPerDay"`
	ThemeID        *string     `json:"themeId,omitempty"`
	UserName       string      `json:"userName"`
	Fragment       string      `json:"fragment"`
	URL            string      `json:"url,omitempty"`
}

func newStateView(slug string, state sharing.TrackerState, origin string) stateView {
	fragment := sharing.Encode(state)
	v := stateView{
		Slug:           slug,
		StartTimestamp: state.StartTimestamp,
		Start:          time.Unix(state.StartTimestamp, 0).UTC().Format(time.RFC3339),
		UnitsPerDay:    jsonFloat(state.UnitsPerDay),
		ThemeID:        state.ThemeID,
		UserName:       state.UserName,
		Fragment:       fragment,
	}
	if slug != "" {
		v.URL = sharing.ShareURL(origin, slug, state)
	}
	return v
}

// jsonFloat keeps NaN and infinities printable as JSON strings.
func jsonFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return v
}

// writeJSON writes one indented JSON document followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStateText(w io.Writer, v stateView) error {
	if v.Slug != "" {
		if _, err := fmt.Fprintf(w, "habit:        %s\n", v.Slug); err != nil {
			return err
		}
	}
	theme := "-"
	if v.ThemeID != nil {
		theme = *v.ThemeID
	}
	_, err := fmt.Fprintf(w, "start:        %s (%d)\nunits/day:    %v\ntheme:        %s\nuser:         %s\nfragment:     %s\n",
		v.Start, v.StartTimestamp, v.UnitsPerDay, theme, v.UserName, v.Fragment)
	if err != nil {
		return err
	}
	if v.URL != "" {
		_, err = fmt.Fprintf(w, "url:          %s\n", v.URL)
	}
	return err
}
