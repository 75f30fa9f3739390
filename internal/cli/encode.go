// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// now is the clock used by every command.
var now = time.Now

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	Habit string
	Start string
	Rate  string
	Theme string
	User  string
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a tracker state into a share fragment or link",
		Long: `Encode a tracker state into the fragment of a share link.

With --habit the full link <origin>/<habit>#<fragment> is printed as well.
The rate is parsed the way the app parses user input: anything that is
not a finite, non-negative number becomes 1 unit per day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Habit, "habit", "", "habit slug of the link")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start date as RFC3339 or Unix seconds (default now)")
	cmd.Flags().StringVar(&opts.Rate, "rate", "1", "units per day")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme id")
	cmd.Flags().StringVar(&opts.User, "user", "", "user name")

	return cmd
}

func runEncode(rootOpts *RootOptions, opts *EncodeOptions, cmd *cobra.Command) error {
	start, err := parseStart(opts.Start)
	if err != nil {
		return err
	}

	state := sharing.TrackerState{
		StartTimestamp: start,
		UnitsPerDay:    sharing.ParseRate(opts.Rate),
		UserName:       opts.User,
	}
	if opts.Theme != "" {
		if _, err := uuid.Parse(opts.Theme); err != nil {
			return fmt.Errorf("invalid --theme %q: %w", opts.Theme, err)
		}
		theme := opts.Theme
		state.ThemeID = &theme
	}
	logrus.Debugf("encoding state %+v", state)

	view := newStateView(opts.Habit, state, rootOpts.Origin)
	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), view)
	}

	out := view.Fragment
	if view.URL != "" {
		out = view.URL
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// parseStart accepts Unix seconds or an RFC3339 date. Empty means now.
func parseStart(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now().Unix(), nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return sec, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid --start %q: expected RFC3339 or Unix seconds", s)
	}
	return t.Unix(), nil
}
