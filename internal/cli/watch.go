// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobishh/quitter/pkg/common"
	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/spf13/cobra"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	Interval  time.Duration
	Count     int
	IconLimit string
}

// tickView is one line of watch output.
type tickView struct {
	Time     string      `json:"time"`
	Metric   interface{} `json:"metric"`
	Icons    int         `json:"icons"`
	Overflow bool        `json:"overflow"`
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <link-or-fragment>",
		Short: "Print the live metric of a shared tracker",
		Long: `Decode a share link and print its avoided-interval metric once per
interval until interrupted, or until --count values were printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), rootOpts, opts, cmd, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval",
		common.GetEnvDuration("QUITTER_WATCH_INTERVAL", tracker.DefaultTickInterval), "refresh interval")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "stop after this many values (0 = until interrupted)")
	cmd.Flags().StringVar(&opts.IconLimit, "icon-limit", "", "cap on displayed icons (empty = unbounded)")

	return cmd
}

func runWatch(ctx context.Context, rootOpts *RootOptions, opts *WatchOptions, cmd *cobra.Command, arg string) error {
	_, state, err := decodeArg(arg)
	if err != nil {
		return err
	}

	limit := sharing.ParseIconLimit(opts.IconLimit)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	printed := 0
	var writeErr error

	ticker := &tracker.Ticker{
		Tracker: tracker.Tracker{
			Type: tracker.Abstinence{
				StartDate:   tracker.UnixStart(state.StartTimestamp),
				UnitsPerDay: state.UnitsPerDay,
				UserName:    state.UserName,
			},
		},
		Interval: opts.Interval,
		Now:      now,
		OnTick: func(at time.Time, metric float64) {
			icons, overflow := tracker.VisibleIcons(metric, limit)
			if rootOpts.Format == "json" {
				writeErr = enc.Encode(tickView{
					Time:     at.UTC().Format(time.RFC3339),
					Metric:   jsonFloat(metric),
					Icons:    icons,
					Overflow: overflow,
				})
			} else {
				suffix := ""
				if overflow {
					suffix = "+"
				}
				_, writeErr = fmt.Fprintf(out, "%s  %.4f  %d%s\n", at.UTC().Format(time.RFC3339), metric, icons, suffix)
			}

			printed++
			if writeErr != nil || (opts.Count > 0 && printed >= opts.Count) {
				cancel()
			}
		},
	}

	err = ticker.Run(ctx)
	if writeErr != nil {
		return writeErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
