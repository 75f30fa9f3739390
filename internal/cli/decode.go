// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"strings"

	"github.com/bobishh/quitter/pkg/sharing"
	"github.com/spf13/cobra"
)

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <link-or-fragment>",
		Short: "Decode a share link or fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, state, err := decodeArg(args[0])
			if err != nil {
				return err
			}

			view := newStateView(slug, state, rootOpts.Origin)
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return writeStateText(cmd.OutOrStdout(), view)
		},
	}

	return cmd
}

// decodeArg decodes either a full share link or a bare fragment. A bare
// fragment has no habit slug.
func decodeArg(arg string) (string, sharing.TrackerState, error) {
	if strings.Contains(arg, "#") {
		return sharing.DecodeShareURL(arg)
	}
	state, err := sharing.Decode(strings.TrimSpace(arg))
	return "", state, err
}
