// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"fmt"

	"github.com/bobishh/quitter/pkg/common"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Origin  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultOrigin is used for produced links when neither --origin nor
// QUITTER_PUBLIC_ORIGIN is set.
const DefaultOrigin = "http://localhost:8080"

// NewRootCommand creates the root command for quitterctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quitterctl",
		Short: "quitterctl - inspect and produce shared tracker links",
		Long: `Encode, decode and watch the tracker state carried in quitter share links.

A share link has the form <origin>/<habit-slug>#<state>, where <state> is
the URL-safe base64 encoding of the tracker's start, rate, theme and user name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logrus.SetOutput(cmd.ErrOrStderr())
			if opts.Verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Origin, "origin",
		common.GetEnv("QUITTER_PUBLIC_ORIGIN", DefaultOrigin), "public origin of share links")

	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
