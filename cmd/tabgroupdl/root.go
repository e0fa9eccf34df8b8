package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tabgroupdl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabgroupdl",
		Short: "Download the media links of a browser tab group",
		Long: `tabgroupdl extracts tab groups from Firefox and Chrome profiles and
downloads the media links of a group as audio files using yt-dlp.

Browser state is read from a private snapshot, so the browser may stay open.
When a site requires sign-in, tabgroupdl retries with the cookies of each
local browser profile in turn.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewProfilesCmd())
	cmd.AddCommand(NewGroupsCmd())
	cmd.AddCommand(NewDownloadCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
