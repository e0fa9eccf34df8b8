package main

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabgroupdl/internal/backend"
	"github.com/nao1215/tabgroupdl/internal/config"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// backendVersionTimeout bounds the yt-dlp --version call.
const backendVersionTimeout = 10 * time.Second

// getVersion returns version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func getVersion() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
	}
	return "(devel)"
}

// getCommit returns commit hash.
// Priority: ldflags > debug.ReadBuildInfo > "unknown"
func getCommit() string {
	if commit != "" {
		return commit
	}
	return buildSetting("vcs.revision", 7)
}

// getDate returns build date.
// Priority: ldflags > debug.ReadBuildInfo > "unknown"
func getDate() string {
	if date != "" {
		return date
	}
	return buildSetting("vcs.time", 0)
}

// buildSetting returns the build setting key, cut to maxLen when maxLen > 0.
func buildSetting(key string, maxLen int) string {
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			if setting.Key != key {
				continue
			}
			if maxLen > 0 && len(setting.Value) > maxLen {
				return setting.Value[:maxLen]
			}
			return setting.Value
		}
	}
	return "unknown"
}

// getBackendVersion returns the yt-dlp version or a short reason it is unusable.
func getBackendVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, backendVersionTimeout)
	defer cancel()

	v, err := backend.NewYtDlp(path).Version(ctx)
	if err != nil {
		return "not found"
	}
	return v
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of tabgroupdl, and the version of the yt-dlp it will run.`,
		Run: func(cmd *cobra.Command, _ []string) {
			ytdlp, _ := cmd.Flags().GetString("ytdlp") //nolint:errcheck // flag is defined below
			ffmpeg := "not found"
			if backend.HasFFmpeg() {
				ffmpeg = "found"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tabgroupdl version %s\n", getVersion())
			fmt.Fprintf(out, "  commit: %s\n", getCommit())
			fmt.Fprintf(out, "  built:  %s\n", getDate())
			fmt.Fprintf(out, "  yt-dlp: %s\n", getBackendVersion(commandContext(cmd), ytdlp))
			fmt.Fprintf(out, "  ffmpeg: %s\n", ffmpeg)
		},
	}

	cmd.Flags().String("ytdlp", config.DefaultYtDlpPath, "Path to the yt-dlp executable")

	return cmd
}
