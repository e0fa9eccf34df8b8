package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/database"
	"github.com/nao1215/tabgroupdl/internal/report"
)

// defaultHistoryLimit is the number of rows listed when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists runs and downloads recorded in the download archive.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs and downloads recorded in the archive",
		Long: `History lists the download runs recorded by 'tabgroupdl download --archive'.

Examples:
  # List recent runs
  tabgroupdl history

  # List archived downloads of one group
  tabgroupdl history --downloads --group "Road Trip"

  # Show the full report of a run
  tabgroupdl history --run 01JA2B3C4D5E6F7G8H9J0KMNPQ

  # Same, as Markdown
  tabgroupdl history --run 01JA2B3C4D5E6F7G8H9J0KMNPQ -m`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("downloads", "d", false,
		"List archived downloads instead of runs")
	cmd.Flags().StringP("group", "g", "",
		"Only list downloads of this group")
	cmd.Flags().StringP("run", "r", "",
		"Show the stored report of a run")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of rows (0 = no limit)")
	addConfigFlag(cmd)
	addReportFlags(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	listDownloads, err := flags.GetBool("downloads")
	if err != nil {
		return err
	}
	group, err := flags.GetString("group")
	if err != nil {
		return err
	}
	runID, err := flags.GetString("run")
	if err != nil {
		return err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.ArchiveDir, opts)
	if errors.Is(err, database.ErrArchiveNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No download archive found.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'tabgroupdl download --archive' to record downloads.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer db.Close()

	ctx := commandContext(cmd)
	switch {
	case runID != "":
		return showRun(ctx, cmd, cfg, db, runID)
	case listDownloads:
		return listArchivedDownloads(ctx, cmd.OutOrStdout(), db, group, limit)
	default:
		return listRuns(ctx, cmd.OutOrStdout(), db, limit)
	}
}

// listRuns prints the recorded runs, newest first.
func listRuns(ctx context.Context, w io.Writer, db *database.ArchiveDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(w, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(w, "  %-26s  %-20s  %-8s  %-14s  %s\n", "Run", "Started", "Browser", "OK/Fail/Wait", "Group")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 90))

	for _, r := range runs {
		fmt.Fprintf(w, "  %-26s  %-20s  %-8s  %-14s  %s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Browser,
			fmt.Sprintf("%d/%d/%d", r.Succeeded, r.Failed, r.Pending),
			r.Group,
		)
	}

	fmt.Fprintln(w, "\nUse 'tabgroupdl history --run <id>' to show the report of a run.")
	return nil
}

// listArchivedDownloads prints the archived downloads, newest first.
func listArchivedDownloads(ctx context.Context, w io.Writer, db *database.ArchiveDB, group string, limit int) error {
	records, err := db.ListDownloads(ctx, group, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		if group != "" {
			fmt.Fprintf(w, "No archived downloads for %q.\n", group)
		} else {
			fmt.Fprintln(w, "No archived downloads.")
		}
		return nil
	}

	fmt.Fprintf(w, "Archived downloads (%d):\n\n", len(records))
	fmt.Fprintf(w, "  %-20s  %-14s  %-20s  %s\n", "Date", "Content", "Group", "File")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 90))

	for _, r := range records {
		fmt.Fprintf(w, "  %-20s  %-14s  %-20s  %s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.ContentID,
			r.Group,
			r.ArtifactPath,
		)
	}
	return nil
}

// showRun writes the stored report of runID in the requested format.
func showRun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *database.ArchiveDB, runID string) error {
	data, err := db.GetRunReport(ctx, runID)
	if err != nil {
		return err
	}

	var run report.RunReport
	if err := json.Unmarshal(data, &run); err != nil {
		return fmt.Errorf("failed to decode stored report: %w", err)
	}
	return outputRunReport(cmd, cfg, &run)
}
