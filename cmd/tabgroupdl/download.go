package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabgroupdl/internal/acquire"
	"github.com/nao1215/tabgroupdl/internal/backend"
	"github.com/nao1215/tabgroupdl/internal/browser"
	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/database"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/pipeline"
	"github.com/nao1215/tabgroupdl/internal/postprocess"
	"github.com/nao1215/tabgroupdl/internal/report"
)

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the media links of a tab group as audio",
		Long: `Download extracts the named tab group and downloads every media link in
it with yt-dlp into <download_dir>/<group name>.

Each link is first tried without cookies. When the site asks for sign-in or
refuses the request, the download is retried with the cookies of the Firefox
profile, then the Chrome profile. Network errors are retried a few times on
the same strategy. One failing link never stops the others.

Press Ctrl+C to stop: links that did not finish are reported as pending.

Quality profiles:
  1  Best MP3 (up to 320kbps)
  2  Standard MP3 (192kbps)
  3  Original audio (M4A/WebM, no conversion)

Examples:
  # Download a group
  tabgroupdl download --group "Road Trip"

  # The group exists in both browsers; pick Chrome's
  tabgroupdl download -g "Road Trip" -b chrome

  # Keep original audio and skip links downloaded by earlier runs
  tabgroupdl download -g "Road Trip" -q 3 --archive

  # Save a Markdown report of the run
  tabgroupdl download -g "Road Trip" -m -o reports/road-trip.md`,
		Args: cobra.NoArgs,
		RunE: runDownloadCmd,
	}

	cmd.Flags().StringP("group", "g", "",
		"Name of the tab group to download (see 'tabgroupdl groups')")
	cmd.Flags().StringP("browser", "b", "",
		"Only read groups from this browser (firefox or chrome)")
	cmd.Flags().StringP("quality", "q", config.DefaultQuality,
		"Quality profile: 1, 2 or 3")
	cmd.Flags().StringP("download-dir", "d", "",
		"Base download directory (default: the music directory)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of links downloaded at once")
	cmd.Flags().BoolP("archive", "a", false,
		"Record downloads and skip links downloaded by earlier runs")
	cmd.Flags().Bool("allow-skip-fragments", false,
		"Let yt-dlp skip fragments that keep failing")
	cmd.Flags().Duration("attempt-timeout", config.DefaultAttemptTimeout,
		"Timeout for a single yt-dlp invocation")
	cmd.Flags().String("ytdlp", config.DefaultYtDlpPath,
		"Path to the yt-dlp executable")
	addConfigFlag(cmd)
	addReportFlags(cmd)

	_ = cmd.MarkFlagRequired("group") //nolint:errcheck // flag is defined above

	return cmd
}

// runDownloadCmd executes the download command.
func runDownloadCmd(cmd *cobra.Command, _ []string) error {
	groupName, err := cmd.Flags().GetString("group")
	if err != nil {
		return err
	}
	if groupName == "" {
		return errors.New("group name is required (use 'tabgroupdl groups' to list groups)")
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.CheckConverter(backend.HasFFmpeg()); err != nil {
		return err
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signalContext(commandContext(cmd), logger)
	defer cancel()

	locator := browser.NewLocator(browser.DefaultEnv(), browser.WithLogger(logger))
	ext, err := pipeline.Extract(ctx, cfg, locator, logger)
	if err != nil {
		return fmt.Errorf("failed to extract groups: %w", err)
	}

	kind, err := browserKindFlag(cmd)
	if err != nil {
		return err
	}
	group, err := ext.Find(groupName, kind)
	if err != nil {
		return err
	}

	yt := backend.NewYtDlp(cfg.YtDlpPath, backend.WithLogger(logger))
	return runDownload(ctx, cmd, cfg, logger, group, acquire.DefaultLadder(ext.Profiles), yt)
}

// runDownload acquires every link of group and writes the run report.
func runDownload(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	logger *slog.Logger,
	group *model.LinkGroup,
	ladder []acquire.Strategy,
	b acquire.Backend,
) error {
	if group.Len() == 0 {
		return fmt.Errorf("group %q has no media links", group.Name)
	}

	outputDir := filepath.Join(cfg.DownloadDir, postprocess.SafeDirName(group.Name))
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	run := report.NewRunReport(group, cfg.QualityProfile(), outputDir, getVersion())

	opts := []acquire.Option{
		acquire.WithOutputDir(outputDir),
		acquire.WithTagger(postprocess.NewRenamer(postprocess.WithLogger(logger))),
		acquire.WithProgress(progressPrinter(cmd.ErrOrStderr(), group.Len())),
		acquire.WithLogger(logger),
	}

	var db *database.ArchiveDB
	if cfg.Archive {
		var err error
		db, err = database.Open(cfg.ArchiveDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer db.Close()
		logger.Info("archive opened", "path", db.Path())
		opts = append(opts, acquire.WithArchive(db.ForRun(run.RunID)))
	}

	orch, err := acquire.NewFromConfig(cfg, b, ladder, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Downloading %d links from %q (%s) into %s\n\n",
		group.Len(), group.Name, group.Browser.DisplayName(), outputDir)

	agg, runErr := orch.Run(ctx, group.Links)
	cancelled := runErr != nil && ctx.Err() != nil
	if runErr != nil && !cancelled {
		return runErr
	}
	run.Complete(agg, cancelled)

	// The run context may already be cancelled; the record is still saved.
	if err := saveRun(context.WithoutCancel(ctx), db, run); err != nil {
		logger.Error("failed to save run", "run", run.RunID, "error", err)
	}

	if err := outputRunReport(cmd, cfg, run); err != nil {
		return err
	}

	if cancelled {
		return fmt.Errorf("download interrupted: %w", runErr)
	}
	return nil
}

// browserKindFlag parses --browser. Empty means any browser.
// Extraction still reads every browser so the cookie ladder stays complete.
func browserKindFlag(cmd *cobra.Command) (model.BrowserKind, error) {
	name, err := cmd.Flags().GetString("browser")
	if err != nil || name == "" {
		return "", err
	}
	kind, ok := model.ParseBrowserKind(name)
	if !ok {
		return "", fmt.Errorf("unknown browser %q", name)
	}
	return kind, nil
}

// progressPrinter returns a progress callback printing one line per
// finished link.
func progressPrinter(w io.Writer, total int) func(model.AcquisitionResult) {
	var (
		mu   sync.Mutex
		done int
	)
	return func(r model.AcquisitionResult) {
		mu.Lock()
		defer mu.Unlock()
		done++
		switch {
		case r.Archived:
			fmt.Fprintf(w, "[%d/%d] skipped (archived): %s\n", done, total, r.URL)
		case r.State == model.StateSucceeded:
			fmt.Fprintf(w, "[%d/%d] done: %s\n", done, total, filepath.Base(r.ArtifactPath))
		default:
			fmt.Fprintf(w, "[%d/%d] failed: %s (%s)\n", done, total, r.URL, r.Error)
		}
	}
}

// saveRun stores the run report in the archive. If db is nil, this
// function is a no-op.
func saveRun(ctx context.Context, db *database.ArchiveDB, run *report.RunReport) error {
	if db == nil {
		return nil
	}
	data, err := report.MarshalRun(run)
	if err != nil {
		return err
	}
	return db.SaveRun(ctx, database.RunRecord{
		RunID:      run.RunID,
		Group:      run.Group,
		Browser:    run.Browser.String(),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Total:      run.Summary.Total,
		Succeeded:  run.Summary.Succeeded,
		Failed:     run.Summary.Failed,
		Pending:    run.Summary.Pending,
		ReportJSON: data,
	})
}

// outputRunReport writes the run report in the requested format.
func outputRunReport(cmd *cobra.Command, cfg *config.Config, run *report.RunReport) error {
	out, closeOut, err := openReportOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeOut()

	w := report.New(report.FormatFromConfig(cfg), out, cfg.Verbose)
	if _, err := w.WriteRun(run); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
