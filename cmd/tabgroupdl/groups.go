package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabgroupdl/internal/browser"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/pipeline"
	"github.com/nao1215/tabgroupdl/internal/report"
)

// NewGroupsCmd creates the groups command.
func NewGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the tab groups and their media links",
		Long: `Groups extracts tab groups from every located profile and lists the
media links of each group.

Firefox groups come from the session store and the bookmarks database.
Chrome groups come from the session files and bookmark folders. Open tabs
outside any group are listed as "[Active Session] Open Tabs".

Examples:
  # List groups of all browsers
  tabgroupdl groups

  # Chrome only, verbose, as Markdown
  tabgroupdl groups -b chrome -m -v

  # Write a JSON listing to a file
  tabgroupdl groups --json -o groups.json`,
		Args: cobra.NoArgs,
		RunE: runGroupsCmd,
	}

	cmd.Flags().StringP("browser", "b", "",
		"Restrict to one browser (firefox or chrome)")
	addConfigFlag(cmd)
	addReportFlags(cmd)

	return cmd
}

// runGroupsCmd executes the groups command.
func runGroupsCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyBrowserFlag(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := signalContext(commandContext(cmd), logger)
	defer cancel()

	locator := browser.NewLocator(browser.DefaultEnv(), browser.WithLogger(logger))
	ext, err := pipeline.Extract(ctx, cfg, locator, logger)
	if err != nil && !isReportable(err) {
		return err
	}

	out, closeOut, err := openReportOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeOut()

	w := report.New(report.FormatFromConfig(cfg), out, cfg.Verbose)
	if _, err := w.WriteGroups(report.NewGroupsReport(ext)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// isReportable reports whether an extraction error is shown in the report
// instead of failing the command.
func isReportable(err error) bool {
	return errors.Is(err, model.ErrProfileNotFound) || errors.Is(err, model.ErrNoGroupsFound)
}
