package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabgroupdl/internal/browser"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/pipeline"
	"github.com/nao1215/tabgroupdl/internal/report"
)

// NewProfilesCmd creates the profiles command.
func NewProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the browser profiles tabgroupdl can read",
		Long: `Profiles lists the Firefox and Chrome profiles found on this machine,
newest first per browser. Native, Snap and Flatpak installations are searched.

Examples:
  # List all profiles
  tabgroupdl profiles

  # Only Firefox profiles, as JSON
  tabgroupdl profiles --browser firefox --json`,
		Args: cobra.NoArgs,
		RunE: runProfilesCmd,
	}

	cmd.Flags().StringP("browser", "b", "",
		"Restrict to one browser (firefox or chrome)")
	addConfigFlag(cmd)
	addReportFlags(cmd)

	return cmd
}

// runProfilesCmd executes the profiles command.
func runProfilesCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyBrowserFlag(cmd, cfg); err != nil {
		return err
	}

	kinds, err := pipeline.SelectedBrowsers(cfg)
	if err != nil {
		return err
	}

	locator := browser.NewLocator(browser.DefaultEnv(), browser.WithLogger(logger))
	profiles := locator.FindAll(kinds)
	var missing []model.BrowserKind
	for _, kind := range kinds {
		if !slices.ContainsFunc(profiles, func(p model.Profile) bool { return p.Kind == kind }) {
			missing = append(missing, kind)
		}
	}

	out, closeOut, err := openReportOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeOut()

	w := report.New(report.FormatFromConfig(cfg), out, cfg.Verbose)
	if _, err := w.WriteProfiles(report.NewProfilesReport(profiles, missing)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
