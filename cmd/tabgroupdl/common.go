package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/log"
)

// addConfigFlag registers the configuration file flag.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tabgroupdl in current or home directory)")
}

// addReportFlags registers the report format and destination flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getPersistentBool(cmd, "verbose")
}

// getPersistentBool reads a root level flag. Commands executed on their own
// (as in tests) have no root flags and read false.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// buildConfig creates a Config from defaults, the configuration file and
// the command's flags. Flags override the file; only flags the user set
// are applied.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if flags.Lookup("config") != nil {
		cfg.ConfigFilePath, err = flags.GetString("config")
		if err != nil {
			return nil, err
		}
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently keep the defaults if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg, filepath.Dir(configPath))
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getPersistentBool(cmd, "log-json")

	if err := applyBool(cmd, "json", &cfg.JSONReport); err != nil {
		return nil, err
	}
	if err := applyBool(cmd, "markdown", &cfg.MarkdownReport); err != nil {
		return nil, err
	}
	if err := applyString(cmd, "output", &cfg.ReportFile); err != nil {
		return nil, err
	}
	if err := applyString(cmd, "quality", &cfg.Quality); err != nil {
		return nil, err
	}
	if err := applyString(cmd, "download-dir", &cfg.DownloadDir); err != nil {
		return nil, err
	}
	if err := applyString(cmd, "ytdlp", &cfg.YtDlpPath); err != nil {
		return nil, err
	}
	if err := applyInt(cmd, "concurrency", &cfg.Concurrency); err != nil {
		return nil, err
	}
	if err := applyBool(cmd, "archive", &cfg.Archive); err != nil {
		return nil, err
	}
	if err := applyBool(cmd, "allow-skip-fragments", &cfg.AllowSkipFragments); err != nil {
		return nil, err
	}
	if err := applyDuration(cmd, "attempt-timeout", &cfg.AttemptTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyBrowserFlag restricts extraction to the browser given with --browser.
func applyBrowserFlag(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("browser") {
		return nil
	}
	name, err := cmd.Flags().GetString("browser")
	if err != nil {
		return err
	}
	cfg.Browsers = []string{name}
	return nil
}

// applyString copies a string flag into dst when the user set it.
func applyString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// applyBool copies a bool flag into dst when the user set it.
func applyBool(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// applyInt copies an int flag into dst when the user set it.
func applyInt(cmd *cobra.Command, name string, dst *int) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// applyDuration copies a duration flag into dst when the user set it.
func applyDuration(cmd *cobra.Command, name string, dst *time.Duration) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetDuration(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// loadConfig builds and validates the configuration and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// setupLogger creates the redacting structured logger.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogJSON {
		return log.NewSecureJSONLogger(w, cfg.SlogLevel())
	}
	return log.NewSecureLogger(w, cfg.SlogLevel())
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openReportOutput returns the report destination: cfg.ReportFile or the
// command's stdout. The close function is non-nil whenever err is nil.
func openReportOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports list local file paths; keep them readable by the owner only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
