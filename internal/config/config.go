package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "tabgroupdl"

	// DefaultYtDlpPath is the downloading backend executable, resolved via PATH.
	DefaultYtDlpPath = "yt-dlp"

	// DefaultAttemptTimeout bounds a single backend invocation. Transcoding a
	// long video to MP3 can take several minutes on slow machines.
	DefaultAttemptTimeout = 15 * time.Minute

	// DefaultCopyTimeout bounds copying one profile file into the snapshot.
	DefaultCopyTimeout = 30 * time.Second

	// DefaultMaxAttempts is the number of tries per strategy for transient failures.
	DefaultMaxAttempts = 3

	// DefaultRetryBackoff is the pause between transient retries.
	DefaultRetryBackoff = 2 * time.Second

	// DefaultConcurrency keeps acquisition sequential; the backend is heavy.
	DefaultConcurrency = 1

	// DefaultFragmentRetries is passed to the backend for per-fragment retries.
	DefaultFragmentRetries = 15

	// DefaultLogLevel matches the level the tool has always logged at.
	DefaultLogLevel = "info"
)

// DefaultContentDomains are the registrable domains whose URLs are media content.
var DefaultContentDomains = []string{"youtube.com", "youtu.be"}

// Config holds all configuration options for tabgroupdl.
// It is built from defaults, the YAML file and CLI flags, then passed
// explicitly to the locator, pipeline, normalizer and orchestrator.
type Config struct {
	// DownloadDir is the base directory; each group gets a sub directory.
	DownloadDir string

	// Quality is the key of the selected quality profile ("1", "2" or "3").
	Quality string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// Verbose forces debug logging regardless of LogLevel.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// AllowSkipFragments lets the backend skip fragments that keep failing
	// instead of failing the whole attempt.
	AllowSkipFragments bool

	// YtDlpPath is the downloading backend executable.
	YtDlpPath string

	// AttemptTimeout bounds each backend invocation.
	AttemptTimeout time.Duration

	// CopyTimeout bounds each snapshot copy.
	CopyTimeout time.Duration

	// MaxAttempts is the per-strategy bound for transient retries.
	MaxAttempts int

	// RetryBackoff is the pause between transient retries.
	RetryBackoff time.Duration

	// Concurrency is the number of URLs acquired at once.
	Concurrency int

	// FragmentRetries is forwarded to the backend.
	FragmentRetries int

	// ContentDomains lists registrable domains considered media content.
	ContentDomains []string

	// IgnoreGroups holds glob patterns of group names to hide.
	IgnoreGroups []string

	// Browsers restricts extraction to these browser kinds (empty = all).
	Browsers []string

	// Archive enables the download archive in the XDG data directory.
	Archive bool

	// ArchiveDir is the directory holding the archive database.
	ArchiveDir string

	// SnapshotParent is where the per-run snapshot directory is created.
	// Empty means the OS temporary directory.
	SnapshotParent string

	// ConfigFilePath is the configuration file given on the command line.
	ConfigFilePath string

	// JSONReport enables JSON report output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	MarkdownReport bool

	// ReportFile is the output path for the report; empty means stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DownloadDir:     DefaultDownloadDir(),
		Quality:         DefaultQuality,
		LogLevel:        DefaultLogLevel,
		YtDlpPath:       DefaultYtDlpPath,
		AttemptTimeout:  DefaultAttemptTimeout,
		CopyTimeout:     DefaultCopyTimeout,
		MaxAttempts:     DefaultMaxAttempts,
		RetryBackoff:    DefaultRetryBackoff,
		Concurrency:     DefaultConcurrency,
		FragmentRetries: DefaultFragmentRetries,
		ContentDomains:  append([]string(nil), DefaultContentDomains...),
		ArchiveDir:      XDGDataDir(),
	}
}

// DefaultDownloadDir returns the default download base directory.
// On Linux: ~/Music/tabgroupdl (XDG music dir).
func DefaultDownloadDir() string {
	return filepath.Join(xdg.UserDirs.Music, AppName)
}

// XDGDataDir returns the XDG data directory for tabgroupdl.
// On Linux: ~/.local/share/tabgroupdl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tabgroupdl.
// On Linux: ~/.config/tabgroupdl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.DownloadDir == "" {
		return ErrNoDownloadDir
	}
	if _, ok := QualityProfiles[c.Quality]; !ok {
		return ErrInvalidQuality
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return ErrInvalidLogLevel
	}
	if c.AttemptTimeout <= 0 || c.CopyTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.RetryBackoff < 0 {
		return ErrInvalidRetryBackoff
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.FragmentRetries < 0 {
		return ErrInvalidFragmentRetries
	}
	if len(c.ContentDomains) == 0 {
		return ErrNoContentDomains
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// CheckConverter reports ErrConverterMissing when the selected quality
// transcodes audio and ffmpeg is not available.
func (c *Config) CheckConverter(hasFFmpeg bool) error {
	q := c.QualityProfile()
	if q.Convert && !hasFFmpeg {
		return fmt.Errorf("%w: %q needs ffmpeg", ErrConverterMissing, q.Name)
	}
	return nil
}

// QualityProfile returns the selected quality profile.
// It falls back to the default profile when Quality is unknown.
func (c *Config) QualityProfile() QualityProfile {
	if q, ok := QualityProfiles[c.Quality]; ok {
		return q
	}
	return QualityProfiles[DefaultQuality]
}
