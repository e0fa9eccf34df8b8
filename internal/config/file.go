package config

import (
	"path/filepath"
	"time"
)

// File represents the structure of the .tabgroupdl configuration file.
// Every field is optional; zero values leave the current setting alone.
type File struct {
	// DownloadDir is the base download directory. Relative paths are
	// resolved against the directory containing the config file.
	DownloadDir string `yaml:"download_dir,omitempty"`

	// DefaultQuality is "1", "2" or "3". Unknown values are ignored.
	DefaultQuality string `yaml:"default_quality,omitempty"`

	// LogLevel is debug, info, warn or error. Unknown values are ignored.
	LogLevel string `yaml:"log_level,omitempty"`

	// AllowSkipFragments lets the backend skip unavailable fragments.
	AllowSkipFragments *bool `yaml:"allow_skip_fragments,omitempty"`

	// YtDlpPath is the downloading backend executable.
	YtDlpPath string `yaml:"ytdlp_path,omitempty"`

	// AttemptTimeout bounds each backend invocation (e.g. "10m").
	AttemptTimeout time.Duration `yaml:"attempt_timeout,omitempty"`

	// CopyTimeout bounds each snapshot copy.
	CopyTimeout time.Duration `yaml:"copy_timeout,omitempty"`

	// MaxAttempts is the per-strategy bound for transient retries.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// RetryBackoff is the pause between transient retries.
	RetryBackoff *time.Duration `yaml:"retry_backoff,omitempty"`

	// Concurrency is the number of URLs acquired at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	// FragmentRetries is forwarded to the backend.
	FragmentRetries *int `yaml:"fragment_retries,omitempty"`

	// ContentDomains replaces the default content domains.
	ContentDomains []string `yaml:"content_domains,omitempty"`

	// IgnoreGroups holds glob patterns of group names to hide.
	IgnoreGroups []string `yaml:"ignore_groups,omitempty"`

	// Browsers restricts extraction to these browsers.
	Browsers []string `yaml:"browsers,omitempty"`

	// Archive enables the download archive.
	Archive *bool `yaml:"archive,omitempty"`

	// ArchiveDir overrides the directory of the download archive.
	ArchiveDir string `yaml:"archive_dir,omitempty"`
}

// Apply merges the file's settings into cfg. baseDir is the directory the
// file was loaded from and anchors a relative download_dir.
func (f *File) Apply(cfg *Config, baseDir string) {
	if f.DownloadDir != "" {
		dir := f.DownloadDir
		if !filepath.IsAbs(dir) && baseDir != "" {
			dir = filepath.Join(baseDir, dir)
		}
		cfg.DownloadDir = filepath.Clean(dir)
	}
	if _, ok := QualityProfiles[f.DefaultQuality]; ok {
		cfg.Quality = f.DefaultQuality
	}
	if _, ok := parseLevel(f.LogLevel); ok && f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.AllowSkipFragments != nil {
		cfg.AllowSkipFragments = *f.AllowSkipFragments
	}
	if f.YtDlpPath != "" {
		cfg.YtDlpPath = f.YtDlpPath
	}
	if f.AttemptTimeout > 0 {
		cfg.AttemptTimeout = f.AttemptTimeout
	}
	if f.CopyTimeout > 0 {
		cfg.CopyTimeout = f.CopyTimeout
	}
	if f.MaxAttempts > 0 {
		cfg.MaxAttempts = f.MaxAttempts
	}
	if f.RetryBackoff != nil {
		cfg.RetryBackoff = *f.RetryBackoff
	}
	if f.Concurrency > 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.FragmentRetries != nil {
		cfg.FragmentRetries = *f.FragmentRetries
	}
	if len(f.ContentDomains) > 0 {
		cfg.ContentDomains = append([]string(nil), f.ContentDomains...)
	}
	if len(f.IgnoreGroups) > 0 {
		cfg.IgnoreGroups = append([]string(nil), f.IgnoreGroups...)
	}
	if len(f.Browsers) > 0 {
		cfg.Browsers = append([]string(nil), f.Browsers...)
	}
	if f.Archive != nil {
		cfg.Archive = *f.Archive
	}
	if f.ArchiveDir != "" {
		dir := f.ArchiveDir
		if !filepath.IsAbs(dir) && baseDir != "" {
			dir = filepath.Join(baseDir, dir)
		}
		cfg.ArchiveDir = filepath.Clean(dir)
	}
}
