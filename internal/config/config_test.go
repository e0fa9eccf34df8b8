package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default quality is best mp3", func(t *testing.T) {
		t.Parallel()
		if cfg.Quality != "1" {
			t.Errorf("expected Quality to be '1', got '%s'", cfg.Quality)
		}
	})

	t.Run("default acquisition is sequential", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 1 {
			t.Errorf("expected Concurrency to be 1, got %d", cfg.Concurrency)
		}
	})

	t.Run("default max attempts is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxAttempts != 3 {
			t.Errorf("expected MaxAttempts to be 3, got %d", cfg.MaxAttempts)
		}
	})

	t.Run("default copy timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.CopyTimeout != 30*time.Second {
			t.Errorf("expected CopyTimeout to be 30s, got %v", cfg.CopyTimeout)
		}
	})

	t.Run("default content domains", func(t *testing.T) {
		t.Parallel()
		if len(cfg.ContentDomains) != 2 || cfg.ContentDomains[0] != "youtube.com" {
			t.Errorf("unexpected content domains %v", cfg.ContentDomains)
		}
	})

	t.Run("archive is disabled by default", func(t *testing.T) {
		t.Parallel()
		if cfg.Archive {
			t.Error("expected Archive to be false")
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid config returns nil", func(*Config) {}, nil},
		{"empty download dir", func(c *Config) { c.DownloadDir = "" }, ErrNoDownloadDir},
		{"unknown quality", func(c *Config) { c.Quality = "9" }, ErrInvalidQuality},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, ErrInvalidLogLevel},
		{"warning log level is accepted", func(c *Config) { c.LogLevel = "WARNING" }, nil},
		{"zero attempt timeout", func(c *Config) { c.AttemptTimeout = 0 }, ErrInvalidTimeout},
		{"negative copy timeout", func(c *Config) { c.CopyTimeout = -time.Second }, ErrInvalidTimeout},
		{"zero max attempts", func(c *Config) { c.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"negative backoff", func(c *Config) { c.RetryBackoff = -time.Second }, ErrInvalidRetryBackoff},
		{"zero backoff is valid", func(c *Config) { c.RetryBackoff = 0 }, nil},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, ErrInvalidConcurrency},
		{"negative fragment retries", func(c *Config) { c.FragmentRetries = -1 }, ErrInvalidFragmentRetries},
		{"no content domains", func(c *Config) { c.ContentDomains = nil }, ErrNoContentDomains},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.DownloadDir = "/tmp/downloads"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestQualityProfile tests quality profile lookup.
func TestQualityProfile(t *testing.T) {
	t.Parallel()

	t.Run("original audio does not convert", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Quality: "3"}
		if cfg.QualityProfile().Convert {
			t.Error("expected profile 3 not to convert")
		}
	})

	t.Run("unknown key falls back to default", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Quality: "x"}
		if got := cfg.QualityProfile().Key; got != DefaultQuality {
			t.Errorf("expected default profile, got %q", got)
		}
	})

	t.Run("every key has a profile", func(t *testing.T) {
		t.Parallel()
		for _, k := range QualityKeys() {
			if _, ok := QualityProfiles[k]; !ok {
				t.Errorf("missing profile %q", k)
			}
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.tabgroupdl")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads and applies valid YAML config", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".tabgroupdl")
		content := `download_dir: music
default_quality: "2"
log_level: DEBUG
allow_skip_fragments: true
attempt_timeout: 5m
retry_backoff: 0s
max_attempts: 5
ignore_groups:
  - "Work*"
archive: true
archive_dir: state
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.Apply(cfg, tmpDir)

		if cfg.DownloadDir != filepath.Join(tmpDir, "music") {
			t.Errorf("expected relative download dir resolved, got %q", cfg.DownloadDir)
		}
		if cfg.Quality != "2" {
			t.Errorf("expected quality 2, got %q", cfg.Quality)
		}
		if cfg.LogLevel != "DEBUG" {
			t.Errorf("expected log level DEBUG, got %q", cfg.LogLevel)
		}
		if !cfg.AllowSkipFragments {
			t.Error("expected AllowSkipFragments true")
		}
		if cfg.AttemptTimeout != 5*time.Minute {
			t.Errorf("expected attempt timeout 5m, got %v", cfg.AttemptTimeout)
		}
		if cfg.RetryBackoff != 0 {
			t.Errorf("expected retry backoff 0, got %v", cfg.RetryBackoff)
		}
		if cfg.MaxAttempts != 5 {
			t.Errorf("expected max attempts 5, got %d", cfg.MaxAttempts)
		}
		if len(cfg.IgnoreGroups) != 1 || cfg.IgnoreGroups[0] != "Work*" {
			t.Errorf("unexpected ignore groups %v", cfg.IgnoreGroups)
		}
		if !cfg.Archive {
			t.Error("expected Archive true")
		}
		if cfg.ArchiveDir != filepath.Join(tmpDir, "state") {
			t.Errorf("expected relative archive dir resolved, got %q", cfg.ArchiveDir)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected applied config to validate, got %v", err)
		}
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		t.Parallel()

		file := &File{DefaultQuality: "7", LogLevel: "chatty"}
		cfg := NewConfig()
		file.Apply(cfg, "")

		if cfg.Quality != DefaultQuality {
			t.Errorf("expected default quality, got %q", cfg.Quality)
		}
		if cfg.LogLevel != DefaultLogLevel {
			t.Errorf("expected default log level, got %q", cfg.LogLevel)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".tabgroupdl")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(configPath, []byte("log_level: info"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestSlogLevel tests level resolution.
func TestSlogLevel(t *testing.T) {
	t.Parallel()

	cfg := &Config{LogLevel: "error"}
	if cfg.SlogLevel().String() != "ERROR" {
		t.Errorf("expected ERROR, got %s", cfg.SlogLevel())
	}
	cfg.Verbose = true
	if cfg.SlogLevel().String() != "DEBUG" {
		t.Errorf("expected DEBUG when verbose, got %s", cfg.SlogLevel())
	}
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":   XDGDataDir(),
		"config": XDGConfigDir(),
	} {
		if dir == "" {
			t.Errorf("expected non-empty XDG %s dir", name)
		}
	}
}

// TestCheckConverter tests that MP3 qualities require ffmpeg.
func TestCheckConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality   string
		hasFFmpeg bool
		wantErr   bool
	}{
		{quality: "1", hasFFmpeg: true, wantErr: false},
		{quality: "1", hasFFmpeg: false, wantErr: true},
		{quality: "2", hasFFmpeg: false, wantErr: true},
		{quality: "3", hasFFmpeg: false, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("quality %s ffmpeg %v", tt.quality, tt.hasFFmpeg), func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Quality = tt.quality
			err := cfg.CheckConverter(tt.hasFFmpeg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckConverter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrConverterMissing) {
				t.Errorf("expected ErrConverterMissing, got %v", err)
			}
		})
	}
}
