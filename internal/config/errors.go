package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers use errors.Is to tell them apart.
var (
	// ErrNoDownloadDir is returned when the download directory is empty.
	ErrNoDownloadDir = errors.New("invalid download directory: must not be empty")

	// ErrInvalidQuality is returned when the quality key is not 1, 2 or 3.
	ErrInvalidQuality = errors.New("invalid quality: must be one of 1, 2, 3")

	// ErrConverterMissing is returned when an MP3 quality is selected but
	// ffmpeg is not installed.
	ErrConverterMissing = errors.New("ffmpeg not found: install it or use quality 3 (original audio)")

	// ErrInvalidLogLevel is returned for unknown log level names.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn or error")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxAttempts is returned when the attempt bound is not positive.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")

	// ErrInvalidRetryBackoff is returned when the retry backoff is negative.
	ErrInvalidRetryBackoff = errors.New("invalid retry backoff: must be non-negative")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidFragmentRetries is returned when fragment retries is negative.
	ErrInvalidFragmentRetries = errors.New("invalid fragment retries: must be non-negative")

	// ErrNoContentDomains is returned when no content domain is configured.
	ErrNoContentDomains = errors.New("no content domains configured")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
