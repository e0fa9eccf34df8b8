package model

import "errors"

// Error taxonomy shared by the extraction and acquisition packages.
// Packages wrap these with fmt.Errorf("...: %w") and callers test them
// with errors.Is.
var (
	// ErrProfileNotFound is reported when no profile exists for a browser.
	// It is informational; the run continues with other browsers.
	ErrProfileNotFound = errors.New("no browser profile found")

	// ErrSnapshotUnavailable is returned when a profile file could not be
	// copied even after one retry. The profile is excluded from decoding.
	ErrSnapshotUnavailable = errors.New("profile unreadable: snapshot unavailable")

	// ErrDecodeCorrupt is returned by decoders for malformed input.
	// It downgrades to zero groups from that source.
	ErrDecodeCorrupt = errors.New("corrupt session data")

	// ErrNoGroupsFound is reported when filtering leaves no groups.
	ErrNoGroupsFound = errors.New("no link groups found")

	// ErrAttemptAuthRequired means the backend needs another auth context.
	ErrAttemptAuthRequired = errors.New("authentication required")

	// ErrAttemptTransient means the attempt failed for a retryable reason.
	ErrAttemptTransient = errors.New("transient failure")

	// ErrAttemptUnsupported means no usable format exists for the URL.
	ErrAttemptUnsupported = errors.New("unsupported format")

	// ErrStrategyExhausted means every strategy in the ladder was used up.
	ErrStrategyExhausted = errors.New("all download strategies exhausted")
)
