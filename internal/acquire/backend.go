package acquire

import (
	"context"

	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/model"
)

// Request is one backend invocation.
type Request struct {
	// URL is the content URL to download.
	URL string

	// Auth is the authentication context to run under.
	Auth model.AuthContext

	// Profile provides the cookies for Auth; nil for AuthNone.
	Profile *model.Profile

	// PlayerClients selects the host player clients; empty means the default.
	PlayerClients []string

	// Quality selects the audio extraction profile.
	Quality config.QualityProfile

	// ResumeFragments keeps partial fragments so a retry skips them.
	// The orchestrator always sets it.
	ResumeFragments bool

	// OutputDir is the directory the artifact is written to.
	OutputDir string

	// AllowSkipFragments lets the backend drop fragments that keep failing.
	AllowSkipFragments bool

	// FragmentRetries is the per-fragment retry count.
	FragmentRetries int
}

// Response is the classified result of one backend invocation.
type Response struct {
	// Class is the outcome class. An empty class is treated as transient.
	Class model.OutcomeClass

	// Path is the produced artifact, set on success.
	Path string

	// Message is a short human-readable reason.
	Message string
}

// Backend downloads one URL. Implementations must honor ctx and classify
// every failure; they never return Go errors.
type Backend interface {
	Download(ctx context.Context, req Request) Response
}

// Tagger post-processes a downloaded artifact and returns its final path.
type Tagger interface {
	Tag(ctx context.Context, path string) (string, error)
}

// Archive remembers acquired content across runs.
type Archive interface {
	// Has reports whether contentID was acquired before.
	Has(ctx context.Context, contentID string) (bool, error)

	// Record stores a succeeded result.
	Record(ctx context.Context, link model.RawLink, result model.AcquisitionResult) error
}
