package model

import "time"

// SourceReport describes one state file that was read during extraction.
type SourceReport struct {
	// Path is the original (live profile) path of the file.
	Path string `json:"path"`

	// Decoder names the decoder that consumed the file.
	Decoder string `json:"decoder"`

	// Digest is the SHA3-256 of the snapshot copy, hex encoded.
	Digest string `json:"digest,omitempty"`

	// Links is the number of raw links the decoder produced.
	Links int `json:"links"`

	// Skipped is true when the file was identical to one already decoded.
	Skipped bool `json:"skipped,omitempty"`

	// Error is set when the file could not be snapshotted or decoded.
	Error string `json:"error,omitempty"`
}

// Harvest accumulates the result of running the extraction pipeline over
// a single profile. Pipeline steps fill it in sequence.
type Harvest struct {
	// Profile is the profile being extracted.
	Profile Profile `json:"profile"`

	// StartedAt is when extraction began.
	StartedAt time.Time `json:"started_at"`

	// SnapshotDir is the per-profile directory holding snapshot copies.
	// It lives under the run's snapshot root and is removed with it.
	SnapshotDir string `json:"-"`

	// Copies maps a live profile file path to its snapshot path.
	Copies map[string]string `json:"-"`

	// Sources lists every state file considered, in processing order.
	Sources []SourceReport `json:"sources"`

	// Links holds the raw decoder output in decode order.
	Links []RawLink `json:"-"`

	// Groups holds the normalized groups.
	Groups []LinkGroup `json:"groups"`

	// PerformedSteps records the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the last critical error, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// Cancelled is true when extraction stopped because the context ended.
	Cancelled bool `json:"cancelled,omitempty"`
}

// NewHarvest creates an empty Harvest for a profile.
func NewHarvest(profile Profile) *Harvest {
	return &Harvest{
		Profile:        profile,
		StartedAt:      time.Now(),
		Copies:         make(map[string]string),
		Sources:        make([]SourceReport, 0),
		Links:          make([]RawLink, 0),
		Groups:         make([]LinkGroup, 0),
		PerformedSteps: make([]string, 0),
	}
}

// AddSource appends a source report.
func (h *Harvest) AddSource(src SourceReport) {
	h.Sources = append(h.Sources, src)
}

// LinkCount returns the number of links across all groups.
func (h *Harvest) LinkCount() int {
	n := 0
	for _, g := range h.Groups {
		n += g.Len()
	}
	return n
}
