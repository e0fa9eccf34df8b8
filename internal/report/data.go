package report

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nao1215/tabgroupdl/internal/acquire"
	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/pipeline"
)

// ProfileSummary describes one located profile and what was read from it.
type ProfileSummary struct {
	Browser model.BrowserKind    `json:"browser"`
	Name    string               `json:"name"`
	Variant model.InstallVariant `json:"variant"`
	Root    string               `json:"root"`
	Sources []model.SourceReport `json:"sources,omitempty"`
	Links   int                  `json:"links"`
	Error   string               `json:"error,omitempty"`
}

// ProfilesReport lists the located profiles.
type ProfilesReport struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Profiles    []ProfileSummary    `json:"profiles"`
	Missing     []model.BrowserKind `json:"missing,omitempty"`
}

// NewProfilesReport builds a report from located profiles.
func NewProfilesReport(profiles []model.Profile, missing []model.BrowserKind) *ProfilesReport {
	r := &ProfilesReport{
		GeneratedAt: time.Now(),
		Profiles:    make([]ProfileSummary, 0, len(profiles)),
		Missing:     missing,
	}
	for _, p := range profiles {
		r.Profiles = append(r.Profiles, summarizeProfile(p, nil))
	}
	return r
}

// GroupSummary describes one extracted group.
type GroupSummary struct {
	Name    string            `json:"name"`
	Browser model.BrowserKind `json:"browser"`
	URLs    []string          `json:"urls"`
}

// GroupsReport lists the extracted groups and the profiles they came from.
type GroupsReport struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Profiles    []ProfileSummary    `json:"profiles"`
	Missing     []model.BrowserKind `json:"missing,omitempty"`
	Groups      []GroupSummary      `json:"groups"`
}

// NewGroupsReport builds a report from an extraction.
func NewGroupsReport(ext *pipeline.Extraction) *GroupsReport {
	r := &GroupsReport{
		GeneratedAt: time.Now(),
		Profiles:    make([]ProfileSummary, 0, len(ext.Profiles)),
		Missing:     ext.Missing,
		Groups:      make([]GroupSummary, 0, len(ext.Groups)),
	}
	for i, p := range ext.Profiles {
		var h *model.Harvest
		if i < len(ext.Harvests) {
			h = ext.Harvests[i]
		}
		r.Profiles = append(r.Profiles, summarizeProfile(p, h))
	}
	for _, g := range ext.Groups {
		r.Groups = append(r.Groups, GroupSummary{
			Name:    g.Name,
			Browser: g.Browser,
			URLs:    g.URLs(),
		})
	}
	return r
}

// TotalLinks returns the number of URLs over all groups.
func (r *GroupsReport) TotalLinks() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.URLs)
	}
	return n
}

func summarizeProfile(p model.Profile, h *model.Harvest) ProfileSummary {
	s := ProfileSummary{
		Browser: p.Kind,
		Name:    p.Name,
		Variant: p.Variant,
		Root:    p.Root,
	}
	if h != nil {
		s.Sources = h.Sources
		s.Links = h.LinkCount()
		s.Error = h.ErrorMessage
	}
	return s
}

// RunReport records one download run.
type RunReport struct {
	RunID      string                    `json:"run_id"`
	Version    string                    `json:"version,omitempty"`
	Group      string                    `json:"group"`
	Browser    model.BrowserKind         `json:"browser"`
	Quality    config.QualityProfile     `json:"quality"`
	OutputDir  string                    `json:"output_dir"`
	StartedAt  time.Time                 `json:"started_at"`
	FinishedAt time.Time                 `json:"finished_at"`
	Cancelled  bool                      `json:"cancelled,omitempty"`
	Summary    acquire.Summary           `json:"summary"`
	Results    []model.AcquisitionResult `json:"results"`
}

// NewRunReport starts a run report with a fresh ULID run id.
func NewRunReport(group *model.LinkGroup, quality config.QualityProfile, outputDir, version string) *RunReport {
	now := time.Now()
	return &RunReport{
		RunID:     newRunID(now),
		Version:   version,
		Group:     group.Name,
		Browser:   group.Browser,
		Quality:   quality,
		OutputDir: outputDir,
		StartedAt: now,
	}
}

// Complete fills the results from agg. cancelled marks a run stopped early.
func (r *RunReport) Complete(agg *acquire.Aggregator, cancelled bool) {
	r.FinishedAt = time.Now()
	r.Cancelled = cancelled
	r.Results = agg.Results()
	r.Summary = agg.Summary()
}

// Duration returns the wall-clock time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Second)
}

// ByState returns the results in state s, in run order.
func (r *RunReport) ByState(s model.State) []model.AcquisitionResult {
	var out []model.AcquisitionResult
	for _, res := range r.Results {
		if res.State == s {
			out = append(out, res)
		}
	}
	return out
}

func newRunID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
