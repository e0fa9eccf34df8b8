package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/tabgroupdl/internal/browser"
	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/linkfilter"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/snapshot"
)

// Extraction is the outcome of extracting every selected profile.
type Extraction struct {
	// Profiles lists the profiles that were found, newest first per browser.
	Profiles []model.Profile

	// Missing lists browser kinds for which no profile exists.
	Missing []model.BrowserKind

	// Harvests holds one harvest per profile; nil for profiles never
	// started because the run was cancelled.
	Harvests []*model.Harvest

	// Groups holds the merged groups of all profiles.
	Groups []model.LinkGroup
}

// Find returns the group called name. When browser is empty and the name
// exists in several browsers ErrAmbiguousGroup is returned.
func (e *Extraction) Find(name string, kind model.BrowserKind) (*model.LinkGroup, error) {
	name = linkfilter.CleanLabel(name)
	var matches []*model.LinkGroup
	for i := range e.Groups {
		g := &e.Groups[i]
		if g.Name != name {
			continue
		}
		if kind != "" && g.Browser != kind {
			continue
		}
		matches = append(matches, g)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q (use --browser)", ErrAmbiguousGroup, name)
	}
}

// SelectedBrowsers parses cfg.Browsers; an empty list selects all.
func SelectedBrowsers(cfg *config.Config) ([]model.BrowserKind, error) {
	if len(cfg.Browsers) == 0 {
		return model.AllBrowsers, nil
	}
	kinds := make([]model.BrowserKind, 0, len(cfg.Browsers))
	for _, name := range cfg.Browsers {
		kind, ok := model.ParseBrowserKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown browser %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Extract locates profiles, extracts each one from a private snapshot
// and merges the resulting groups. The snapshot is removed before Extract
// returns, whatever the outcome. A missing browser or an unreadable
// profile is reported in the result, not returned as an error.
func Extract(ctx context.Context, cfg *config.Config, locator *browser.Locator, logger *slog.Logger) (*Extraction, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kinds, err := SelectedBrowsers(cfg)
	if err != nil {
		return nil, err
	}

	result := &Extraction{}
	for _, kind := range kinds {
		found := locator.Find(kind)
		if len(found) == 0 {
			logger.Info("no profile found", "browser", kind.DisplayName())
			result.Missing = append(result.Missing, kind)
			continue
		}
		result.Profiles = append(result.Profiles, found...)
	}
	if len(result.Profiles) == 0 {
		return result, fmt.Errorf("%w for %v", model.ErrProfileNotFound, kinds)
	}

	normalizer, err := linkfilter.New(cfg.ContentDomains, cfg.IgnoreGroups, linkfilter.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	snap, err := snapshot.New(cfg.SnapshotParent, snapshot.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := snap.Close(); err != nil {
			logger.Warn("failed to remove snapshot", "dir", snap.Dir(), "error", err)
		}
	}()

	bp := NewBatchProcessor(
		func() *Pipeline { return NewExtractionPipeline(cfg, snap, normalizer, logger) },
		WithBatchLogger(logger),
	)
	result.Harvests, err = bp.ProcessProfiles(ctx, result.Profiles)

	sets := make([][]model.LinkGroup, 0, len(result.Harvests))
	for _, h := range result.Harvests {
		if h != nil {
			sets = append(sets, h.Groups)
		}
	}
	result.Groups = linkfilter.Merge(sets...)

	if err != nil {
		return result, err
	}
	if len(result.Groups) == 0 {
		return result, model.ErrNoGroupsFound
	}
	return result, nil
}
