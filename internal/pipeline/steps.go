package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/nao1215/tabgroupdl/internal/browser"
	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/linkfilter"
	"github.com/nao1215/tabgroupdl/internal/model"
	"github.com/nao1215/tabgroupdl/internal/session"
	"github.com/nao1215/tabgroupdl/internal/snapshot"
)

// Step names, recorded in model.Harvest.PerformedSteps.
const (
	StepSnapshot  = "snapshot"
	StepDecode    = "decode"
	StepNormalize = "normalize"
)

// SnapshotStep copies a profile's state files into the run snapshot.
type SnapshotStep struct {
	snap        *snapshot.Snapshot
	copyTimeout time.Duration
	logger      *slog.Logger
}

// SnapshotStepOption configures a SnapshotStep.
type SnapshotStepOption func(*SnapshotStep)

// WithCopyTimeout bounds each file copy.
func WithCopyTimeout(d time.Duration) SnapshotStepOption {
	return func(s *SnapshotStep) {
		if d > 0 {
			s.copyTimeout = d
		}
	}
}

// WithSnapshotLogger sets the logger.
func WithSnapshotLogger(logger *slog.Logger) SnapshotStepOption {
	return func(s *SnapshotStep) {
		s.logger = logger
	}
}

// NewSnapshotStep creates a SnapshotStep writing into snap.
func NewSnapshotStep(snap *snapshot.Snapshot, opts ...SnapshotStepOption) *SnapshotStep {
	s := &SnapshotStep{
		snap:        snap,
		copyTimeout: config.DefaultCopyTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SnapshotStep) Name() string {
	return StepSnapshot
}

// Do copies every state file. A file that cannot be copied is recorded
// and skipped; if no file at all could be copied the profile is
// unreadable and ErrSnapshotUnavailable is returned.
func (s *SnapshotStep) Do(ctx context.Context, h *model.Harvest) error {
	h.SnapshotDir = s.snap.Dir()

	files := browser.StateFiles(h.Profile)
	if len(files) == 0 {
		s.logger.Debug("profile has no state files", "profile", h.Profile.String())
		return nil
	}

	copied := 0
	for _, f := range files {
		src := model.SourceReport{Path: f.Path, Decoder: f.Decoder}

		path, err := s.copy(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("could not snapshot file", "path", f.Path, "error", err)
			src.Error = err.Error()
			h.AddSource(src)
			continue
		}

		src.Digest = s.snap.Digest(path)
		h.Copies[f.Path] = path
		h.AddSource(src)
		copied++
	}

	if copied == 0 {
		return fmt.Errorf("%w: %s", model.ErrSnapshotUnavailable, h.Profile.Root)
	}
	return nil
}

func (s *SnapshotStep) copy(ctx context.Context, f browser.StateFile) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.copyTimeout)
	defer cancel()
	if f.Database {
		return s.snap.CopyDatabase(ctx, f.Path)
	}
	return s.snap.Copy(ctx, f.Path)
}

// DecodeStep decodes the snapshot copies into raw links.
type DecodeStep struct {
	hosts  *regexp.Regexp
	logger *slog.Logger
}

// DecodeStepOption configures a DecodeStep.
type DecodeStepOption func(*DecodeStep)

// WithDecodeLogger sets the logger.
func WithDecodeLogger(logger *slog.Logger) DecodeStepOption {
	return func(s *DecodeStep) {
		s.logger = logger
	}
}

// NewDecodeStep creates a DecodeStep. contentDomains narrows the SNSS
// scan to URLs on those domains.
func NewDecodeStep(contentDomains []string, opts ...DecodeStepOption) *DecodeStep {
	s := &DecodeStep{
		hosts:  session.HostPattern(contentDomains),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return StepDecode
}

// Do decodes each copied source. Firefox keeps several generations of its
// session store; the first one that decodes is used and older ones are
// skipped. A source byte-identical to one already tried is skipped too.
// Corrupt sources are recorded and contribute no links.
func (s *DecodeStep) Do(ctx context.Context, h *model.Harvest) error {
	tried := make(map[string]bool)
	sessionDecoded := false

	for i := range h.Sources {
		src := &h.Sources[i]
		path, ok := h.Copies[src.Path]
		if !ok || src.Error != "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if src.Decoder == browser.DecoderMozLZ4 && sessionDecoded {
			src.Skipped = true
			continue
		}
		if src.Digest != "" && tried[src.Digest] {
			src.Skipped = true
			continue
		}
		if src.Digest != "" {
			tried[src.Digest] = true
		}

		links, err := s.decode(ctx, src.Decoder, path)
		if err != nil {
			if errors.Is(err, model.ErrDecodeCorrupt) {
				s.logger.Warn("corrupt source, ignoring", "path", src.Path, "decoder", src.Decoder, "error", err)
			} else {
				s.logger.Warn("could not decode source", "path", src.Path, "decoder", src.Decoder, "error", err)
			}
			src.Error = err.Error()
			continue
		}

		if src.Decoder == browser.DecoderMozLZ4 {
			sessionDecoded = true
		}
		src.Links = len(links)
		h.Links = append(h.Links, links...)
		s.logger.Debug("decoded source", "path", src.Path, "decoder", src.Decoder, "links", len(links))
	}
	return nil
}

func (s *DecodeStep) decode(ctx context.Context, decoder, path string) ([]model.RawLink, error) {
	if decoder == browser.DecoderFirefoxPlaces {
		return session.DecodeFirefoxPlaces(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot copy: %w", err)
	}
	switch decoder {
	case browser.DecoderMozLZ4:
		return session.DecodeMozLZ4(data)
	case browser.DecoderSNSS:
		return session.ScanSNSS(data, s.hosts), nil
	case browser.DecoderChromeBookmarks:
		return session.DecodeChromeBookmarks(data)
	default:
		return nil, fmt.Errorf("unknown decoder %q", decoder)
	}
}

// NormalizeStep filters and groups the decoded links.
type NormalizeStep struct {
	normalizer *linkfilter.Normalizer
}

// NewNormalizeStep creates a NormalizeStep.
func NewNormalizeStep(normalizer *linkfilter.Normalizer) *NormalizeStep {
	return &NormalizeStep{normalizer: normalizer}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return StepNormalize
}

// Do replaces h.Groups with the normalized groups of h.Links.
func (s *NormalizeStep) Do(_ context.Context, h *model.Harvest) error {
	h.Groups = s.normalizer.Normalize(h.Profile.Kind, h.Links)
	return nil
}

// NewExtractionPipeline builds the standard snapshot, decode and
// normalize pipeline.
func NewExtractionPipeline(cfg *config.Config, snap *snapshot.Snapshot, normalizer *linkfilter.Normalizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := New(WithLogger(logger))
	p.AddSteps(
		NewSnapshotStep(snap, WithCopyTimeout(cfg.CopyTimeout), WithSnapshotLogger(logger)),
		NewDecodeStep(cfg.ContentDomains, WithDecodeLogger(logger)),
		NewNormalizeStep(normalizer),
	)
	return p
}
