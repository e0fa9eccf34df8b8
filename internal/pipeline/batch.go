package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// DefaultProfileConcurrency is the number of profiles extracted at once.
const DefaultProfileConcurrency = 4

// BatchProcessor runs one pipeline per profile with bounded concurrency.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each profile.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of profiles processed at once.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent profiles.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultProfileConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessProfiles extracts every profile and returns one harvest per
// profile, in input order. A profile whose pipeline fails keeps its error
// in its harvest and does not stop the others. The error return is only
// set when ctx ends; profiles that never started have a nil harvest.
func (bp *BatchProcessor) ProcessProfiles(ctx context.Context, profiles []model.Profile) ([]*model.Harvest, error) {
	bp.logger.Debug("starting profile extraction",
		"profiles", len(profiles),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	results := make([]*model.Harvest, len(profiles))
	err := bp.run(ctx, profiles, func(h *model.Harvest, i int) {
		results[i] = h
	})

	bp.logger.Debug("profile extraction complete",
		"profiles", len(profiles),
		"elapsed", time.Since(startTime),
	)
	return results, err
}

func (bp *BatchProcessor) run(ctx context.Context, profiles []model.Profile, done func(*model.Harvest, int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, profile := range profiles {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			harvest := model.NewHarvest(profile)
			if err := bp.pipelineFactory().Execute(gctx, harvest); err != nil {
				bp.logger.Warn("profile excluded",
					"profile", profile.String(),
					"error", err,
				)
			}
			// Each index is written by exactly one goroutine.
			done(harvest, i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
