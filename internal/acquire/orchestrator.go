package acquire

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/tabgroupdl/internal/config"
	"github.com/nao1215/tabgroupdl/internal/linkfilter"
	"github.com/nao1215/tabgroupdl/internal/model"
)

const msgCancelled = "cancelled before completion"

// Orchestrator acquires URLs through a Backend, one strategy ladder per URL.
type Orchestrator struct {
	backend Backend
	ladder  []Strategy
	tagger  Tagger
	archive Archive

	quality            config.QualityProfile
	outputDir          string
	allowSkipFragments bool
	fragmentRetries    int

	maxAttempts    int
	attemptTimeout time.Duration
	retryBackoff   time.Duration
	concurrency    int

	progress func(model.AcquisitionResult)
	logger   *slog.Logger

	// sleep waits between transient retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTagger sets the post-processor run after each success.
func WithTagger(t Tagger) Option {
	return func(o *Orchestrator) {
		o.tagger = t
	}
}

// WithArchive enables skipping and recording of already acquired content.
func WithArchive(a Archive) Option {
	return func(o *Orchestrator) {
		o.archive = a
	}
}

// WithQuality sets the quality profile sent to the backend.
func WithQuality(q config.QualityProfile) Option {
	return func(o *Orchestrator) {
		o.quality = q
	}
}

// WithOutputDir sets the artifact directory.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) {
		o.outputDir = dir
	}
}

// WithAllowSkipFragments lets the backend drop fragments that keep failing.
func WithAllowSkipFragments(allow bool) Option {
	return func(o *Orchestrator) {
		o.allowSkipFragments = allow
	}
}

// WithFragmentRetries sets the per-fragment retry count sent to the backend.
func WithFragmentRetries(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.fragmentRetries = n
		}
	}
}

// WithMaxAttempts bounds transient retries per strategy.
// Non-positive values keep the default.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithAttemptTimeout bounds each backend call.
// Non-positive values keep the default.
func WithAttemptTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.attemptTimeout = d
		}
	}
}

// WithRetryBackoff sets the pause between transient retries.
func WithRetryBackoff(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.retryBackoff = d
		}
	}
}

// WithConcurrency sets how many URLs are acquired at once.
// Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithProgress sets a callback invoked as soon as a URL reaches a final
// state. It may be called from several goroutines.
func WithProgress(fn func(model.AcquisitionResult)) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator with the defaults from the config package.
func New(backend Backend, ladder []Strategy, opts ...Option) (*Orchestrator, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if len(ladder) == 0 {
		return nil, ErrEmptyLadder
	}

	o := &Orchestrator{
		backend:         backend,
		ladder:          append([]Strategy(nil), ladder...),
		quality:         config.QualityProfiles[config.DefaultQuality],
		fragmentRetries: config.DefaultFragmentRetries,
		maxAttempts:     config.DefaultMaxAttempts,
		attemptTimeout:  config.DefaultAttemptTimeout,
		retryBackoff:    config.DefaultRetryBackoff,
		concurrency:     config.DefaultConcurrency,
		sleep:           sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o, nil
}

// NewFromConfig creates an Orchestrator from the run configuration.
// Extra options are applied after the configured ones.
func NewFromConfig(cfg *config.Config, backend Backend, ladder []Strategy, opts ...Option) (*Orchestrator, error) {
	base := []Option{
		WithQuality(cfg.QualityProfile()),
		WithOutputDir(cfg.DownloadDir),
		WithMaxAttempts(cfg.MaxAttempts),
		WithAttemptTimeout(cfg.AttemptTimeout),
		WithRetryBackoff(cfg.RetryBackoff),
		WithConcurrency(cfg.Concurrency),
		WithAllowSkipFragments(cfg.AllowSkipFragments),
		WithFragmentRetries(cfg.FragmentRetries),
	}
	return New(backend, ladder, append(base, opts...)...)
}

// Run acquires every link and returns an Aggregator holding one result per
// distinct URL, in input order. Failed URLs never stop the batch. When ctx
// ends, URLs that did not finish are recorded as pending and ctx.Err() is
// returned alongside the aggregator.
func (o *Orchestrator) Run(ctx context.Context, links []model.RawLink) (*Aggregator, error) {
	links = uniqueLinks(links)
	results := make([]model.AcquisitionResult, len(links))
	startTime := time.Now()

	o.logger.Info("starting acquisition",
		"urls", len(links),
		"strategies", len(o.ladder),
		"concurrency", o.concurrency,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, link := range links {
		results[i] = pendingResult(link.URL)
		if ctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			// Each index is written by exactly one goroutine.
			results[i] = o.acquire(gctx, link)
			if o.progress != nil && results[i].State.IsTerminal() {
				o.progress(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	agg := NewAggregator()
	for _, r := range results {
		if err := agg.Record(r); err != nil {
			return agg, err
		}
	}

	s := agg.Summary()
	o.logger.Info("acquisition complete",
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"pending", s.Pending,
		"attempts", s.Attempts,
		"elapsed", time.Since(startTime),
	)
	return agg, ctx.Err()
}

// acquire walks the ladder for one URL.
func (o *Orchestrator) acquire(ctx context.Context, link model.RawLink) model.AcquisitionResult {
	result := pendingResult(link.URL)
	if id, ok := linkfilter.ContentID(link.URL); ok {
		result.ContentID = id
	}
	logger := o.logger.With("url", link.URL)

	if o.skipArchived(ctx, result.ContentID) {
		logger.Info("already in archive, skipping", "content_id", result.ContentID)
		result.State = model.StateSucceeded
		result.Archived = true
		return result
	}

	var last *AttemptError
	for idx := 0; idx < len(o.ladder); {
		strategy := o.ladder[idx]
		next := idx + 1
		for try := 1; try <= o.maxAttempts; try++ {
			if ctx.Err() != nil {
				return cancelled(result)
			}

			result.State = model.StateTrying
			attempt, resp := o.attempt(ctx, link.URL, idx, strategy, try)
			result.Attempts = append(result.Attempts, attempt)
			last = &AttemptError{Class: attempt.Class, StrategyIndex: idx, Message: attempt.Message}

			// The artifact exists even if the run was stopped meanwhile.
			if attempt.Class == model.ClassSuccess {
				return o.succeed(ctx, logger, link, result, resp.Path)
			}
			if ctx.Err() != nil {
				return cancelled(result)
			}

			if attempt.Class.IsAuthFailure() {
				if attempt.Class == model.ClassAuthRequired {
					// Other player clients do not help a session that is not signed in.
					next = o.nextContext(idx)
				}
				logger.Info("strategy rejected, advancing",
					"strategy", strategy.String(),
					"class", attempt.Class,
				)
				break
			}
			if attempt.Class == model.ClassUnsupported {
				logger.Warn("unsupported content", "reason", attempt.Message)
				return failed(result, last)
			}

			if try == o.maxAttempts {
				logger.Warn("giving up after transient failures",
					"strategy", strategy.String(),
					"attempts", try,
				)
				return failed(result, last)
			}
			logger.Debug("transient failure, retrying",
				"strategy", strategy.String(),
				"try", try,
				"reason", attempt.Message,
			)
			if err := o.sleep(ctx, o.retryBackoff); err != nil {
				return cancelled(result)
			}
		}
		idx = next
	}

	last.Exhausted = true
	logger.Warn("all strategies exhausted", "attempts", len(result.Attempts))
	return failed(result, last)
}

// nextContext returns the first rung after idx with another auth context.
func (o *Orchestrator) nextContext(idx int) int {
	next := idx + 1
	for next < len(o.ladder) && o.ladder[next].sameContext(o.ladder[idx]) {
		next++
	}
	return next
}

// attempt runs one backend call under the attempt timeout.
func (o *Orchestrator) attempt(
	ctx context.Context,
	url string,
	idx int,
	strategy Strategy,
	try int,
) (model.AcquisitionAttempt, Response) {
	actx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	started := time.Now()
	resp := o.backend.Download(actx, Request{
		URL:                url,
		Auth:               strategy.Auth,
		Profile:            strategy.Profile,
		PlayerClients:      strategy.PlayerClients,
		Quality:            o.quality,
		ResumeFragments:    true,
		OutputDir:          o.outputDir,
		AllowSkipFragments: o.allowSkipFragments,
		FragmentRetries:    o.fragmentRetries,
	})
	elapsed := time.Since(started)

	class := resp.Class
	msg := resp.Message
	switch {
	case class == model.ClassSuccess && resp.Path == "":
		class, msg = model.ClassTransient, "backend reported success without an artifact"
	case class != model.ClassSuccess && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded):
		class, msg = model.ClassTransient, "attempt timed out after "+o.attemptTimeout.String()
	case !knownClass(class):
		class = model.ClassTransient
	}

	o.logger.Debug("attempt finished",
		"url", url,
		"strategy", idx,
		"auth", strategy.Auth,
		"clients", strategy.PlayerClients,
		"try", try,
		"class", class,
		"elapsed", elapsed,
	)

	return model.AcquisitionAttempt{
		URL:           url,
		StrategyIndex: idx,
		Auth:          strategy.Auth,
		Try:           try,
		Outcome:       model.OutcomeOf(class),
		Class:         class,
		Message:       msg,
		Duration:      elapsed,
	}, resp
}

func (o *Orchestrator) succeed(
	ctx context.Context,
	logger *slog.Logger,
	link model.RawLink,
	result model.AcquisitionResult,
	path string,
) model.AcquisitionResult {
	result.State = model.StateSucceeded
	result.ArtifactPath = path

	// Finish the bookkeeping for a file already on disk after a stop request.
	ctx = context.WithoutCancel(ctx)
	if o.tagger != nil {
		tagged, err := o.tagger.Tag(ctx, path)
		if err != nil {
			logger.Warn("post-processing failed, keeping original file", "path", path, "error", err)
		} else if tagged != "" {
			result.ArtifactPath = tagged
		}
	}

	if o.archive != nil && result.ContentID != "" {
		if err := o.archive.Record(ctx, link, result); err != nil {
			logger.Warn("failed to record download in archive", "error", err)
		}
	}

	logger.Info("downloaded", "path", result.ArtifactPath, "attempts", len(result.Attempts))
	return result
}

func (o *Orchestrator) skipArchived(ctx context.Context, contentID string) bool {
	if o.archive == nil || contentID == "" {
		return false
	}
	ok, err := o.archive.Has(ctx, contentID)
	if err != nil {
		o.logger.Warn("archive lookup failed", "content_id", contentID, "error", err)
		return false
	}
	return ok
}

func pendingResult(url string) model.AcquisitionResult {
	return model.AcquisitionResult{URL: url, State: model.StatePending}
}

func cancelled(r model.AcquisitionResult) model.AcquisitionResult {
	r.State = model.StatePending
	r.Error = msgCancelled
	return r
}

func failed(r model.AcquisitionResult, err *AttemptError) model.AcquisitionResult {
	r.State = model.StateFailed
	r.Error = err.Error()
	return r
}

func knownClass(c model.OutcomeClass) bool {
	switch c {
	case model.ClassSuccess, model.ClassAuthRequired, model.ClassForbidden,
		model.ClassTransient, model.ClassUnsupported:
		return true
	default:
		return false
	}
}

// uniqueLinks drops repeated URLs, keeping first position.
func uniqueLinks(links []model.RawLink) []model.RawLink {
	seen := make(map[string]struct{}, len(links))
	out := make([]model.RawLink, 0, len(links))
	for _, l := range links {
		if _, ok := seen[l.URL]; ok {
			continue
		}
		seen[l.URL] = struct{}{}
		out = append(out, l)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
