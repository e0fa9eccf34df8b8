package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the harvest
// accumulated by the previous steps.
type Step interface {
	// Do executes the pipeline step.
	// Non-critical problems (one unreadable file, one corrupt source)
	// are recorded in the harvest and Do returns nil.
	Do(ctx context.Context, harvest *model.Harvest) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The error is still recorded in the harvest.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; steps handle their own
// timeouts. It returns the first step error unless continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, harvest *model.Harvest) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("extraction cancelled",
				"step", step.Name(),
				"profile", harvest.Profile.String(),
				"reason", ctx.Err(),
			)
			harvest.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"profile", harvest.Profile.String(),
		)

		if err := step.Do(ctx, harvest); err != nil {
			p.logger.Warn("step failed",
				"step", step.Name(),
				"profile", harvest.Profile.String(),
				"error", err,
			)

			harvest.Error = err
			harvest.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		}

		harvest.PerformedSteps = append(harvest.PerformedSteps, step.Name())
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
