package acquire

import (
	"errors"
	"fmt"

	"github.com/nao1215/tabgroupdl/internal/model"
)

var (
	// ErrDuplicateResult is returned when a URL is recorded twice.
	ErrDuplicateResult = errors.New("result already recorded for url")

	// ErrEmptyLadder is returned when the orchestrator has no strategies.
	ErrEmptyLadder = errors.New("strategy ladder is empty")

	// ErrNilBackend is returned when the orchestrator has no backend.
	ErrNilBackend = errors.New("backend is nil")
)

// AttemptError describes the attempt that ended a URL's ladder.
type AttemptError struct {
	// Class is the outcome class of the last attempt.
	Class model.OutcomeClass

	// StrategyIndex is the ladder rung of the last attempt.
	StrategyIndex int

	// Message is the backend's reason.
	Message string

	// Exhausted is true when every strategy was used up.
	Exhausted bool
}

// Error implements the error interface. The text starts with the
// sentinels returned by Unwrap, e.g.
// "unsupported format: strategy 0: unsupported-format: no formats".
func (e *AttemptError) Error() string {
	msg := fmt.Sprintf("strategy %d: %s", e.StrategyIndex, e.Class)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	errs := e.Unwrap()
	for i := len(errs) - 1; i >= 0; i-- {
		msg = errs[i].Error() + ": " + msg
	}
	return msg
}

// Unwrap returns the sentinels matching the attempt class, so errors.Is
// works with the model taxonomy.
func (e *AttemptError) Unwrap() []error {
	var errs []error
	if e.Exhausted {
		errs = append(errs, model.ErrStrategyExhausted)
	}
	if err := classError(e.Class); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// classError maps an outcome class onto its model sentinel.
func classError(c model.OutcomeClass) error {
	switch {
	case c.IsAuthFailure():
		return model.ErrAttemptAuthRequired
	case c == model.ClassTransient:
		return model.ErrAttemptTransient
	case c == model.ClassUnsupported:
		return model.ErrAttemptUnsupported
	default:
		return nil
	}
}
