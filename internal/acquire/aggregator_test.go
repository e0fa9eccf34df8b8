package acquire

import (
	"errors"
	"testing"

	"github.com/nao1215/tabgroupdl/internal/model"
)

func TestAggregator_Record(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	first := model.AcquisitionResult{URL: urlA, State: model.StateSucceeded}
	if err := agg.Record(first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	err := agg.Record(model.AcquisitionResult{URL: urlA, State: model.StateFailed})
	if !errors.Is(err, ErrDuplicateResult) {
		t.Fatalf("second Record() error = %v, want ErrDuplicateResult", err)
	}

	got, ok := agg.Result(urlA)
	if !ok || got.State != model.StateSucceeded {
		t.Errorf("Result() = %+v, %v; first record must win", got, ok)
	}
	if _, ok := agg.Result(urlB); ok {
		t.Error("Result() found an unrecorded url")
	}
}

func TestAggregator_ResultsAreCopies(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	attempts := []model.AcquisitionAttempt{{URL: urlA, Class: model.ClassTransient}}
	if err := agg.Record(model.AcquisitionResult{URL: urlA, Attempts: attempts}); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's slice or a returned copy must not leak in.
	attempts[0].Class = model.ClassSuccess
	results := agg.Results()
	results[0].Attempts[0].Class = model.ClassUnsupported
	results[0].State = model.StateFailed

	got, _ := agg.Result(urlA)
	if got.Attempts[0].Class != model.ClassTransient {
		t.Errorf("stored attempt class = %s, want transient", got.Attempts[0].Class)
	}
	if got.State == model.StateFailed {
		t.Error("stored state changed through a returned copy")
	}
}

func TestAggregator_Summary(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	two := []model.AcquisitionAttempt{{}, {}}
	for _, r := range []model.AcquisitionResult{
		{URL: urlA, State: model.StateSucceeded, Attempts: two},
		{URL: urlB, State: model.StateFailed, Attempts: two[:1]},
		{URL: urlC, State: model.StatePending},
		{URL: "https://youtu.be/ddddddddddd", State: model.StateSucceeded, Archived: true},
	} {
		if err := agg.Record(r); err != nil {
			t.Fatal(err)
		}
	}

	want := Summary{Total: 4, Succeeded: 2, Failed: 1, Pending: 1, Archived: 1, Attempts: 3}
	if got := agg.Summary(); got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestAggregator_Empty(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	if got := agg.Results(); len(got) != 0 {
		t.Errorf("Results() = %v, want empty", got)
	}
	if got := agg.Summary(); got != (Summary{}) {
		t.Errorf("Summary() = %+v, want zero", got)
	}
}
