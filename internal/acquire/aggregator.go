package acquire

import (
	"fmt"
	"sync"

	"github.com/nao1215/tabgroupdl/internal/model"
)

// Summary holds the counts of a run.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
	Archived  int `json:"archived"`
	Attempts  int `json:"attempts"`
}

// Aggregator collects one result per URL. It is safe for concurrent use.
type Aggregator struct {
	mu      sync.Mutex
	order   []string
	results map[string]model.AcquisitionResult
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		results: make(map[string]model.AcquisitionResult),
	}
}

// Record stores the result for its URL. A second result for the same URL is
// rejected with ErrDuplicateResult.
func (a *Aggregator) Record(r model.AcquisitionResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.results[r.URL]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateResult, r.URL)
	}
	a.order = append(a.order, r.URL)
	a.results[r.URL] = copyResult(r)
	return nil
}

// Result returns a copy of the result for url.
func (a *Aggregator) Result(url string) (model.AcquisitionResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.results[url]
	if !ok {
		return model.AcquisitionResult{}, false
	}
	return copyResult(r), true
}

// Results returns copies of all results in record order.
func (a *Aggregator) Results() []model.AcquisitionResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.AcquisitionResult, 0, len(a.order))
	for _, url := range a.order {
		out = append(out, copyResult(a.results[url]))
	}
	return out
}

// Summary returns the counts over all recorded results.
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{Total: len(a.results)}
	for _, r := range a.results {
		switch r.State {
		case model.StateSucceeded:
			s.Succeeded++
		case model.StateFailed:
			s.Failed++
		default:
			s.Pending++
		}
		if r.Archived {
			s.Archived++
		}
		s.Attempts += len(r.Attempts)
	}
	return s
}

func copyResult(r model.AcquisitionResult) model.AcquisitionResult {
	if r.Attempts != nil {
		r.Attempts = append([]model.AcquisitionAttempt(nil), r.Attempts...)
	}
	return r
}
