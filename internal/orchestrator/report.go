// File: internal/orchestrator/report.go
package orchestrator

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/driver"
)

// RowResult is the outcome of one row, error included.
type RowResult struct {
	Index   int
	Outcome driver.Outcome
	Err     error
}

// Report accumulates row results across goroutines.
type Report struct {
	mu      sync.Mutex
	results []RowResult
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add records one row's result.
func (r *Report) Add(res RowResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// Results returns row results ordered by row index.
func (r *Report) Results() []RowResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]RowResult(nil), r.results...)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Completed counts rows that reached the survey's end marker.
func (r *Report) Completed() int {
	n := 0
	for _, res := range r.Results() {
		if res.Err == nil && res.Outcome.Completed {
			n++
		}
	}
	return n
}

// Failed counts rows that ended in an error.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results() {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Log writes the run summary: totals first, then each row's skips and
// failures so nothing silently dropped is lost.
func (r *Report) Log(logger *zap.Logger) {
	results := r.Results()
	logger.Info("Run summary.",
		zap.Int("rows", len(results)),
		zap.Int("completed", r.Completed()),
		zap.Int("failed", r.Failed()))

	for _, res := range results {
		if res.Err != nil {
			logger.Error("Row error.", zap.Int("row", res.Index), zap.Error(res.Err))
		}
		for _, skip := range res.Outcome.Skipped {
			logger.Warn("Skipped.",
				zap.Int("row", res.Index),
				zap.String("group", skip.Group),
				zap.String("reason", skip.Reason),
				zap.Strings("unmatched", skip.Unmatched))
		}
		for _, failure := range res.Outcome.Failures {
			logger.Warn("Tolerated failure.", zap.Int("row", res.Index), zap.String("detail", failure))
		}
	}
}
