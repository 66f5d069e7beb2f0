// File: internal/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/browser"
	"github.com/xkilldash9x/surveyfill-cli/internal/classify"
	"github.com/xkilldash9x/surveyfill-cli/internal/config"
	"github.com/xkilldash9x/surveyfill-cli/internal/driver"
	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/plan"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

func driverOutcome(completed bool) driver.Outcome {
	return driver.Outcome{Completed: completed}
}

func TestSelectRows(t *testing.T) {
	base := config.RunConfig{RowIndex: 0, RowStart: -1, RowEnd: -1}

	t.Run("single index", func(t *testing.T) {
		cfg := base
		cfg.RowIndex = 2
		got, err := SelectRows(cfg, 5)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, got)
	})

	t.Run("index out of range", func(t *testing.T) {
		cfg := base
		cfg.RowIndex = 5
		_, err := SelectRows(cfg, 5)
		assert.Error(t, err)
	})

	t.Run("range inclusive", func(t *testing.T) {
		cfg := base
		cfg.RowStart, cfg.RowEnd = 1, 3
		got, err := SelectRows(cfg, 5)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("range beyond end", func(t *testing.T) {
		cfg := base
		cfg.RowStart, cfg.RowEnd = 3, 9
		_, err := SelectRows(cfg, 5)
		assert.Error(t, err)
	})

	t.Run("descending range", func(t *testing.T) {
		cfg := base
		cfg.RowStart, cfg.RowEnd = 3, 1
		_, err := SelectRows(cfg, 5)
		assert.Error(t, err)
	})

	t.Run("all rows", func(t *testing.T) {
		cfg := base
		cfg.AllRows = true
		got, err := SelectRows(cfg, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, got)
	})

	t.Run("empty csv", func(t *testing.T) {
		_, err := SelectRows(base, 0)
		assert.Error(t, err)
	})
}

// stubPage completes immediately: the first scan sees the terminal marker.
type stubPage struct {
	failNavigate bool
	panicOnScan  bool
	closed       *atomic.Int32
}

func (p *stubPage) ScanVisibleQuestions() ([]browser.VisibleQuestion, error) {
	if p.panicOnScan {
		panic("scan exploded")
	}
	return nil, nil
}
func (p *stubPage) GroupPresent(string) (bool, error) { return true, nil }
func (p *stubPage) Execute(plan.Action) error         { return nil }
func (p *stubPage) Advance() (string, bool, error)    { return "", true, nil }
func (p *stubPage) Terminal() (bool, error)           { return !p.panicOnScan, nil }
func (p *stubPage) Navigate(string) error {
	if p.failNavigate {
		return errors.New("navigation refused")
	}
	return nil
}
func (p *stubPage) Close() { p.closed.Add(1) }

func testOrchestrator(t *testing.T, cfg *config.Config, factory PageFactory) *Orchestrator {
	t.Helper()
	tbl := &mapping.Table{Patterns: []mapping.Pattern{{
		Match:  `name`,
		Kind:   mapping.KindFreeText,
		Fields: []string{"Name"},
		Group:  "QID3",
	}}}
	require.NoError(t, tbl.Compile())
	return New(cfg, classify.New(tbl), factory, zap.NewNop())
}

func threeRows() []rowdata.Row {
	headers := []string{"Name"}
	return []rowdata.Row{
		rowdata.NewRow(headers, []string{"Ada"}),
		rowdata.NewRow(headers, []string{"Grace"}),
		rowdata.NewRow(headers, []string{"Edsger"}),
	}
}

func TestRunContinuesPastRowFailure(t *testing.T) {
	var closed atomic.Int32
	calls := 0
	factory := func(context.Context) (Page, error) {
		calls++
		// Second row's navigation fails; the run must still finish the rest.
		return &stubPage{failNavigate: calls == 2, closed: &closed}, nil
	}

	cfg := config.NewDefaultConfig()
	cfg.Run.AllRows = true
	cfg.Run.StartURL = "https://survey.example/start"
	o := testOrchestrator(t, cfg, factory)

	report, err := o.Run(context.Background(), threeRows())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Completed())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, int32(3), closed.Load(), "every session must be closed")
}

func TestRunRecoversPanic(t *testing.T) {
	var closed atomic.Int32
	factory := func(context.Context) (Page, error) {
		return &stubPage{panicOnScan: true, closed: &closed}, nil
	}

	cfg := config.NewDefaultConfig()
	cfg.Run.AllRows = true
	o := testOrchestrator(t, cfg, factory)

	report, err := o.Run(context.Background(), threeRows())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Failed())
	assert.Equal(t, int32(3), closed.Load())
	for _, res := range report.Results() {
		assert.ErrorContains(t, res.Err, "panicked")
	}
}

func TestRunParallelRowsAllComplete(t *testing.T) {
	var closed atomic.Int32
	factory := func(context.Context) (Page, error) {
		return &stubPage{closed: &closed}, nil
	}

	cfg := config.NewDefaultConfig()
	cfg.Run.AllRows = true
	cfg.Run.Parallelism = 3
	o := testOrchestrator(t, cfg, factory)

	report, err := o.Run(context.Background(), threeRows())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Completed())
	assert.Equal(t, 0, report.Failed())

	indices := []int{}
	for _, res := range report.Results() {
		indices = append(indices, res.Index)
	}
	assert.Equal(t, []int{0, 1, 2}, indices)
}

func TestReportCounts(t *testing.T) {
	r := NewReport()
	r.Add(RowResult{Index: 1, Outcome: driverOutcome(true)})
	r.Add(RowResult{Index: 0, Outcome: driverOutcome(false), Err: errors.New("boom")})

	assert.Equal(t, 1, r.Completed())
	assert.Equal(t, 1, r.Failed())
	results := r.Results()
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
}
