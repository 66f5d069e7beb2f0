// File: internal/orchestrator/orchestrator.go

// Package orchestrator iterates respondent rows, giving each its own
// browser session and recovering row-level failures so one bad row never
// takes the run down. Config problems are different: they surface before
// any row starts and abort everything.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/xkilldash9x/surveyfill-cli/internal/classify"
	"github.com/xkilldash9x/surveyfill-cli/internal/config"
	"github.com/xkilldash9x/surveyfill-cli/internal/driver"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// Page is a live survey session: everything the driver needs plus lifecycle.
type Page interface {
	driver.Page
	Navigate(url string) error
	Close()
}

// PageFactory opens a fresh session for one row.
type PageFactory func(ctx context.Context) (Page, error)

// Orchestrator runs the selected rows through the survey.
type Orchestrator struct {
	cfg        *config.Config
	classifier *classify.Classifier
	newPage    PageFactory
	logger     *zap.Logger
}

// New builds an Orchestrator.
func New(cfg *config.Config, classifier *classify.Classifier, newPage PageFactory, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		classifier: classifier,
		newPage:    newPage,
		logger:     logger.Named("orchestrator"),
	}
}

// SelectRows resolves the run flags to 0-based row indices. Out-of-range
// selections are configuration errors.
func SelectRows(cfg config.RunConfig, total int) ([]int, error) {
	if total == 0 {
		return nil, fmt.Errorf("CSV contains no data rows")
	}

	if cfg.AllRows {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	if cfg.RowStart >= 0 || cfg.RowEnd >= 0 {
		if cfg.RowStart < 0 || cfg.RowEnd < cfg.RowStart {
			return nil, fmt.Errorf("row range %d..%d is not ascending", cfg.RowStart, cfg.RowEnd)
		}
		if cfg.RowEnd >= total {
			return nil, fmt.Errorf("row range %d..%d exceeds %d rows", cfg.RowStart, cfg.RowEnd, total)
		}
		var out []int
		for i := cfg.RowStart; i <= cfg.RowEnd; i++ {
			out = append(out, i)
		}
		return out, nil
	}

	if cfg.RowIndex < 0 || cfg.RowIndex >= total {
		return nil, fmt.Errorf("row index %d out of range (%d rows)", cfg.RowIndex, total)
	}
	return []int{cfg.RowIndex}, nil
}

// Run fills the survey for every selected row and returns the accumulated
// report. Parallelism above 1 lets rows overlap, each still in its own
// session.
func (o *Orchestrator) Run(ctx context.Context, rows []rowdata.Row) (*Report, error) {
	indices, err := SelectRows(o.cfg.Run, len(rows))
	if err != nil {
		return nil, err
	}

	report := NewReport()
	sem := semaphore.NewWeighted(int64(o.cfg.Run.Parallelism))

	for _, idx := range indices {
		if err := sem.Acquire(ctx, 1); err != nil {
			report.Add(RowResult{Index: idx, Err: fmt.Errorf("run cancelled: %w", err)})
			continue
		}
		go func(idx int) {
			defer sem.Release(1)
			report.Add(o.runRow(ctx, idx, rows[idx]))
		}(idx)
	}

	// Draining the semaphore waits for every in-flight row.
	if err := sem.Acquire(ctx, int64(o.cfg.Run.Parallelism)); err != nil {
		return report, fmt.Errorf("wait for rows: %w", err)
	}
	sem.Release(int64(o.cfg.Run.Parallelism))

	report.Log(o.logger)
	return report, nil
}

// runRow fills the survey for one row. Panics and errors are contained
// here; the caller only sees a RowResult.
func (o *Orchestrator) runRow(ctx context.Context, idx int, row rowdata.Row) (result RowResult) {
	result.Index = idx
	logger := o.logger.With(zap.Int("row", idx))

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("row %d panicked: %v", idx, r)
			logger.Error("Row panicked.", zap.Any("panic", r))
		}
	}()

	page, err := o.newPage(ctx)
	if err != nil {
		result.Err = fmt.Errorf("row %d: session open failed: %w", idx, err)
		return result
	}
	defer page.Close()

	logger.Info("Starting row.", zap.String("url", o.cfg.Run.StartURL))
	if err := page.Navigate(o.cfg.Run.StartURL); err != nil {
		result.Err = fmt.Errorf("row %d: %w", idx, err)
		return result
	}

	d := driver.New(page, o.classifier, o.cfg.Run, logger)
	outcome, err := d.FillRow(row)
	result.Outcome = outcome
	if err != nil {
		result.Err = fmt.Errorf("row %d: %w", idx, err)
		logger.Error("Row failed.", zap.Error(err))
	} else {
		logger.Info("Row finished.",
			zap.Bool("completed", outcome.Completed),
			zap.Int("transitions", outcome.Transitions),
			zap.Int("skipped", len(outcome.Skipped)))
	}
	return result
}
