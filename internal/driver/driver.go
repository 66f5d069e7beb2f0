// File: internal/driver/driver.go

// Package driver runs the per-row page state machine. Each iteration scans
// the visible questions, plans actions for the ones the mapping recognizes,
// executes them, and advances. The loop ends at a terminal marker, a stuck
// page, or the transition ceiling; only the first of those is success.
package driver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/browser"
	"github.com/xkilldash9x/surveyfill-cli/internal/classify"
	"github.com/xkilldash9x/surveyfill-cli/internal/config"
	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/plan"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// Page is the live-page surface the driver needs. browser.Session satisfies
// it; tests use a scripted fake.
type Page interface {
	ScanVisibleQuestions() ([]browser.VisibleQuestion, error)
	GroupPresent(group string) (bool, error)
	Execute(a plan.Action) error
	Advance() (sig string, changed bool, err error)
	Terminal() (bool, error)
}

// Sentinel failures of a row.
var (
	ErrStuck   = errors.New("page did not change across consecutive advances")
	ErrCeiling = errors.New("transition ceiling reached")
)

// state is the driver's position in the page loop.
type state int

const (
	stateScanning state = iota
	statePlanning
	stateActing
	stateAdvancing
	stateTerminal
	stateStuck
)

// Outcome summarizes one row's journey through the survey.
type Outcome struct {
	Completed   bool
	Transitions int
	// Skipped collects every skip action with its reason, for the run
	// report.
	Skipped []plan.Action
	// Failures are action-level errors that were tolerated; the page still
	// advanced past them.
	Failures []string
}

// Driver walks one session through the survey for one row.
type Driver struct {
	page       Page
	classifier *classify.Classifier
	cfg        config.RunConfig
	logger     *zap.Logger
}

// New builds a Driver.
func New(page Page, classifier *classify.Classifier, cfg config.RunConfig, logger *zap.Logger) *Driver {
	return &Driver{
		page:       page,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger.Named("driver"),
	}
}

// FillRow drives the survey to completion for one row. Action-level errors
// are tolerated and reported in the Outcome; the returned error is reserved
// for row-fatal conditions (stuck page, ceiling, scan failure).
func (d *Driver) FillRow(row rowdata.Row) (Outcome, error) {
	var out Outcome
	var questions []browser.VisibleQuestion
	var actions []plan.Action

	// Question groups already handled this row. Group ids are unique across
	// the survey, so the set survives page changes.
	handled := map[string]bool{}
	unchanged := 0
	acted := false

	st := stateScanning
	for {
		switch st {
		case stateScanning:
			if term, err := d.page.Terminal(); err != nil {
				return out, err
			} else if term {
				st = stateTerminal
				continue
			}
			if out.Transitions >= d.cfg.MaxTransitions {
				return out, fmt.Errorf("%w after %d transitions", ErrCeiling, out.Transitions)
			}
			var err error
			questions, err = d.page.ScanVisibleQuestions()
			if err != nil {
				return out, err
			}
			st = statePlanning

		case statePlanning:
			actions = d.planVisible(questions, row, handled, &out)
			acted = len(actions) > 0
			st = stateActing

		case stateActing:
			for _, a := range actions {
				if a.Kind == plan.KindSkip {
					out.Skipped = append(out.Skipped, a)
				}
				if err := d.page.Execute(a); err != nil {
					msg := fmt.Sprintf("%s %s: %v", a.Kind, a.Selector, err)
					d.logger.Warn("Action failed; continuing.",
						zap.String("kind", string(a.Kind)),
						zap.String("selector", a.Selector),
						zap.Error(err))
					out.Failures = append(out.Failures, msg)
				}
			}
			st = stateAdvancing

		case stateAdvancing:
			if !acted && !d.cfg.AutoAdvance {
				d.logger.Info("No visible question matched and auto-advance is off; stopping row.")
				return out, nil
			}
			_, changed, err := d.page.Advance()
			if err != nil {
				out.Failures = append(out.Failures, fmt.Sprintf("advance: %v", err))
			}
			out.Transitions++
			if changed {
				unchanged = 0
			} else {
				unchanged++
				if unchanged >= d.cfg.StuckThreshold {
					st = stateStuck
					continue
				}
			}
			st = stateScanning

		case stateTerminal:
			out.Completed = true
			d.logger.Info("Survey complete.", zap.Int("transitions", out.Transitions))
			return out, nil

		case stateStuck:
			return out, fmt.Errorf("%w (%d attempts)", ErrStuck, unchanged)
		}
	}
}

// planVisible builds the actions for every recognized, unhandled question
// currently on the page. Unrecognized questions become skip records.
func (d *Driver) planVisible(questions []browser.VisibleQuestion, row rowdata.Row, handled map[string]bool, out *Outcome) []plan.Action {
	var actions []plan.Action
	for _, q := range questions {
		if handled[q.ID] {
			continue
		}
		handled[q.ID] = true

		pattern, ok := d.classifier.Match(q.Heading)
		if !ok {
			skip := plan.Action{
				Kind:   plan.KindSkip,
				Group:  q.ID,
				Reason: fmt.Sprintf("heading %q matched no pattern", q.Heading),
			}
			out.Skipped = append(out.Skipped, skip)
			d.logger.Warn("Unclassified question.",
				zap.String("group", q.ID), zap.String("heading", q.Heading))
			continue
		}

		// The live page is authoritative for the group id; the mapping's id
		// is a default for offline planning.
		live := rebind(pattern, q.ID)

		if present, err := d.page.GroupPresent(q.ID); err != nil || !present {
			if err != nil {
				out.Failures = append(out.Failures, fmt.Sprintf("presence %s: %v", q.ID, err))
			}
			continue
		}

		actions = append(actions, plan.ForPattern(live, row)...)
	}
	return actions
}

// rebind clones a pattern onto the live group id so synthesized selectors
// target the page as rendered.
func rebind(p *mapping.Pattern, group string) *mapping.Pattern {
	if p.Group == group {
		return p
	}
	clone := *p
	clone.Group = group
	// An explicit companion selector keyed to the configured group would
	// point at the wrong section after rebinding; drop it and use the
	// derived one.
	if clone.OtherTextSelector != "" && p.Group != "" {
		clone.OtherTextSelector = ""
	}
	return &clone
}
