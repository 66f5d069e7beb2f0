// File: internal/browser/scan.go
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/humanoid"
	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// VisibleQuestion is one question section on the active page with counts of
// its control affordances.
type VisibleQuestion struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Radios  int    `json:"radios"`
	Checks  int    `json:"checks"`
	Texts   int    `json:"texts"`
	Combos  int    `json:"combos"`
}

// terminalMarkers are the end-of-survey phrases that mark a run complete.
var terminalMarkers = []string{
	"thank you for completing",
	"your responses have been recorded",
	"survey complete",
	"you have already completed",
}

// ScanVisibleQuestions inventories the question sections a user could see
// and interact with right now.
func (s *Session) ScanVisibleQuestions() ([]VisibleQuestion, error) {
	body := `
const out = [];
for (const sec of document.querySelectorAll("section.question[id^='question-QID']")) {
  if (!isActive(sec)) continue;
  const h = sec.querySelector('.question-display');
  out.push({
    id: sec.id.replace(/^question-/, ''),
    heading: h ? (h.textContent || '').replace(/\s+/g, ' ').trim() : '',
    radios: sec.querySelectorAll("input[type='radio']").length,
    checks: sec.querySelectorAll("input[type='checkbox']").length,
    texts: sec.querySelectorAll("input[type='text'], input[type='email'], input[type='tel'], textarea").length,
    combos: sec.querySelectorAll("div[role='combobox']").length,
  });
}
return out;`
	var questions []VisibleQuestion
	if err := s.eval(s.cfg.Network.ElementTimeout, body, &questions); err != nil {
		return nil, fmt.Errorf("question scan failed: %w", err)
	}
	return questions, nil
}

// Signature condenses the visible headings into a page identity string.
// Two scans of the same page produce the same signature even when the DOM
// re-renders, which is what advance detection and stuck detection key on.
func Signature(questions []VisibleQuestion) string {
	var parts []string
	for _, q := range questions {
		parts = append(parts, rowdata.NormalizeCase(q.Heading))
	}
	return strings.Join(parts, " || ")
}

// pageState reads the current signature and the active content container id
// in one round trip.
func (s *Session) pageState() (sig, contentID string, err error) {
	body := `
const parts = [];
for (const sec of document.querySelectorAll("section.question[id^='question-QID']")) {
  if (!isActive(sec)) continue;
  const h = sec.querySelector('.question-display');
  parts.push((h ? (h.textContent || '') : '').replace(/\s+/g, ' ').trim().toLowerCase());
}
return [parts.join(' || '), activeContentID()];`
	var state []string
	if err := s.eval(s.cfg.Network.ElementTimeout, body, &state); err != nil {
		return "", "", fmt.Errorf("page state read failed: %w", err)
	}
	if len(state) != 2 {
		return "", "", fmt.Errorf("page state read returned %d values", len(state))
	}
	return state[0], state[1], nil
}

// Terminal reports whether an end-of-survey marker is visible.
func (s *Session) Terminal() (bool, error) {
	var text string
	if err := s.eval(s.cfg.Network.ElementTimeout,
		`return (document.body.innerText || '').toLowerCase();`, &text); err != nil {
		return false, fmt.Errorf("terminal check failed: %w", err)
	}
	for _, marker := range terminalMarkers {
		if strings.Contains(text, marker) {
			return true, nil
		}
	}
	return false, nil
}

// nudgeTicks are the poll counts at which Advance re-clicks the forward
// control, for pages that eat the first click during a transition.
var nudgeTicks = map[int]bool{20: true, 40: true, 80: true}

// Advance clicks the forward control and waits for the page to actually
// change: either the question signature or the active content container
// must differ from the pre-click state. It returns the post-advance
// signature and whether anything changed within the budget.
func (s *Session) Advance() (string, bool, error) {
	prevSig, prevContent, err := s.pageState()
	if err != nil {
		return "", false, err
	}

	s.AwaitOverlayGone()
	if err := s.clickNext(); err != nil {
		return prevSig, false, err
	}

	changed, err := s.pollUntil(s.cfg.Network.AdvanceTimeout, func(context.Context) (bool, error) {
		sig, content, err := s.pageState()
		if err != nil {
			return false, err
		}
		return sig != prevSig || content != prevContent, nil
	}, func(count int) {
		if !nudgeTicks[count] {
			return
		}
		s.logger.Debug("Advance nudge.", zap.Int("poll", count))
		s.AwaitOverlayGone()
		if err := s.clickNext(); err != nil {
			s.logger.Debug("Nudge click failed.", zap.Error(err))
		}
	})
	if err != nil {
		return prevSig, false, err
	}
	if !changed {
		return prevSig, false, nil
	}

	if err := humanoid.Sleep(s.ctx, s.cfg.Network.SettleWait); err != nil {
		return prevSig, true, err
	}
	sig, _, err := s.pageState()
	if err != nil {
		return prevSig, true, err
	}
	return sig, true, nil
}

func (s *Session) clickNext() error {
	visible, err := s.IsVisible(mapping.NextButtonSelector)
	if err != nil {
		return err
	}
	if !visible {
		return fmt.Errorf("forward control %s is not visible", mapping.NextButtonSelector)
	}
	if err := s.run(s.cfg.Network.ElementTimeout,
		chromedp.Click(mapping.NextButtonSelector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to click forward control: %w", err)
	}
	return nil
}
