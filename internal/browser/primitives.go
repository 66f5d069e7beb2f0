// File: internal/browser/primitives.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/humanoid"
	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// ErrOptionNotFound reports that no rendered option matched the wanted
// value. Callers skip and report; they never guess.
var ErrOptionNotFound = errors.New("no option matched the value")

const comboAttempts = 3

// TypeText fills a text control with verified human-cadence typing. The
// read-back check catches frameworks that swallow synthetic key events; on a
// mismatch the value is set in bulk through JS with input and change events
// so the page's model still updates.
func (s *Session) TypeText(sel, text string) error {
	if err := s.pace(); err != nil {
		return err
	}
	s.AwaitOverlayGone()
	if err := s.WaitVisible(sel); err != nil {
		return err
	}

	if err := s.run(s.cfg.Network.ElementTimeout, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to focus %s: %w", sel, err)
	}
	if err := humanoid.Sleep(s.ctx, s.cadence.ThinkPause()); err != nil {
		return err
	}
	if err := s.clearField(sel); err != nil {
		return err
	}

	for _, r := range text {
		if err := humanoid.Sleep(s.ctx, s.cadence.KeyDelay()); err != nil {
			return err
		}
		err := s.run(s.cfg.Network.ElementTimeout,
			chromedp.SendKeys("document.activeElement", string(r), chromedp.ByJSPath))
		if err != nil {
			return fmt.Errorf("failed to type into %s: %w", sel, err)
		}
		if err := humanoid.Sleep(s.ctx, s.cadence.KeyHold()); err != nil {
			return err
		}
	}

	if err := s.run(s.cfg.Network.ElementTimeout,
		chromedp.SendKeys("document.activeElement", kb.Tab, chromedp.ByJSPath)); err != nil {
		return fmt.Errorf("failed to commit %s: %w", sel, err)
	}

	var got string
	if err := s.eval(s.cfg.Network.ElementTimeout,
		fmt.Sprintf(`const el = document.querySelector(%q); return el ? el.value : '';`, sel), &got); err != nil {
		return fmt.Errorf("failed to read back %s: %w", sel, err)
	}
	if !typedValueMatches(got, text) {
		s.logger.Debug("Typed value did not stick; setting in bulk.",
			zap.String("selector", sel), zap.String("got", got))
		if err := s.setValueJS(sel, text); err != nil {
			return err
		}
	}

	return s.blurClick()
}

// typedValueMatches compares a read-back value against the intended text
// with both sides whitespace-normalized, so a cosmetic difference does not
// trigger the bulk-set fallback.
func typedValueMatches(got, want string) bool {
	return rowdata.NormalizeSpace(got) == rowdata.NormalizeSpace(want)
}

// clearField empties a text control. The JS clear is tried first; if the
// value survives it, select-all plus delete is sent through the keyboard.
func (s *Session) clearField(sel string) error {
	var existing string
	if err := s.eval(s.cfg.Network.ElementTimeout,
		fmt.Sprintf(`const el = document.querySelector(%q); return el ? el.value : '';`, sel), &existing); err != nil {
		return fmt.Errorf("failed to inspect %s before clearing: %w", sel, err)
	}
	if existing == "" {
		return nil
	}

	if err := s.setValueJS(sel, ""); err != nil {
		return err
	}
	if err := s.eval(s.cfg.Network.ElementTimeout,
		fmt.Sprintf(`const el = document.querySelector(%q); return el ? el.value : '';`, sel), &existing); err != nil {
		return err
	}
	if existing == "" {
		return nil
	}

	return s.run(s.cfg.Network.ElementTimeout,
		chromedp.Click(sel, chromedp.ByQuery),
		chromedp.KeyEvent("a", chromedp.KeyModifiers(input.ModifierCtrl)),
		chromedp.KeyEvent(kb.Delete),
	)
}

// setValueJS assigns a value directly and fires the events a framework
// binds to.
func (s *Session) setValueJS(sel, value string) error {
	body := fmt.Sprintf(`
const el = document.querySelector(%q);
if (!el) return false;
el.value = %q;
el.dispatchEvent(new Event('input', {bubbles: true}));
el.dispatchEvent(new Event('change', {bubbles: true}));
return true;`, sel, value)
	var ok bool
	if err := s.eval(s.cfg.Network.ElementTimeout, body, &ok); err != nil {
		return fmt.Errorf("failed to set value on %s: %w", sel, err)
	}
	if !ok {
		return fmt.Errorf("element %s not found for value set", sel)
	}
	return nil
}

// blurClick clicks dead space near the viewport origin so focus leaves the
// control and pending validation runs.
func (s *Session) blurClick() error {
	return s.run(s.cfg.Network.ElementTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		down := input.DispatchMouseEvent(input.MousePressed, 10, 10).
			WithButton(input.Left).WithClickCount(1)
		if err := down.Do(ctx); err != nil {
			return err
		}
		up := input.DispatchMouseEvent(input.MouseReleased, 10, 10).
			WithButton(input.Left).WithClickCount(1)
		return up.Do(ctx)
	}))
}

// isChecked reads the checked state of a choice input.
func (s *Session) isChecked(sel string) (bool, error) {
	var checked bool
	err := s.eval(s.cfg.Network.ElementTimeout,
		fmt.Sprintf(`const el = document.querySelector(%q); return !!(el && el.checked);`, sel), &checked)
	if err != nil {
		return false, fmt.Errorf("failed to read checked state of %s: %w", sel, err)
	}
	return checked, nil
}

// SelectChoice clicks a radio input unless it is already selected, then
// verifies the selection took. Re-running it is a no-op.
func (s *Session) SelectChoice(sel string) error {
	if err := s.pace(); err != nil {
		return err
	}
	s.AwaitOverlayGone()
	if err := s.WaitVisible(sel); err != nil {
		return err
	}

	if checked, err := s.isChecked(sel); err != nil {
		return err
	} else if checked {
		s.logger.Debug("Choice already selected.", zap.String("selector", sel))
		return nil
	}

	if err := s.run(s.cfg.Network.ElementTimeout, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to click %s: %w", sel, err)
	}

	ok, err := s.pollUntil(s.cfg.Network.ElementTimeout, func(context.Context) (bool, error) {
		return s.isChecked(sel)
	}, nil)
	if err != nil {
		return err
	}
	if !ok {
		// Some skins put the click target on the label; fall back to a JS
		// click on the input itself.
		body := fmt.Sprintf(`const el = document.querySelector(%q); if (!el) return false; el.click(); return el.checked;`, sel)
		var checked bool
		if err := s.eval(s.cfg.Network.ElementTimeout, body, &checked); err != nil {
			return err
		}
		if !checked {
			return fmt.Errorf("selection of %s did not register", sel)
		}
	}
	return nil
}

// SelectChoiceByLabel resolves an option by its rendered label text within a
// group, then selects it. Matching is exact (case-insensitive) first, then
// substring.
func (s *Session) SelectChoiceByLabel(group, label string) error {
	body := fmt.Sprintf(`
const want = %q;
const opts = [];
for (const lab of document.querySelectorAll("label[for^='mc-choice-input-%s-']")) {
  const input = document.getElementById(lab.htmlFor);
  if (!input || !isActive(input)) continue;
  opts.push({id: lab.htmlFor, text: (lab.textContent || '').replace(/\s+/g, ' ').trim().toLowerCase()});
}
for (const o of opts) { if (o.text === want) return o.id; }
for (const o of opts) { if (o.text.includes(want)) return o.id; }
return '';`, rowdata.NormalizeCase(label), group)

	var id string
	if err := s.eval(s.cfg.Network.ElementTimeout, body, &id); err != nil {
		return fmt.Errorf("label lookup in group %s failed: %w", group, err)
	}
	if id == "" {
		return fmt.Errorf("group %s label %q: %w", group, label, ErrOptionNotFound)
	}
	return s.SelectChoice("#" + id)
}

// CheckChoice sets a checkbox to checked without toggling: an already
// checked box stays checked.
func (s *Session) CheckChoice(sel string) error {
	if err := s.pace(); err != nil {
		return err
	}
	s.AwaitOverlayGone()
	if err := s.WaitVisible(sel); err != nil {
		return err
	}

	if checked, err := s.isChecked(sel); err != nil {
		return err
	} else if checked {
		return nil
	}
	return s.SelectChoice(sel)
}

// ChooseFromList drives a searchable combobox: open, read the rendered
// options, match, click, verify. Opening escalates across attempts from a
// plain click to keyboard to synthetic events, with Escape between tries.
func (s *Session) ChooseFromList(group, value string) error {
	if err := s.pace(); err != nil {
		return err
	}
	s.AwaitOverlayGone()

	combo := mapping.ComboboxSelector(group)
	if err := s.WaitVisible(combo); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= comboAttempts; attempt++ {
		if err := s.openCombo(combo, attempt); err != nil {
			lastErr = err
			continue
		}
		if err := s.pickMenuItem(group, value); err != nil {
			lastErr = err
			if errors.Is(err, ErrOptionNotFound) {
				return err
			}
			s.escapeMenu()
			continue
		}

		done, err := s.comboShows(combo, value)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		lastErr = fmt.Errorf("combobox %s did not display %q after selection", combo, value)
		s.escapeMenu()
	}
	return fmt.Errorf("combobox selection failed after %d attempts: %w", comboAttempts, lastErr)
}

// openCombo tries to make the popup menu visible, escalating per attempt.
func (s *Session) openCombo(combo string, attempt int) error {
	switch attempt {
	case 1:
		if err := s.run(s.cfg.Network.ElementTimeout, chromedp.Click(combo, chromedp.ByQuery)); err != nil {
			return fmt.Errorf("combobox click failed: %w", err)
		}
	case 2:
		err := s.run(s.cfg.Network.ElementTimeout,
			chromedp.Focus(combo, chromedp.ByQuery),
			chromedp.KeyEvent(kb.Enter),
		)
		if err != nil {
			return fmt.Errorf("combobox keyboard open failed: %w", err)
		}
	default:
		body := fmt.Sprintf(`
const el = document.querySelector(%q);
if (!el) return false;
for (const type of ['pointerdown', 'mousedown', 'click']) {
  el.dispatchEvent(new MouseEvent(type, {bubbles: true}));
}
return true;`, combo)
		var ok bool
		if err := s.eval(s.cfg.Network.ElementTimeout, body, &ok); err != nil {
			return fmt.Errorf("combobox synthetic open failed: %w", err)
		}
		if !ok {
			return errors.New("combobox element missing for synthetic open")
		}
	}

	menu := mapping.MenuSelector(groupFromCombo(combo))
	open, err := s.pollUntil(s.cfg.Network.MenuTimeout, func(context.Context) (bool, error) {
		return s.IsVisible(menu)
	}, nil)
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("menu %s did not open", menu)
	}
	return nil
}

// pickMenuItem matches value against the rendered options and clicks the
// winner.
func (s *Session) pickMenuItem(group, value string) error {
	var texts []string
	body := fmt.Sprintf(`
const out = [];
for (const li of document.querySelectorAll(%q)) {
  out.push((li.textContent || '').replace(/\s+/g, ' ').trim());
}
return out;`, mapping.MenuItemSelector(group))
	if err := s.eval(s.cfg.Network.MenuTimeout, body, &texts); err != nil {
		return fmt.Errorf("failed to read menu options: %w", err)
	}

	idx := matchOption(texts, value)
	if idx < 0 {
		return fmt.Errorf("group %s value %q among %d options: %w", group, value, len(texts), ErrOptionNotFound)
	}

	click := fmt.Sprintf(`
const items = document.querySelectorAll(%q);
if (items.length <= %d) return false;
items[%d].click();
return true;`, mapping.MenuItemSelector(group), idx, idx)
	var ok bool
	if err := s.eval(s.cfg.Network.MenuTimeout, click, &ok); err != nil {
		return fmt.Errorf("failed to click menu option %d: %w", idx, err)
	}
	if !ok {
		return fmt.Errorf("menu option %d disappeared before click", idx)
	}
	return humanoid.Sleep(s.ctx, 150*time.Millisecond)
}

// matchOption picks the option index for a value: exact case-insensitive
// first, then substring either way.
func matchOption(options []string, value string) int {
	want := rowdata.NormalizeCase(value)
	for i, opt := range options {
		if rowdata.NormalizeCase(opt) == want {
			return i
		}
	}
	for i, opt := range options {
		norm := rowdata.NormalizeCase(opt)
		if strings.Contains(norm, want) || strings.Contains(want, norm) {
			return i
		}
	}
	return -1
}

// comboShows reports whether the combobox now displays the chosen value.
func (s *Session) comboShows(combo, value string) (bool, error) {
	var text string
	body := fmt.Sprintf(`const el = document.querySelector(%q); return el ? (el.textContent || '').replace(/\s+/g, ' ').trim() : '';`, combo)
	if err := s.eval(s.cfg.Network.ElementTimeout, body, &text); err != nil {
		return false, err
	}
	return strings.Contains(rowdata.NormalizeCase(text), rowdata.NormalizeCase(value)), nil
}

// escapeMenu closes a popup that is in the way before a retry.
func (s *Session) escapeMenu() {
	if err := s.run(s.cfg.Network.ElementTimeout, chromedp.KeyEvent(kb.Escape)); err != nil {
		s.logger.Debug("Escape dispatch failed.", zap.Error(err))
	}
}

// groupFromCombo recovers the group id from a combobox selector.
func groupFromCombo(combo string) string {
	if i := strings.LastIndex(combo, "#"); i >= 0 {
		return combo[i+1:]
	}
	return combo
}
