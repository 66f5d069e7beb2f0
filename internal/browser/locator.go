// File: internal/browser/locator.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
)

// jsHelpers is the shared prelude for every in-page evaluation. Visibility
// here means what a user could actually interact with: rendered, non-zero
// size, inside the active transition container, not behind the portal
// overlay. The overlay only blocks interaction; it does not make a control
// absent.
const jsHelpers = `
const overlayBlocking = () => {
  const ov = document.querySelector('.portal .overlay');
  if (!ov) return false;
  const st = getComputedStyle(ov);
  if (st.display === 'none' || st.visibility === 'hidden') return false;
  return parseFloat(st.opacity || '1') > 0.05;
};
const inActiveContent = (el) => {
  const c = el.closest('.transition-content[id^="content-"]');
  if (!c) return true;
  const st = getComputedStyle(c);
  return st.display !== 'none' && st.visibility !== 'hidden';
};
const isActive = (el) => {
  if (!el || !el.isConnected) return false;
  const st = getComputedStyle(el);
  if (st.display === 'none' || st.visibility === 'hidden') return false;
  if (parseFloat(st.opacity || '1') === 0) return false;
  const r = el.getBoundingClientRect();
  if (r.width <= 0 || r.height <= 0) return false;
  return inActiveContent(el);
};
const activeContentID = () => {
  for (const c of document.querySelectorAll('.transition-content[id^="content-"]')) {
    const st = getComputedStyle(c);
    if (st.display !== 'none' && st.visibility !== 'hidden') return c.id;
  }
  return '';
};
`

// expr wraps a body in an arrow IIFE with the helper prelude; the body must
// end in a return statement.
func expr(body string) string {
	return "(() => {" + jsHelpers + body + "})()"
}

// eval runs an expression under a bounded context and decodes into out.
func (s *Session) eval(timeout time.Duration, body string, out interface{}) error {
	return s.run(timeout, chromedp.Evaluate(expr(body), out))
}

// IsVisible reports whether the first match of sel is interactable.
func (s *Session) IsVisible(sel string) (bool, error) {
	var visible bool
	err := s.eval(s.cfg.Network.ElementTimeout,
		fmt.Sprintf(`return isActive(document.querySelector(%q));`, sel), &visible)
	if err != nil {
		return false, fmt.Errorf("visibility check for %s failed: %w", sel, err)
	}
	return visible, nil
}

// GroupPresent reports whether a question group is on the active page. The
// check is two-tier: a visible section counts, and so does at least one
// visible member control even when the section wrapper itself reports no
// box (some layouts collapse it).
func (s *Session) GroupPresent(group string) (bool, error) {
	body := fmt.Sprintf(`
if (isActive(document.querySelector(%q))) return true;
for (const el of document.querySelectorAll(%q)) {
  if (isActive(el)) return true;
}
for (const el of document.querySelectorAll(%q)) {
  if (isActive(el)) return true;
}
return false;`,
		mapping.SectionSelector(group),
		mapping.ChoiceGroupSelector(group),
		mapping.TextGroupSelector(group),
	)
	var present bool
	if err := s.eval(s.cfg.Network.ElementTimeout, body, &present); err != nil {
		return false, fmt.Errorf("group presence check for %s failed: %w", group, err)
	}
	return present, nil
}

// OverlayBlocking reports whether the transition overlay is intercepting
// pointer input.
func (s *Session) OverlayBlocking() (bool, error) {
	var blocking bool
	if err := s.eval(s.cfg.Network.ElementTimeout, `return overlayBlocking();`, &blocking); err != nil {
		return false, fmt.Errorf("overlay check failed: %w", err)
	}
	return blocking, nil
}

// WaitVisible polls until sel is interactable or the element budget runs
// out.
func (s *Session) WaitVisible(sel string) error {
	ok, err := s.pollUntil(s.cfg.Network.ElementTimeout, func(context.Context) (bool, error) {
		return s.IsVisible(sel)
	}, nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("element %s did not become visible within %s", sel, s.cfg.Network.ElementTimeout)
	}
	return nil
}

// AwaitOverlayGone polls until the transition overlay stops blocking input.
// Running out of budget is not an error; the caller proceeds and lets the
// interaction itself fail if the overlay truly never lifts.
func (s *Session) AwaitOverlayGone() {
	_, err := s.pollUntil(s.cfg.Network.OverlayTimeout, func(context.Context) (bool, error) {
		blocking, err := s.OverlayBlocking()
		return !blocking, err
	}, nil)
	if err != nil {
		s.logger.Debug("Overlay wait failed.", zap.Error(err))
	}
}
