// File: internal/browser/execute.go
package browser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/plan"
)

// Execute performs one planned action against the live page. Skip and info
// actions are audit records; they log and succeed without touching the DOM.
func (s *Session) Execute(a plan.Action) error {
	switch a.Kind {
	case plan.KindNavigate:
		return s.Navigate(a.Value)

	case plan.KindType:
		return s.TypeText(a.Selector, a.Value)

	case plan.KindClick:
		// A prefix selector means the option index was unknown offline; the
		// choice is resolved against rendered labels instead.
		if strings.Contains(a.Selector, "id^=") {
			return s.SelectChoiceByLabel(a.Group, a.Label)
		}
		return s.SelectChoice(a.Selector)

	case plan.KindCheck:
		return s.CheckChoice(a.Selector)

	case plan.KindChoose:
		return s.ChooseFromList(a.Group, a.Value)

	case plan.KindSkip:
		s.logger.Warn("Skipping question.",
			zap.String("group", a.Group),
			zap.String("reason", a.Reason),
			zap.Strings("unmatched", a.Unmatched))
		return nil

	case plan.KindInfo:
		s.logger.Info(a.Reason, zap.Strings("details", a.Unmatched))
		return nil
	}
	return fmt.Errorf("unknown action kind %q", a.Kind)
}
