// File: internal/plan/print.go
package plan

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON emits the plan as indented JSON for machine consumption.
func WriteJSON(w io.Writer, actions []Action) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(actions)
}

// WriteText emits a one-line-per-action human-readable rendering.
func WriteText(w io.Writer, actions []Action) error {
	for i, a := range actions {
		if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, formatAction(a)); err != nil {
			return err
		}
	}
	return nil
}

func formatAction(a Action) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(string(a.Kind)))

	switch a.Kind {
	case KindNavigate:
		fmt.Fprintf(&b, "  %s", a.Value)
	case KindType:
		fmt.Fprintf(&b, "      %s = %q", a.Selector, a.Value)
	case KindClick, KindCheck:
		fmt.Fprintf(&b, "     %s", a.Selector)
		if a.Label != "" {
			fmt.Fprintf(&b, " (%s)", a.Label)
		}
	case KindChoose:
		fmt.Fprintf(&b, "    %s -> %q", a.Selector, a.Value)
	case KindSkip:
		fmt.Fprintf(&b, "      %s: %s", a.Group, a.Reason)
		if len(a.Unmatched) != 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(a.Unmatched, ", "))
		}
	case KindInfo:
		fmt.Fprintf(&b, "      %s", a.Reason)
		if len(a.Unmatched) != 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(a.Unmatched, ", "))
		}
	}

	if a.Field != "" && a.Kind != KindInfo {
		fmt.Fprintf(&b, "  [from %q]", a.Field)
	}
	return b.String()
}
