// File: internal/plan/plan.go

// Package plan builds an offline preview of the actions a run would take for
// one row, without touching a browser. The builder walks the pattern table
// in order and resolves each pattern against the row, so the output doubles
// as an audit of the mapping: every skip carries its reason and every value
// the mapping cannot place is listed rather than silently dropped.
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// Kind enumerates planned action types.
type Kind string

const (
	KindNavigate Kind = "navigate"
	KindType     Kind = "type"
	KindClick    Kind = "click"
	KindCheck    Kind = "check"
	KindChoose   Kind = "choose"
	KindSkip     Kind = "skip"
	KindInfo     Kind = "info"
)

// Action is one planned step. Skip actions always carry a Reason.
type Action struct {
	Kind      Kind     `json:"kind"`
	Selector  string   `json:"selector,omitempty"`
	Value     string   `json:"value,omitempty"`
	Field     string   `json:"field,omitempty"`
	Group     string   `json:"group,omitempty"`
	Label     string   `json:"label,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Unmatched []string `json:"unmatched,omitempty"`
}

// Build produces the action plan for one row. startURL may be empty when the
// caller only wants the fill steps.
func Build(table *mapping.Table, row rowdata.Row, startURL string) []Action {
	var actions []Action
	if startURL != "" {
		actions = append(actions, Action{Kind: KindNavigate, Value: startURL})
	}

	used := map[string]bool{}
	markUsed := func(candidates []string) {
		for _, cand := range candidates {
			want := rowdata.NormalizeCase(cand)
			for _, h := range row.Headers() {
				if rowdata.NormalizeCase(h) == want {
					used[h] = true
				}
			}
		}
	}

	for i := range table.Patterns {
		p := &table.Patterns[i]
		markUsed(p.Fields)
		for _, set := range p.FieldSets {
			markUsed(set)
		}
		actions = append(actions, planPattern(p, row)...)
	}

	if unused := unusedColumns(row, used); len(unused) != 0 {
		actions = append(actions, Action{
			Kind:      KindInfo,
			Reason:    "columns with data the mapping never references",
			Unmatched: unused,
		})
	}
	return actions
}

// ForPattern plans the actions for a single pattern against a row. The
// driver uses it with the live question's group id substituted in.
func ForPattern(p *mapping.Pattern, row rowdata.Row) []Action {
	return planPattern(p, row)
}

func planPattern(p *mapping.Pattern, row rowdata.Row) []Action {
	if p.Kind == mapping.KindMultiText {
		return planMultiText(p, row)
	}

	value, ok := row.Resolve(p.Fields...)
	if !ok {
		return []Action{{
			Kind:   KindSkip,
			Group:  p.Group,
			Field:  strings.Join(p.Fields, "|"),
			Reason: "no row value for any candidate field",
		}}
	}
	field := resolvedField(p.Fields, row)

	switch p.Kind {
	case mapping.KindFreeText:
		sel := p.Selector
		if sel == "" {
			sel = mapping.TextInputSelector(p.Group, 1)
		}
		return []Action{{Kind: KindType, Selector: sel, Value: value, Field: field, Group: p.Group}}

	case mapping.KindSingleChoice, mapping.KindSingleChoiceYN:
		return planSingleChoice(p, value, field)

	case mapping.KindMultiChoice:
		return planMultiChoice(p, value, field)

	case mapping.KindSearchableList:
		return []Action{{
			Kind:     KindChoose,
			Selector: mapping.ComboboxSelector(p.Group),
			Value:    value,
			Field:    field,
			Group:    p.Group,
		}}

	case mapping.KindCommunications:
		return planCommunications(p, value, field)
	}
	return nil
}

func planSingleChoice(p *mapping.Pattern, value, field string) []Action {
	lookup := value
	if p.Kind == mapping.KindSingleChoiceYN {
		if canonical, ok := mapping.NormalizeYesNo(value); ok {
			lookup = canonical
		}
	}

	if idx, label, ok := p.ResolveChoice(lookup); ok {
		return []Action{{
			Kind:     KindClick,
			Selector: mapping.ChoiceInputSelector(p.Group, idx),
			Field:    field,
			Group:    p.Group,
			Label:    label,
		}}
	}

	// No value map means the choice is matched against live option labels.
	if len(p.Values) == 0 {
		return []Action{{
			Kind:     KindClick,
			Selector: mapping.ChoiceGroupSelector(p.Group),
			Field:    field,
			Group:    p.Group,
			Label:    value,
		}}
	}

	if p.HasOtherSlot() {
		free, isOther := mapping.SplitOther(value)
		if !isOther {
			free = value
		}
		actions := []Action{{
			Kind:     KindClick,
			Selector: mapping.ChoiceInputSelector(p.Group, p.OtherIndex),
			Field:    field,
			Group:    p.Group,
			Label:    "Other",
		}}
		if free != "" {
			actions = append(actions, Action{
				Kind:     KindType,
				Selector: p.OtherText(),
				Value:    free,
				Field:    field,
				Group:    p.Group,
			})
		}
		return actions
	}

	return []Action{{
		Kind:   KindSkip,
		Group:  p.Group,
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf("value %q not mapped to an option", value),
	}}
}

func planMultiChoice(p *mapping.Pattern, value, field string) []Action {
	res := p.ResolveMulti(value)

	var actions []Action
	for i, idx := range res.Indices {
		actions = append(actions, Action{
			Kind:     KindCheck,
			Selector: mapping.ChoiceInputSelector(p.Group, idx),
			Field:    field,
			Group:    p.Group,
			Label:    res.Labels[i],
		})
	}
	if len(res.OtherTexts) != 0 {
		actions = append(actions, Action{
			Kind:     KindType,
			Selector: p.OtherText(),
			Value:    strings.Join(res.OtherTexts, ", "),
			Field:    field,
			Group:    p.Group,
		})
	}
	if len(res.Unmatched) != 0 {
		actions = append(actions, Action{
			Kind:      KindSkip,
			Group:     p.Group,
			Field:     field,
			Reason:    "tokens not mapped to any option",
			Unmatched: res.Unmatched,
		})
	}
	if len(actions) == 0 {
		actions = append(actions, Action{
			Kind:   KindSkip,
			Group:  p.Group,
			Field:  field,
			Reason: "no tokens in cell",
		})
	}
	return actions
}

func planMultiText(p *mapping.Pattern, row rowdata.Row) []Action {
	var actions []Action
	filled := 0
	for slot, set := range p.FieldSets {
		value, ok := row.Resolve(set...)
		if !ok {
			continue
		}
		filled++
		actions = append(actions, Action{
			Kind:     KindType,
			Selector: mapping.TextInputSelector(p.Group, slot+1),
			Value:    value,
			Field:    resolvedField(set, row),
			Group:    p.Group,
		})
	}
	if filled == 0 {
		actions = append(actions, Action{
			Kind:   KindSkip,
			Group:  p.Group,
			Reason: "no row value for any input slot",
		})
	}
	return actions
}

// planCommunications checks every option whose keyword appears in the cell.
// Indices are deduplicated because several keywords may map to one option.
func planCommunications(p *mapping.Pattern, value, field string) []Action {
	low := rowdata.NormalizeCase(value)
	seen := map[string]bool{}
	var actions []Action
	for _, keyword := range sortedKeys(p.Values) {
		idx := p.Values[keyword]
		if !strings.Contains(low, rowdata.NormalizeCase(keyword)) || seen[idx] {
			continue
		}
		seen[idx] = true
		actions = append(actions, Action{
			Kind:     KindCheck,
			Selector: mapping.ChoiceInputSelector(p.Group, idx),
			Field:    field,
			Group:    p.Group,
			Label:    keyword,
		})
	}
	if len(actions) == 0 {
		actions = append(actions, Action{
			Kind:   KindSkip,
			Group:  p.Group,
			Field:  field,
			Value:  value,
			Reason: "no communication keywords recognized",
		})
	}
	return actions
}

// resolvedField names the candidate header that actually supplied the value,
// for audit output.
func resolvedField(candidates []string, row rowdata.Row) string {
	for _, cand := range candidates {
		if _, ok := row.Resolve(cand); ok {
			return cand
		}
	}
	if len(candidates) != 0 {
		return candidates[0]
	}
	return ""
}

// sortedKeys keeps keyword iteration stable across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unusedColumns(row rowdata.Row, used map[string]bool) []string {
	var out []string
	for _, h := range row.Headers() {
		if used[h] {
			continue
		}
		if rowdata.NormalizeSpace(row.Get(h)) == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}
