// File: internal/mapping/mapping.go

// Package mapping defines the question-pattern table that binds survey
// question headings to interaction kinds and row fields. The table is
// ordered; the first matching pattern wins, so ambiguity between entries is
// a configuration defect rather than a runtime condition.
package mapping

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Kind enumerates the interaction a matched question requires.
type Kind string

const (
	KindSingleChoice   Kind = "single-choice"
	KindSingleChoiceYN Kind = "single-choice-yn"
	KindMultiChoice    Kind = "multi-choice"
	KindSearchableList Kind = "searchable-list"
	KindFreeText       Kind = "free-text"
	KindMultiText      Kind = "multi-text"
	KindCommunications Kind = "communications"
)

var validKinds = map[Kind]bool{
	KindSingleChoice:   true,
	KindSingleChoiceYN: true,
	KindMultiChoice:    true,
	KindSearchableList: true,
	KindFreeText:       true,
	KindMultiText:      true,
	KindCommunications: true,
}

// Pattern binds a heading matcher to an interaction kind and the row fields
// that feed it.
type Pattern struct {
	// Match is a case-insensitive regular expression applied to the
	// normalized question heading.
	Match string `yaml:"match"`
	Kind  Kind   `yaml:"kind"`

	// Fields lists candidate header names for the value, tried in order.
	Fields []string `yaml:"fields,omitempty"`
	// FieldSets lists candidates per input slot for multi-text questions
	// (for example first/middle/last name on a three-input group).
	FieldSets [][]string `yaml:"field_sets,omitempty"`

	// Group is the question's control-group id (for example "QID10"). Choice
	// inputs and per-slot text inputs derive their element ids from it.
	Group string `yaml:"group,omitempty"`
	// Selector is an explicit CSS selector for free-text controls that do
	// not follow the group id convention.
	Selector string `yaml:"selector,omitempty"`

	// Values translates canonical row values to option indices within the
	// group. When empty, choices are matched against live option labels.
	Values map[string]string `yaml:"values,omitempty"`

	// OtherIndex is the option index of the group's "other" choice. When
	// set, values that fail translation select that option and type the raw
	// value into its companion text field.
	OtherIndex string `yaml:"other_index,omitempty"`
	// OtherTextSelector overrides the derived companion text selector.
	OtherTextSelector string `yaml:"other_text_selector,omitempty"`

	// Delimiters are the token separators for multi-choice values. Empty
	// means the default set (semicolon, comma, pipe).
	Delimiters string `yaml:"delimiters,omitempty"`

	re *regexp.Regexp
}

// Regexp returns the compiled matcher. Compile must have been called.
func (p *Pattern) Regexp() *regexp.Regexp { return p.re }

// HasOtherSlot reports whether an unmapped value can be diverted to an
// "other" choice with a companion free-text field.
func (p *Pattern) HasOtherSlot() bool {
	return p.OtherIndex != "" || p.OtherTextSelector != ""
}

// Table is the ordered pattern list.
type Table struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Compile validates every pattern and compiles its matcher. Any failure here
// is a configuration defect and aborts the run.
func (t *Table) Compile() error {
	for i := range t.Patterns {
		p := &t.Patterns[i]
		if p.Match == "" {
			return fmt.Errorf("pattern %d: match expression is required", i)
		}
		if !validKinds[p.Kind] {
			return fmt.Errorf("pattern %d (%q): unknown kind %q", i, p.Match, p.Kind)
		}
		re, err := regexp.Compile("(?is)" + p.Match)
		if err != nil {
			return fmt.Errorf("pattern %d (%q): %w", i, p.Match, err)
		}
		p.re = re

		switch p.Kind {
		case KindMultiText:
			if len(p.FieldSets) == 0 {
				return fmt.Errorf("pattern %d (%q): multi-text requires field_sets", i, p.Match)
			}
			if p.Group == "" {
				return fmt.Errorf("pattern %d (%q): multi-text requires a group", i, p.Match)
			}
		case KindFreeText:
			if p.Group == "" && p.Selector == "" {
				return fmt.Errorf("pattern %d (%q): needs a group or a selector", i, p.Match)
			}
		default:
			if p.Group == "" {
				return fmt.Errorf("pattern %d (%q): needs a group", i, p.Match)
			}
		}
		if p.Kind != KindMultiText && len(p.Fields) == 0 {
			return fmt.Errorf("pattern %d (%q): needs at least one field candidate", i, p.Match)
		}
	}
	return nil
}

// Load reads a pattern table from a YAML file and compiles it.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file: %w", err)
	}
	if len(t.Patterns) == 0 {
		return nil, fmt.Errorf("mapping file %s defines no patterns", path)
	}
	if err := t.Compile(); err != nil {
		return nil, err
	}
	return &t, nil
}
