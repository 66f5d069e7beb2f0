// File: internal/mapping/selectors.go
package mapping

import "fmt"

// Survey platform element conventions. Every interactive control on the
// rendered page derives its id from the question's group id, so selectors
// can be synthesized offline from the mapping table alone.
const (
	// NextButtonSelector is the forward-navigation control, present on every
	// page including gate and terminal screens.
	NextButtonSelector = "#next-button"
	// OverlaySelector is the transition overlay that blocks pointer input
	// while a page animates in.
	OverlaySelector = ".portal .overlay"
	// QuestionSectionSelector matches every question section on the page.
	QuestionSectionSelector = "section.question[id^='question-QID']"
	// HeadingSelector is the question heading inside a section.
	HeadingSelector = ".question-display"
	// ContentContainerSelector matches the per-page transition containers;
	// only one is active at a time.
	ContentContainerSelector = ".transition-content[id^=\"content-\"]"
)

// SectionSelector returns the selector of a question's enclosing section.
func SectionSelector(group string) string {
	return fmt.Sprintf("#question-%s", group)
}

// ChoiceInputSelector returns the selector of one radio or checkbox input
// within a group. Index is the platform's 1-based option index as a string.
func ChoiceInputSelector(group, index string) string {
	return fmt.Sprintf("#mc-choice-input-%s-%s", group, index)
}

// ChoiceGroupSelector matches every choice input of a group.
func ChoiceGroupSelector(group string) string {
	return fmt.Sprintf("input[id^='mc-choice-input-%s-']", group)
}

// ChoiceLabelSelector returns the label element wrapping one choice input;
// its text is the option's display label.
func ChoiceLabelSelector(group, index string) string {
	return fmt.Sprintf("label[for='mc-choice-input-%s-%s']", group, index)
}

// TextInputSelector returns the selector of the n-th (1-based) free-text
// input within a group.
func TextInputSelector(group string, n int) string {
	return fmt.Sprintf("#form-text-input-%s-%d", group, n)
}

// TextGroupSelector matches every free-text input of a group.
func TextGroupSelector(group string) string {
	return fmt.Sprintf("input[id^='form-text-input-%s-']", group)
}

// OtherText returns the selector of the companion free-text input that
// accompanies an "other" choice, unless the pattern overrides it explicitly.
func (p *Pattern) OtherText() string {
	if p.OtherTextSelector != "" {
		return p.OtherTextSelector
	}
	return fmt.Sprintf("#question-%s input[type='text']", p.Group)
}

// ComboboxSelector returns the trigger element of a searchable list.
func ComboboxSelector(group string) string {
	return fmt.Sprintf("div[role='combobox']#%s", group)
}

// MenuSelector returns the popup option list of a searchable list.
func MenuSelector(group string) string {
	return fmt.Sprintf("ul#select-menu-%s", group)
}

// MenuItemSelector matches the options inside an open searchable list.
func MenuItemSelector(group string) string {
	return fmt.Sprintf("ul#select-menu-%s li.menu-item", group)
}
