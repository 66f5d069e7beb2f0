// File: internal/extract/extract_test.go
package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
)

const snapshot = `<!DOCTYPE html>
<html><body>
<div class="transition-content" id="content-1">
  <section class="question" id="question-QID3">
    <div class="question-display">What is
      your name?</div>
    <input type="text" id="form-text-input-QID3-1">
    <input type="text" id="form-text-input-QID3-2">
    <input type="text" id="form-text-input-QID3-3">
  </section>
  <section class="question" id="question-QID6">
    <div class="question-display">Do you have a Clipper card?</div>
    <input type="radio" id="mc-choice-input-QID6-1" name="QID6">
    <input type="radio" id="mc-choice-input-QID6-2" name="QID6">
  </section>
  <section class="question" id="question-QID8">
    <div class="question-display">Where was your card issued?</div>
    <div role="combobox" id="QID8"></div>
  </section>
  <section class="question" id="question-QID12">
    <div class="question-display">What languages do you speak?</div>
    <input type="checkbox" id="mc-choice-input-QID12-1">
    <input type="checkbox" id="mc-choice-input-QID12-2">
    <input type="text" id="other-text">
  </section>
  <section class="other-thing" id="question-QID99"></section>
</div>
</body></html>`

func TestFromReader(t *testing.T) {
	qs, err := FromReader(strings.NewReader(snapshot))
	require.NoError(t, err)
	require.Len(t, qs, 4)

	assert.Equal(t, "QID3", qs[0].ID)
	assert.Equal(t, "What is your name?", qs[0].Heading)
	assert.Equal(t, 3, qs[0].Texts)

	assert.Equal(t, "QID6", qs[1].ID)
	assert.Equal(t, 2, qs[1].Radios)

	assert.Equal(t, "QID8", qs[2].ID)
	assert.Equal(t, 1, qs[2].Combos)

	assert.Equal(t, "QID12", qs[3].ID)
	assert.Equal(t, 2, qs[3].Checks)
	assert.Equal(t, 1, qs[3].Texts)
}

func TestInferKind(t *testing.T) {
	assert.Equal(t, mapping.KindMultiText, InferKind(Question{Texts: 3}))
	assert.Equal(t, mapping.KindFreeText, InferKind(Question{Texts: 1}))
	assert.Equal(t, mapping.KindSingleChoice, InferKind(Question{Radios: 4}))
	assert.Equal(t, mapping.KindSingleChoiceYN, InferKind(Question{Radios: 2, Heading: "Do you have a Clipper card?"}))
	assert.Equal(t, mapping.KindSingleChoice, InferKind(Question{Radios: 2, Heading: "Which fare category?"}))
	// Choice affordances win over the companion text input.
	assert.Equal(t, mapping.KindMultiChoice, InferKind(Question{Checks: 2, Texts: 1}))
	assert.Equal(t, mapping.KindSearchableList, InferKind(Question{Combos: 1, Texts: 1}))
}

func TestSuggestTableCompiles(t *testing.T) {
	qs, err := FromReader(strings.NewReader(snapshot))
	require.NoError(t, err)

	tbl := SuggestTable(qs)
	require.NoError(t, tbl.Compile())
	require.Len(t, tbl.Patterns, 4)

	assert.Equal(t, mapping.KindMultiText, tbl.Patterns[0].Kind)
	assert.Len(t, tbl.Patterns[0].FieldSets, 3)
	assert.Equal(t, mapping.KindSingleChoiceYN, tbl.Patterns[1].Kind)
	assert.Equal(t, "QID8", tbl.Patterns[2].Group)

	// The suggested matcher must hit its own heading.
	assert.True(t, tbl.Patterns[1].Regexp().MatchString("Do you have a Clipper card?"))
}
