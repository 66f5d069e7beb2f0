// File: internal/driver/driver_test.go
package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/surveyfill-cli/internal/browser"
	"github.com/xkilldash9x/surveyfill-cli/internal/classify"
	"github.com/xkilldash9x/surveyfill-cli/internal/config"
	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/plan"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePage scripts a sequence of survey pages. Advance moves to the next
// page unless the current page is marked sticky.
type fakePage struct {
	pages    [][]browser.VisibleQuestion
	sticky   map[int]bool
	terminal int // page index that shows the end marker; -1 for never

	current  int
	executed []plan.Action
	advances int
}

func (f *fakePage) ScanVisibleQuestions() ([]browser.VisibleQuestion, error) {
	if f.current >= len(f.pages) {
		return nil, nil
	}
	return f.pages[f.current], nil
}

func (f *fakePage) GroupPresent(string) (bool, error) { return true, nil }

func (f *fakePage) Execute(a plan.Action) error {
	f.executed = append(f.executed, a)
	return nil
}

func (f *fakePage) Advance() (string, bool, error) {
	f.advances++
	if f.sticky[f.current] {
		return "", false, nil
	}
	f.current++
	return "", true, nil
}

func (f *fakePage) Terminal() (bool, error) {
	return f.terminal >= 0 && f.current == f.terminal, nil
}

func testRunConfig() config.RunConfig {
	return config.RunConfig{
		MaxTransitions: 100,
		StuckThreshold: 3,
		AutoAdvance:    true,
	}
}

func testClassifier(t *testing.T) *classify.Classifier {
	t.Helper()
	tbl := &mapping.Table{Patterns: []mapping.Pattern{
		{
			Match:  `your name`,
			Kind:   mapping.KindFreeText,
			Fields: []string{"Name"},
			Group:  "QID3",
		},
		{
			Match:  `clipper card`,
			Kind:   mapping.KindSingleChoiceYN,
			Fields: []string{"Has Clipper Card"},
			Group:  "QID6",
			Values: map[string]string{"Yes": "1", "No": "2"},
		},
	}}
	require.NoError(t, tbl.Compile())
	return classify.New(tbl)
}

func TestFillRowCompletes(t *testing.T) {
	page := &fakePage{
		pages: [][]browser.VisibleQuestion{
			{{ID: "QID3", Heading: "What is your name?", Texts: 1}},
			{{ID: "QID6", Heading: "Do you have a Clipper card?", Radios: 2}},
			{},
		},
		sticky:   map[int]bool{},
		terminal: 2,
	}
	row := rowdata.NewRow([]string{"Name", "Has Clipper Card"}, []string{"Ada", "yes"})
	d := New(page, testClassifier(t), testRunConfig(), zap.NewNop())

	out, err := d.FillRow(row)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, 2, out.Transitions)

	require.Len(t, page.executed, 2)
	assert.Equal(t, plan.KindType, page.executed[0].Kind)
	assert.Equal(t, "#form-text-input-QID3-1", page.executed[0].Selector)
	assert.Equal(t, plan.KindClick, page.executed[1].Kind)
	assert.Equal(t, "#mc-choice-input-QID6-1", page.executed[1].Selector)
}

func TestFillRowStuckAborts(t *testing.T) {
	page := &fakePage{
		pages: [][]browser.VisibleQuestion{
			{{ID: "QID3", Heading: "What is your name?", Texts: 1}},
		},
		sticky:   map[int]bool{0: true},
		terminal: -1,
	}
	row := rowdata.NewRow([]string{"Name"}, []string{"Ada"})
	d := New(page, testClassifier(t), testRunConfig(), zap.NewNop())

	_, err := d.FillRow(row)
	require.ErrorIs(t, err, ErrStuck)
	// The threshold is three unchanged advances; the driver must not keep
	// hammering past it.
	assert.Equal(t, 3, page.advances)
	// Re-scanning the unchanged page must not re-execute the question.
	assert.Len(t, page.executed, 1)
}

func TestFillRowUnclassifiedSkipsAndAdvances(t *testing.T) {
	page := &fakePage{
		pages: [][]browser.VisibleQuestion{
			{{ID: "QID99", Heading: "What is your favorite dinosaur?", Radios: 4}},
			{},
		},
		sticky:   map[int]bool{},
		terminal: 1,
	}
	row := rowdata.NewRow([]string{"Name"}, []string{"Ada"})
	d := New(page, testClassifier(t), testRunConfig(), zap.NewNop())

	out, err := d.FillRow(row)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "QID99", out.Skipped[0].Group)
	assert.NotEmpty(t, out.Skipped[0].Reason)
}

func TestFillRowUnmappedValueSkipsButAdvances(t *testing.T) {
	page := &fakePage{
		pages: [][]browser.VisibleQuestion{
			{{ID: "QID6", Heading: "Do you have a Clipper card?", Radios: 2}},
			{},
		},
		sticky:   map[int]bool{},
		terminal: 1,
	}
	row := rowdata.NewRow([]string{"Has Clipper Card"}, []string{"Martian"})
	d := New(page, testClassifier(t), testRunConfig(), zap.NewNop())

	out, err := d.FillRow(row)
	require.NoError(t, err)
	assert.True(t, out.Completed)
	require.Len(t, out.Skipped, 1)
	assert.Contains(t, out.Skipped[0].Reason, "Martian")
}

func TestFillRowCeiling(t *testing.T) {
	// Pages never end and never stick; the ceiling must cut the loop.
	page := &endlessPage{}
	cfg := testRunConfig()
	cfg.MaxTransitions = 7
	d := New(page, testClassifier(t), cfg, zap.NewNop())

	_, err := d.FillRow(rowdata.NewRow(nil, nil))
	require.ErrorIs(t, err, ErrCeiling)
	assert.Equal(t, 7, page.advances)
}

func TestFillRowLiveGroupOverridesMapping(t *testing.T) {
	// The page renders the name question under a different group id than
	// the mapping's default; selectors must follow the live id.
	page := &fakePage{
		pages: [][]browser.VisibleQuestion{
			{{ID: "QID77", Heading: "What is your name?", Texts: 1}},
			{},
		},
		sticky:   map[int]bool{},
		terminal: 1,
	}
	row := rowdata.NewRow([]string{"Name"}, []string{"Ada"})
	d := New(page, testClassifier(t), testRunConfig(), zap.NewNop())

	_, err := d.FillRow(row)
	require.NoError(t, err)
	require.Len(t, page.executed, 1)
	assert.Equal(t, "#form-text-input-QID77-1", page.executed[0].Selector)
}

// endlessPage always shows a fresh unmapped page and always advances.
type endlessPage struct {
	advances int
}

func (e *endlessPage) ScanVisibleQuestions() ([]browser.VisibleQuestion, error) {
	return nil, nil
}
func (e *endlessPage) GroupPresent(string) (bool, error) { return true, nil }
func (e *endlessPage) Execute(plan.Action) error         { return nil }
func (e *endlessPage) Advance() (string, bool, error) {
	e.advances++
	return "", true, nil
}
func (e *endlessPage) Terminal() (bool, error) { return false, nil }
