// File: internal/classify/classify_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
)

func testTable(t *testing.T) *mapping.Table {
	t.Helper()
	tbl := &mapping.Table{Patterns: []mapping.Pattern{
		{Match: `email address`, Kind: mapping.KindFreeText, Fields: []string{"Email Address"}, Group: "QID1"},
		{Match: `address`, Kind: mapping.KindFreeText, Fields: []string{"Street Address"}, Group: "QID2"},
		{Match: `household income`, Kind: mapping.KindSingleChoice, Fields: []string{"Household Income"}, Group: "QID3"},
	}}
	require.NoError(t, tbl.Compile())
	return tbl
}

func TestMatchFirstWins(t *testing.T) {
	c := New(testTable(t))

	// Both the first and second pattern match this heading; table order
	// decides.
	p, ok := c.Match("What is your email address?")
	require.True(t, ok)
	assert.Equal(t, "QID1", p.Group)

	p, ok = c.Match("What is your home ADDRESS?")
	require.True(t, ok)
	assert.Equal(t, "QID2", p.Group)
}

func TestMatchIsDeterministic(t *testing.T) {
	c := New(testTable(t))
	heading := "Please enter your email address\nbelow"

	first, ok := c.Match(heading)
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		p, ok := c.Match(heading)
		require.True(t, ok)
		assert.Same(t, first, p)
	}
}

func TestMatchUnclassified(t *testing.T) {
	c := New(testTable(t))

	_, ok := c.Match("What is your favorite dinosaur?")
	assert.False(t, ok)
	_, ok = c.Match("   ")
	assert.False(t, ok)
}

func TestFuzzyFallback(t *testing.T) {
	c := New(testTable(t), WithFallback(TokenOverlap{}, 0.5))

	// No regex matches, but the field candidate "Household Income" overlaps
	// the heading fully.
	p, ok := c.Match("What income does your household earn in a year")
	require.True(t, ok)
	assert.Equal(t, "QID3", p.Group)

	// Below threshold stays unclassified.
	_, ok = c.Match("What is your favorite dinosaur?")
	assert.False(t, ok)
}

func TestFallbackNotConsultedWhenRegexHits(t *testing.T) {
	c := New(testTable(t), WithFallback(TokenOverlap{}, 0.1))

	p, ok := c.Match("Confirm your email address")
	require.True(t, ok)
	assert.Equal(t, "QID1", p.Group)
}
