// File: internal/browser/browser_test.go
package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/surveyfill-cli/internal/config"
)

func TestSignature(t *testing.T) {
	qs := []VisibleQuestion{
		{Heading: "What is your  name?"},
		{Heading: "ZIP Code"},
	}
	assert.Equal(t, "what is your name? || zip code", Signature(qs))
	assert.Equal(t, "", Signature(nil))
}

func TestSignatureStableAcrossRerender(t *testing.T) {
	a := []VisibleQuestion{{ID: "QID3", Heading: "Your name", Texts: 3}}
	b := []VisibleQuestion{{ID: "QID3", Heading: "Your\nname", Texts: 3}}
	assert.Equal(t, Signature(a), Signature(b))
}

func TestMatchOption(t *testing.T) {
	options := []string{"AC Transit", "BART", "SF Muni"}

	assert.Equal(t, 1, matchOption(options, "bart"))
	assert.Equal(t, 2, matchOption(options, "Muni"))
	assert.Equal(t, 0, matchOption(options, "ac transit (east bay)"))
	assert.Equal(t, -1, matchOption(options, "Caltrain"))
	assert.Equal(t, -1, matchOption(nil, "anything"))
}

func TestTypedValueMatches(t *testing.T) {
	assert.True(t, typedValueMatches("Ada Lovelace", "Ada Lovelace"))
	// Cosmetic whitespace differences must not count as a mismatch.
	assert.True(t, typedValueMatches(" Ada Lovelace ", "Ada Lovelace"))
	assert.True(t, typedValueMatches("Ada  Lovelace", "Ada Lovelace"))
	assert.False(t, typedValueMatches("Ada", "Ada Lovelace"))
	assert.False(t, typedValueMatches("", "Ada"))
}

func TestGroupFromCombo(t *testing.T) {
	assert.Equal(t, "QID8", groupFromCombo("div[role='combobox']#QID8"))
}

func TestExecOptionsIncludeUserArgs(t *testing.T) {
	opts := execOptions(config.BrowserConfig{
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 800,
		Args:           []string{"--lang=en-US", "no-first-run"},
	})
	assert.NotEmpty(t, opts)
}
