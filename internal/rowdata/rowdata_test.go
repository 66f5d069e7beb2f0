// File: internal/rowdata/rowdata_test.go
package rowdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "What is your name?", NormalizeSpace("  What is\nyour   name? "))
	assert.Equal(t, "", NormalizeSpace(" \t\n "))
}

func TestNormalizeCase(t *testing.T) {
	assert.Equal(t, "zip code", NormalizeCase(" ZIP\nCode "))
}

func TestResolveCandidateOrder(t *testing.T) {
	row := NewRow(
		[]string{"Email Address", "Email"},
		[]string{"", "ada@example.com"},
	)

	// First candidate is present but empty; the second supplies the value.
	v, ok := row.Resolve("Email Address", "Email")
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", v)
}

func TestResolveNormalizedHeader(t *testing.T) {
	row := NewRow([]string{"ZIP\nCode"}, []string{" 94110 "})

	v, ok := row.Resolve("zip code")
	require.True(t, ok)
	assert.Equal(t, "94110", v)
}

func TestResolveAbsenceIsNotAnError(t *testing.T) {
	row := NewRow([]string{"Name"}, []string{"Ada"})

	v, ok := row.Resolve("Shoe Size", "Hat Size")
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestReadStripsBOMAndToleratesRaggedRows(t *testing.T) {
	csv := "\ufeffName,Email\nAda,ada@example.com\nGrace\n"
	rows, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ada", rows[0].Get("Name"))
	assert.Equal(t, []string{"Name", "Email"}, rows[0].Headers())
	assert.Equal(t, "Grace", rows[1].Get("Name"))
	assert.Equal(t, "", rows[1].Get("Email"))
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}
