// File: internal/mapping/values.go
package mapping

import (
	"regexp"
	"strings"

	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// defaultDelimiters are the separators accepted in multi-choice cells when a
// pattern does not override them. Pipe shows up in exports from other tools,
// so it is normalized alongside the documented semicolon and comma.
const defaultDelimiters = ";,|"

// otherRe marks a token as destined for the "other" free-text slot rather
// than a listed option, capturing whatever follows the marker.
var otherRe = regexp.MustCompile(`(?i)^other\b[\s:\-]*(.*)$`)

// SplitMulti tokenizes a multi-choice cell on the pattern's delimiters.
// Tokens are whitespace-normalized; empties are dropped.
func SplitMulti(cell, delims string) []string {
	if delims == "" {
		delims = defaultDelimiters
	}
	sep := string(delims[0])
	for _, d := range delims[1:] {
		cell = strings.ReplaceAll(cell, string(d), sep)
	}
	var out []string
	for _, tok := range strings.Split(cell, sep) {
		if t := rowdata.NormalizeSpace(tok); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitOther reports whether a token is an "other" value and returns the
// free text with the marker prefix stripped. A bare "other" yields empty
// free text, which still selects the other choice.
func SplitOther(token string) (string, bool) {
	m := otherRe.FindStringSubmatch(rowdata.NormalizeSpace(token))
	if m == nil {
		return "", false
	}
	return rowdata.NormalizeSpace(m[1]), true
}

// ResolveChoice translates a raw cell value to an option index through the
// pattern's value map: exact key first, then case-insensitive. The returned
// canonical string is the matched map key.
func (p *Pattern) ResolveChoice(raw string) (index, canonical string, ok bool) {
	raw = rowdata.NormalizeSpace(raw)
	if idx, found := p.Values[raw]; found {
		return idx, raw, true
	}
	want := rowdata.NormalizeCase(raw)
	for k, idx := range p.Values {
		if rowdata.NormalizeCase(k) == want {
			return idx, k, true
		}
	}
	return "", "", false
}

// MultiResolution is the outcome of translating a multi-choice cell.
type MultiResolution struct {
	// Indices are the resolved option indices, in token order.
	Indices []string
	// Labels are the canonical value-map keys matched, parallel to Indices.
	Labels []string
	// OtherTexts collects the free text of "other" tokens; the caller joins
	// them into the companion field.
	OtherTexts []string
	// Unmatched lists tokens that resolved to nothing; they are reported,
	// never guessed at.
	Unmatched []string
}

// ResolveMulti tokenizes and translates a multi-choice cell. "Other" tokens
// divert to the companion slot only when the pattern has one; otherwise they
// count as unmatched.
func (p *Pattern) ResolveMulti(cell string) MultiResolution {
	var res MultiResolution
	for _, tok := range SplitMulti(cell, p.Delimiters) {
		if idx, label, ok := p.ResolveChoice(tok); ok {
			res.Indices = append(res.Indices, idx)
			res.Labels = append(res.Labels, label)
			continue
		}
		if free, isOther := SplitOther(tok); isOther && p.HasOtherSlot() {
			if free != "" {
				res.OtherTexts = append(res.OtherTexts, free)
			}
			res.Indices = append(res.Indices, p.OtherIndex)
			res.Labels = append(res.Labels, "Other")
			continue
		}
		res.Unmatched = append(res.Unmatched, tok)
	}
	return res
}

// NormalizeYesNo folds common affirmative and negative spellings onto the
// canonical "Yes"/"No" keys used by yes/no value maps.
func NormalizeYesNo(raw string) (string, bool) {
	switch rowdata.NormalizeCase(raw) {
	case "yes", "y", "true", "1":
		return "Yes", true
	case "no", "n", "false", "0":
		return "No", true
	}
	return "", false
}
