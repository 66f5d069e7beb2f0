// File: internal/classify/classify.go

// Package classify matches question headings against the pattern table.
// Matching is deterministic: patterns are tried in table order against the
// normalized heading and the first regex hit wins. A fuzzy scorer can be
// attached as a fallback for headings the table misses, but it only applies
// above a confidence threshold; below it the question is left unclassified
// and the caller reports it instead of guessing.
package classify

import (
	"strings"

	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// MinConfidence is the default threshold below which a fuzzy score does not
// count as a match.
const MinConfidence = 0.5

// Scorer rates how well a heading fits a pattern, 0 to 1.
type Scorer interface {
	Score(heading string, p *mapping.Pattern) float64
}

// Classifier resolves headings to patterns.
type Classifier struct {
	table    *mapping.Table
	fallback Scorer
	minScore float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithFallback attaches a fuzzy scorer consulted only when no regex matches.
func WithFallback(s Scorer, minScore float64) Option {
	return func(c *Classifier) {
		c.fallback = s
		c.minScore = minScore
	}
}

// New builds a Classifier over a compiled table.
func New(table *mapping.Table, opts ...Option) *Classifier {
	c := &Classifier{table: table, minScore: MinConfidence}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Match returns the first pattern whose regex matches the normalized
// heading. When none matches and a fallback scorer is attached, the highest
// scoring pattern at or above the threshold is returned; earlier table
// position breaks score ties so results stay deterministic. The second
// return is false when the heading is unclassified.
func (c *Classifier) Match(heading string) (*mapping.Pattern, bool) {
	h := rowdata.NormalizeSpace(heading)
	if h == "" {
		return nil, false
	}

	for i := range c.table.Patterns {
		p := &c.table.Patterns[i]
		if p.Regexp().MatchString(h) {
			return p, true
		}
	}

	if c.fallback == nil {
		return nil, false
	}
	var best *mapping.Pattern
	bestScore := 0.0
	for i := range c.table.Patterns {
		p := &c.table.Patterns[i]
		if score := c.fallback.Score(h, p); score > bestScore {
			best, bestScore = p, score
		}
	}
	if best == nil || bestScore < c.minScore {
		return nil, false
	}
	return best, true
}

// TokenOverlap is the default fuzzy scorer: the fraction of a pattern's
// field-candidate tokens that appear in the heading. It is intentionally
// crude; the regex table is the primary mechanism and this only rescues
// near-miss wordings.
type TokenOverlap struct{}

func (TokenOverlap) Score(heading string, p *mapping.Pattern) float64 {
	headWords := map[string]bool{}
	for _, w := range strings.Fields(rowdata.NormalizeCase(heading)) {
		headWords[strings.Trim(w, "?.,:;()")] = true
	}

	candidates := append([]string(nil), p.Fields...)
	for _, set := range p.FieldSets {
		candidates = append(candidates, set...)
	}
	var bestFrac float64
	for _, cand := range candidates {
		words := strings.Fields(rowdata.NormalizeCase(cand))
		if len(words) == 0 {
			continue
		}
		hits := 0
		for _, w := range words {
			if headWords[w] {
				hits++
			}
		}
		if frac := float64(hits) / float64(len(words)); frac > bestFrac {
			bestFrac = frac
		}
	}
	return bestFrac
}
