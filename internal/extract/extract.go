// File: internal/extract/extract.go

// Package extract inventories the questions in a saved HTML snapshot of a
// survey page. The output bootstraps a mapping file: it lists each question
// group, its heading, and its control affordances, and can suggest a
// pattern table skeleton to edit by hand.
package extract

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/surveyfill-cli/internal/mapping"
	"github.com/xkilldash9x/surveyfill-cli/internal/rowdata"
)

// Question is one question section found in the snapshot.
type Question struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Radios  int    `json:"radios"`
	Checks  int    `json:"checks"`
	Texts   int    `json:"texts"`
	Combos  int    `json:"combos"`
}

// FromFile parses a saved page from disk.
func FromFile(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return FromReader(f)
}

// FromReader parses a saved page from a stream. Sections appear in document
// order.
func FromReader(r io.Reader) ([]Question, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot HTML: %w", err)
	}

	var questions []Question
	walk(doc, func(n *html.Node) {
		if !isQuestionSection(n) {
			return
		}
		q := Question{ID: strings.TrimPrefix(attr(n, "id"), "question-")}
		walk(n, func(c *html.Node) {
			if c.Type != html.ElementNode {
				return
			}
			switch {
			case q.Heading == "" && hasClass(c, "question-display"):
				q.Heading = rowdata.NormalizeSpace(textContent(c))
			case c.Data == "input":
				switch attr(c, "type") {
				case "radio":
					q.Radios++
				case "checkbox":
					q.Checks++
				case "text", "email", "tel", "":
					q.Texts++
				}
			case c.Data == "textarea":
				q.Texts++
			case c.Data == "div" && attr(c, "role") == "combobox":
				q.Combos++
			}
		})
		questions = append(questions, q)
	})
	return questions, nil
}

// InferKind maps a question's control affordances onto an interaction kind.
// Choice controls win over text because "other" companions add a stray text
// input to choice questions.
func InferKind(q Question) mapping.Kind {
	switch {
	case q.Combos > 0:
		return mapping.KindSearchableList
	case q.Checks > 0:
		return mapping.KindMultiChoice
	case q.Radios == 2 && looksYesNo(q.Heading):
		return mapping.KindSingleChoiceYN
	case q.Radios > 0:
		return mapping.KindSingleChoice
	case q.Texts > 1:
		return mapping.KindMultiText
	default:
		return mapping.KindFreeText
	}
}

var yesNoRe = regexp.MustCompile(`(?i)^(do|did|are|is|have|has|will|would|can)\b`)

func looksYesNo(heading string) bool {
	return yesNoRe.MatchString(rowdata.NormalizeSpace(heading))
}

// SuggestTable turns an inventory into a pattern table skeleton. Matchers
// are the escaped headings; fields default to the heading text and need
// hand editing to the real CSV columns.
func SuggestTable(questions []Question) *mapping.Table {
	t := &mapping.Table{}
	for _, q := range questions {
		if q.Heading == "" {
			continue
		}
		p := mapping.Pattern{
			Match:  regexp.QuoteMeta(q.Heading),
			Kind:   InferKind(q),
			Group:  q.ID,
			Fields: []string{q.Heading},
		}
		if p.Kind == mapping.KindMultiText {
			p.Fields = nil
			for i := 0; i < q.Texts; i++ {
				p.FieldSets = append(p.FieldSets, []string{fmt.Sprintf("%s %d", q.Heading, i+1)})
			}
		}
		t.Patterns = append(t.Patterns, p)
	}
	return t
}

func walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fn(c)
		walk(c, fn)
	}
}

func isQuestionSection(n *html.Node) bool {
	return n.Type == html.ElementNode &&
		n.Data == "section" &&
		hasClass(n, "question") &&
		strings.HasPrefix(attr(n, "id"), "question-QID")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
	})
	return b.String()
}
