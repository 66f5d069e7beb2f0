// File: internal/rowdata/rowdata.go

// Package rowdata loads respondent rows from a CSV file and resolves logical
// fields against them. Header names in the wild carry embedded newlines and
// stray whitespace, so every comparison goes through NormalizeSpace first.
package rowdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses all whitespace runs (including newlines) to a
// single space and trims the ends.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// NormalizeCase is NormalizeSpace plus lowercasing, for case-insensitive
// comparisons.
func NormalizeCase(s string) string {
	return strings.ToLower(NormalizeSpace(s))
}

// Row is one respondent's data, keyed by the raw header name. Rows are
// immutable once loaded; resolution never mutates them.
type Row struct {
	headers []string
	values  map[string]string
}

// NewRow builds a Row from parallel header/value slices. Extra values beyond
// the header count are dropped; missing values become empty strings.
func NewRow(headers, values []string) Row {
	m := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(values) {
			m[h] = values[i]
		} else {
			m[h] = ""
		}
	}
	return Row{headers: append([]string(nil), headers...), values: m}
}

// Headers returns the raw header names in file order.
func (r Row) Headers() []string {
	return append([]string(nil), r.headers...)
}

// Get returns the raw value for an exact header name.
func (r Row) Get(header string) string {
	return r.values[header]
}

// Resolve tries each candidate header in order and returns the first value
// that is non-empty after whitespace normalization. Candidates are compared
// both exactly and with normalized headers, so a candidate written without
// the header's embedded newline still matches. The second return reports
// whether a value was found; absence is not an error.
func (r Row) Resolve(candidates ...string) (string, bool) {
	for _, cand := range candidates {
		if v, ok := r.values[cand]; ok {
			if nv := NormalizeSpace(v); nv != "" {
				return nv, true
			}
			continue
		}
		want := NormalizeCase(cand)
		for _, h := range r.headers {
			if NormalizeCase(h) == want {
				if nv := NormalizeSpace(r.values[h]); nv != "" {
					return nv, true
				}
				break
			}
		}
	}
	return "", false
}

// Load reads all rows from a CSV file. The first record is the header row.
// A UTF-8 BOM on the first header is stripped. Ragged records are tolerated
// because hand-edited exports frequently have them.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses rows from an open CSV stream. See Load.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record %d: %w", len(rows)+1, err)
		}
		rows = append(rows, NewRow(headers, rec))
	}
	return rows, nil
}
