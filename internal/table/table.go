// Package table turns normalized trial-balance input into rows keyed by
// header label. Cell values are passed through untouched.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/tbingest/internal/sheet"
	"github.com/cleared-dev/tbingest/internal/sniff"
)

// Table is an ordered sequence of rows under one header line.
type Table struct {
	Headers []string
	Rows    []Row
}

// Row is one non-blank data row. Values line up with Labels; a short row
// simply has fewer values.
type Row struct {
	Line   int // 1-based, counted from the header line
	Labels []string
	Values []any
}

// Get returns the value under label. The first column wins when a label is
// repeated. A label that exists but is missing from a short row reads as nil.
func (r Row) Get(label string) (any, bool) {
	for i, l := range r.Labels {
		if l != label {
			continue
		}
		if i < len(r.Values) {
			return r.Values[i], true
		}
		return nil, true
	}
	return nil, false
}

// Has reports whether label is one of the table's headers.
func (t *Table) Has(label string) bool {
	for _, h := range t.Headers {
		if h == label {
			return true
		}
	}
	return false
}

// FromDelimited parses normalized delimited text whose first line is the
// header.
func FromDelimited(text string, delim rune) (*Table, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var (
		t    *Table
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading delimited text: %w", err)
		}
		line, _ = cr.FieldPos(0)

		if t == nil {
			t = &Table{Headers: cleanHeaders(rec)}
			continue
		}
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, newRow(t.Headers, line, rec))
	}

	if t == nil {
		return nil, errors.New("reading delimited text: no header line")
	}
	return t, nil
}

// FromGrid builds a table from spreadsheet cells whose first row is the
// header.
func FromGrid(grid sheet.Grid) (*Table, error) {
	if len(grid) == 0 {
		return nil, errors.New("reading grid: no header row")
	}

	t := &Table{Headers: cleanHeaders(grid[0])}
	for i, rec := range grid[1:] {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, newRow(t.Headers, i+2, rec))
	}
	return t, nil
}

// FromMarkup reads the first table of an HTML or XML spreadsheet export
// that has a debit/credit header row.
func FromMarkup(text string) (*Table, error) {
	grids, err := sheet.ReadMarkup(text)
	if err != nil {
		return nil, &sniff.UnsupportedFormatError{Reason: "unreadable markup table", Err: err}
	}
	for _, grid := range grids {
		g, err := sniff.LocateHeader(grid)
		if err != nil {
			continue
		}
		return FromGrid(g)
	}
	return nil, &sniff.UnsupportedFormatError{Reason: "no markup table with debit and credit columns"}
}

func newRow(headers []string, line int, rec []string) Row {
	values := make([]any, len(rec))
	for i, v := range rec {
		values[i] = v
	}
	return Row{Line: line, Labels: headers, Values: values}
}

func cleanHeaders(rec []string) []string {
	headers := make([]string, len(rec))
	for i, h := range rec {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
