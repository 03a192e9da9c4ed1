// Package sniff classifies uploaded bytes as a delimited-text, markup, or
// workbook trial balance and normalizes delimited text down to its header
// line and data rows.
package sniff

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/tbingest/internal/model"
	"github.com/cleared-dev/tbingest/internal/sheet"
)

// SampleSize bounds how much leading text is inspected when classifying.
const SampleSize = 8 << 10

// Kind tags the variant held by a Payload.
type Kind int

const (
	KindDelimited Kind = iota + 1
	KindMarkup
	KindWorkbook
)

func (k Kind) String() string {
	switch k {
	case KindDelimited:
		return "delimited"
	case KindMarkup:
		return "markup"
	case KindWorkbook:
		return "workbook"
	}
	return "unknown"
}

// Payload is the result of Detect. Which fields are set depends on Kind:
//
//	KindDelimited: Text (normalized) and Delimiter
//	KindMarkup:    Text (decoded markup source)
//	KindWorkbook:  Grid, starting at the header row
type Payload struct {
	Kind      Kind
	Text      string
	Delimiter rune
	Grid      sheet.Grid
}

var (
	markupRe = regexp.MustCompile(`(?i)<table[\s>]|<\?xml|<workbook[\s>]`)
	sepRe    = regexp.MustCompile(`(?im)^[ \t"']*sep=`)
)

// Detect classifies an upload. Workbook hints (or workbook magic bytes) get a
// native spreadsheet read first; if that fails the bytes are treated as text,
// since some exporters write text or markup under a workbook extension.
func Detect(u model.Upload) (Payload, error) {
	hint := u.ExtHint()

	var workbookErr error
	if sheet.IsWorkbookHint(hint) || sheet.LooksLikeWorkbook(u.Data) {
		grid, err := sheet.ReadWorkbook(u.Data, hint)
		if err == nil {
			grid, err = LocateHeader(grid)
			if err != nil {
				return Payload{}, err
			}
			return Payload{Kind: KindWorkbook, Grid: grid}, nil
		}
		workbookErr = err
	}

	text, err := Decode(u.Data)
	if err != nil {
		return Payload{}, unsupported("undecodable text", err)
	}

	sample := text
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}

	switch {
	case markupRe.MatchString(sample):
		return Payload{Kind: KindMarkup, Text: text}, nil
	case sepRe.MatchString(sample) || IsHeaderLine(sample):
		n, err := Normalize(text)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Kind: KindDelimited, Text: n.Text, Delimiter: n.Delimiter}, nil
	}
	return Payload{}, unsupported("no debit/credit columns found", workbookErr)
}

// Decode converts raw bytes to UTF-8 text, removing a leading byte-order
// mark. UTF-16 is recognized by its BOM; other input that is not valid UTF-8
// is read as Windows-1252.
func Decode(data []byte) (string, error) {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(data) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// IsHeaderLine reports whether s carries both "debit" and "credit"
// (case-insensitive) alongside a field delimiter.
func IsHeaderLine(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "debit") &&
		strings.Contains(lower, "credit") &&
		strings.ContainsAny(s, ",;\t")
}

// IsHeaderRow is IsHeaderLine for a row already split into cells.
func IsHeaderRow(cells []string) bool {
	lower := strings.ToLower(strings.Join(cells, "\t"))
	return strings.Contains(lower, "debit") && strings.Contains(lower, "credit")
}

// LocateHeader drops the rows before the first header row of grid.
func LocateHeader(grid sheet.Grid) (sheet.Grid, error) {
	for i, row := range grid {
		if IsHeaderRow(row) {
			return grid[i:], nil
		}
	}
	return nil, unsupported("no debit/credit header row", nil)
}
