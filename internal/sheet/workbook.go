// Package sheet reads tabular cell text out of spreadsheet workbooks and
// markup exports. It does no header detection or type coercion.
package sheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Grid is the cell text of one sheet or table, row by row. Rows may be
// ragged.
type Grid [][]string

// ErrEmptyWorkbook is returned when a workbook opens but no sheet has rows.
var ErrEmptyWorkbook = errors.New("workbook has no rows")

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// LooksLikeWorkbook reports whether data starts with the magic bytes of an
// xlsx (zip) or xls (OLE2 compound file) workbook.
func LooksLikeWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic) || bytes.HasPrefix(data, oleMagic)
}

// IsWorkbookHint reports whether an extension hint names a binary workbook.
func IsWorkbookHint(hint string) bool {
	return hint == "xlsx" || hint == "xls" || hint == "xlsm"
}

// ReadWorkbook returns the first non-empty sheet of an xlsx or xls workbook.
// The reader matching the hint is tried first; the other one second.
func ReadWorkbook(data []byte, hint string) (Grid, error) {
	readers := []func([]byte) (Grid, error){ReadXLSX, ReadXLS}
	if hint == "xls" || bytes.HasPrefix(data, oleMagic) {
		readers = []func([]byte) (Grid, error){ReadXLS, ReadXLSX}
	}

	var errs []error
	for _, read := range readers {
		grid, err := read(data)
		if err == nil {
			return grid, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// ReadXLSX reads an Office Open XML workbook.
func ReadXLSX(data []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, ErrEmptyWorkbook
}

// ReadXLS reads a legacy BIFF workbook. The xls decoder panics on some
// malformed input, so panics are turned into errors.
func ReadXLS(data []byte) (grid Grid, err error) {
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("opening xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}

	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows Grid
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, ErrEmptyWorkbook
}
