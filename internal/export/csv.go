// Package export persists ingested trial-balance entries as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tbingest/internal/model"
)

// Header is the CSV header for trial-balance files.
const Header = "account_number,account_name,account_type,line_item,debit,credit,balance,category,source,row"

const (
	numFields   = 10
	colNumber   = 0
	colName     = 1
	colType     = 2
	colLineItem = 3
	colDebit    = 4
	colCredit   = 5
	colBalance  = 6
	colCategory = 7
	colSource   = 8
	colRow      = 9
	trialBalDir = "trialbalances"
	trialBalExt = ".csv"
)

// ReadEntries reads all entries from a trial-balance CSV.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading trial balance CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries (including header).
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colNumber] = e.AccountNumber
	row[colName] = e.AccountName
	row[colType] = string(e.Type)
	row[colLineItem] = string(e.Bucket)

	if !e.Debit.IsZero() {
		row[colDebit] = formatAmount(e.Debit)
	}
	if !e.Credit.IsZero() {
		row[colCredit] = formatAmount(e.Credit)
	}
	row[colBalance] = formatAmount(e.Balance())

	row[colCategory] = e.Category
	row[colSource] = e.Source
	if e.Row > 0 {
		row[colRow] = strconv.Itoa(e.Row)
	}
	return row
}

// formatAmount writes cents with two places and keeps any finer precision
// as-is, so reading the row back yields the same amount.
func formatAmount(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}

// UnmarshalEntry converts a CSV row to an Entry. The balance column must
// agree with debit minus credit.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var debit, credit decimal.Decimal
	var err error

	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	t := model.AccountType(record[colType])
	if !t.Valid() {
		return model.Entry{}, fmt.Errorf("unknown account type %q", record[colType])
	}

	var row int
	if record[colRow] != "" {
		row, err = strconv.Atoi(record[colRow])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing row %q: %w", record[colRow], err)
		}
	}

	e := model.Entry{
		AccountNumber: record[colNumber],
		AccountName:   record[colName],
		Debit:         debit,
		Credit:        credit,
		Type:          t,
		Bucket:        model.Bucket(record[colLineItem]),
		Category:      record[colCategory],
		Source:        record[colSource],
		Row:           row,
	}

	if record[colBalance] != "" {
		bal, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
		if !bal.Equal(e.Balance()) {
			return model.Entry{}, fmt.Errorf("balance %s does not equal debit minus credit (%s)", record[colBalance], formatAmount(e.Balance()))
		}
	}
	return e, nil
}

// Path returns <repoRoot>/trialbalances/<stem>.csv for an uploaded file name.
func Path(repoRoot, fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return filepath.Join(repoRoot, trialBalDir, stem+trialBalExt)
}

// Save writes entries to the trial-balance file for fileName, replacing any
// previous export of the same file.
func Save(repoRoot, fileName string, entries []model.Entry) (string, error) {
	path := Path(repoRoot, fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating trialbalances dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteEntries(f, entries); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, f.Close()
}

// Load reads the trial-balance file previously saved for fileName.
func Load(repoRoot, fileName string) ([]model.Entry, error) {
	path := Path(repoRoot, fileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadEntries(f)
}
