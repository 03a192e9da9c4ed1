package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the outcome of ingesting one file.
type Status string

const (
	StatusBalanced        Status = "balanced"
	StatusNeedsCorrection Status = "needs-correction"
	StatusRejected        Status = "rejected"
)

// Entry is one row in the ingest log.
type Entry struct {
	Timestamp   time.Time
	RunID       string
	File        string
	Format      string
	Status      Status
	Entries     int
	Skipped     int
	Debits      decimal.Decimal
	Credits     decimal.Decimal
	Discrepancy decimal.Decimal
	Details     string
}

// Header is the CSV header for ingest-log.csv.
const Header = "timestamp,run_id,file,format,status,entries,skipped,total_debits,total_credits,discrepancy,details"

const (
	numFields      = 11
	logDir         = "logs"
	logFile        = "logs/ingest-log.csv"
	colTimestamp   = 0
	colRunID       = 1
	colFile        = 2
	colFormat      = 3
	colStatus      = 4
	colEntries     = 5
	colSkipped     = 6
	colDebits      = 7
	colCredits     = 8
	colDiscrepancy = 9
	colDetails     = 10
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFile] = e.File
	row[colFormat] = e.Format
	row[colStatus] = string(e.Status)
	row[colEntries] = strconv.Itoa(e.Entries)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	if e.Status != StatusRejected {
		row[colDebits] = e.Debits.StringFixed(2)
		row[colCredits] = e.Credits.StringFixed(2)
		row[colDiscrepancy] = e.Discrepancy.StringFixed(2)
	}
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		File:      record[colFile],
		Format:    record[colFormat],
		Status:    Status(record[colStatus]),
		Details:   record[colDetails],
	}

	if e.Entries, err = strconv.Atoi(record[colEntries]); err != nil {
		return Entry{}, fmt.Errorf("parsing entries %q: %w", record[colEntries], err)
	}
	if e.Skipped, err = strconv.Atoi(record[colSkipped]); err != nil {
		return Entry{}, fmt.Errorf("parsing skipped %q: %w", record[colSkipped], err)
	}

	amounts := []struct {
		col int
		dst *decimal.Decimal
	}{
		{colDebits, &e.Debits},
		{colCredits, &e.Credits},
		{colDiscrepancy, &e.Discrepancy},
	}
	for _, a := range amounts {
		if record[a.col] == "" {
			continue
		}
		if *a.dst, err = decimal.NewFromString(record[a.col]); err != nil {
			return Entry{}, fmt.Errorf("parsing amount %q: %w", record[a.col], err)
		}
	}
	return e, nil
}

// Append writes entries to <repoRoot>/logs/ingest-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/ingest-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingest log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
