// Package runlog appends one audit row per detection run, so data-quality
// drift (rising date-invalid or zero-amount counts) is visible over time.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	Files        int
	Transactions int
	Candidates   int
	Pairs        int
	Potentials   int
	DateInvalid  int
	ZeroAmount   int
}

// Header is the CSV header for a run log file.
const Header = "timestamp,files,transactions,candidates,pairs,potentials,date_invalid,zero_amount"

const (
	numFields       = 8
	colTimestamp    = 0
	colFiles        = 1
	colTransactions = 2
	colCandidates   = 3
	colPairs        = 4
	colPotentials   = 5
	colDateInvalid  = 6
	colZeroAmount   = 7
)

// Marshal converts an Entry to a CSV row.
func Marshal(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFiles] = strconv.Itoa(e.Files)
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colCandidates] = strconv.Itoa(e.Candidates)
	row[colPairs] = strconv.Itoa(e.Pairs)
	row[colPotentials] = strconv.Itoa(e.Potentials)
	row[colDateInvalid] = strconv.Itoa(e.DateInvalid)
	row[colZeroAmount] = strconv.Itoa(e.ZeroAmount)
	return row
}

// Unmarshal converts a CSV row to an Entry.
func Unmarshal(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	ints := make([]int, numFields)
	for i := colFiles; i < numFields; i++ {
		v, err := strconv.Atoi(record[i])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing field %d %q: %w", i, record[i], err)
		}
		ints[i] = v
	}

	return Entry{
		Timestamp:    ts,
		Files:        ints[colFiles],
		Transactions: ints[colTransactions],
		Candidates:   ints[colCandidates],
		Pairs:        ints[colPairs],
		Potentials:   ints[colPotentials],
		DateInvalid:  ints[colDateInvalid],
		ZeroAmount:   ints[colZeroAmount],
	}, nil
}

// Append writes an entry to path, creating the file and header if needed.
func Append(path string, e Entry) error {
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(Marshal(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return cw.Error()
}

// Read returns all entries from a run log file. Returns nil if the file does
// not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
