// Package overrides converts accepted transfer pairs into categorization
// override instructions for the downstream rule engine, which applies them
// with highest priority.
package overrides

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
)

// Direction marks which leg of a pair an override annotates.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Override instructs the categorization engine to pin one transaction's
// category and note, keyed by the transaction identity.
type Override struct {
	PairID    string
	Source    int
	Row       int
	Category  string
	Direction Direction
	Note      string
}

// Header is the CSV header for an overrides file.
const Header = "pair_id,source,row,category,direction,note"

const (
	numFields    = 6
	colPairID    = 0
	colSource    = 1
	colRow       = 2
	colCategory  = 3
	colDirection = 4
	colNote      = 5
)

// FromPairs emits one override per participating transaction. Order follows
// the pair list, outgoing leg first, so output is deterministic.
func FromPairs(pairs []model.TransferPair, category string) []Override {
	var ovs []Override
	for _, p := range pairs {
		ovs = append(ovs,
			legOverride(p, p.Outgoing.ID, DirectionOutgoing, category),
			legOverride(p, p.Incoming.ID, DirectionIncoming, category),
		)
	}
	return ovs
}

func legOverride(p model.TransferPair, id model.TxID, dir Direction, category string) Override {
	return Override{
		PairID:    p.PairID,
		Source:    id.Source,
		Row:       id.Row,
		Category:  category,
		Direction: dir,
		Note:      fmt.Sprintf("%s transfer leg, matched by %s (pair %s)", dir, p.Strategy, p.PairID),
	}
}

// Marshal converts an Override to a CSV row.
func Marshal(o Override) []string {
	row := make([]string, numFields)
	row[colPairID] = o.PairID
	row[colSource] = strconv.Itoa(o.Source)
	row[colRow] = strconv.Itoa(o.Row)
	row[colCategory] = o.Category
	row[colDirection] = string(o.Direction)
	row[colNote] = o.Note
	return row
}

// Unmarshal converts a CSV row to an Override.
func Unmarshal(record []string) (Override, error) {
	if len(record) != numFields {
		return Override{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	source, err := strconv.Atoi(record[colSource])
	if err != nil {
		return Override{}, fmt.Errorf("parsing source %q: %w", record[colSource], err)
	}
	row, err := strconv.Atoi(record[colRow])
	if err != nil {
		return Override{}, fmt.Errorf("parsing row %q: %w", record[colRow], err)
	}

	return Override{
		PairID:    record[colPairID],
		Source:    source,
		Row:       row,
		Category:  record[colCategory],
		Direction: Direction(record[colDirection]),
		Note:      record[colNote],
	}, nil
}

// Write writes overrides to w as CSV, including the header.
func Write(w io.Writer, ovs []Override) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, o := range ovs {
		if err := cw.Write(Marshal(o)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Read reads all overrides from an overrides CSV reader.
func Read(r io.Reader) ([]Override, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading overrides CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var ovs []Override
	for i, rec := range records[1:] {
		o, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		ovs = append(ovs, o)
	}
	return ovs, nil
}
