// Package csv reads a wide-format survey export into an in-memory table.
//
// The export is small (one row per reviewer), so the whole table is
// materialized. What the package adds over encoding/csv is survey-export
// hygiene: UTF-8 BOM stripping on the header, per-field trimming, and
// soft-fail handling of rows whose field count deviates from the header
// (skipped and counted rather than aborting the run).
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
)

// Options configures the reader. All fields are optional; sensible defaults
// are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from every field, header
	// included. Survey exports routinely carry stray padding.
	TrimSpace bool
}

// Table is the parsed wide-format export: one header cell per column and one
// string slice per survey row, all aligned to the header width.
type Table struct {
	// Header holds the column labels exactly as exported (post trim/BOM
	// strip). Movie titles appear here verbatim.
	Header []string

	// Rows holds the body rows. len(row) == len(Header) for every row.
	Rows [][]string

	// Skipped counts body rows dropped for having the wrong field count.
	Skipped int
}

// skipLogLimit caps per-row skip logging so a malformed file cannot flood
// the log.
const skipLogLimit = 25

func newReader(r io.Reader, opt Options) *csv.Reader {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1 // width enforced against the header
	cr.LazyQuotes = true
	return cr
}

func readHeader(cr *csv.Reader, opt Options) ([]string, error) {
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read survey header: %w", err)
	}
	header = StripHeaderBOM(header)
	if opt.TrimSpace {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("survey header is empty")
	}
	return header, nil
}

// ReadHeader reads and returns only the header record from r. Body rows are
// left unread, so a broken body does not stop header inspection.
func ReadHeader(r io.Reader, opt Options) ([]string, error) {
	return readHeader(newReader(r, opt), opt)
}

// ReadTable consumes the export from r and returns the parsed wide table.
// The first record is the header; it must be non-empty. Body rows with a
// field count different from the header are skipped softly and counted.
func ReadTable(r io.Reader, opt Options) (*Table, error) {
	cr := newReader(r, opt)
	header, err := readHeader(cr, opt)
	if err != nil {
		return nil, err
	}

	t := &Table{Header: header}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if t.Skipped < skipLogLimit {
				log.Printf("csv: skipping line %d: %v", line, err)
			}
			t.Skipped++
			continue
		}
		if len(row) != len(header) {
			if t.Skipped < skipLogLimit {
				log.Printf("csv: skipping line %d: %d fields, header has %d", line, len(row), len(header))
			}
			t.Skipped++
			continue
		}
		out := make([]string, len(row))
		for i, v := range row {
			if opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			out[i] = v
		}
		t.Rows = append(t.Rows, out)
	}

	return t, nil
}

// Cell returns the value at (row, col). It exists to keep positional access
// in one place; callers must pass indices obtained from the classifier.
func (t *Table) Cell(row, col int) string {
	return t.Rows[row][col]
}
