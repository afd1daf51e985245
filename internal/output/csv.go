/*
PURPOSE:
  Writes report tables to CSV files.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - specs.csv, summary.csv, digits.csv, anomalies.csv and all_rows.csv
    next to each generated report, for spreadsheet work.

  Implementation-discovered:
  - Absent values are empty cells, matching the historical CSVs.
  - One writer type serves every table; the header is chosen by the caller.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: row records built in tables.go

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).
  - Record length must match the header.

USAGE:
  w, err := output.NewCSVWriter("summary.csv", output.SummaryColumns)
  w.Write(record)
  w.Close()

RELATED FILES:
  - internal/output/tables.go
*/

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// CSVWriter handles writing rows to a CSV file.
type CSVWriter struct {
	file    *os.File
	writer  *csv.Writer
	columns int
	mu      sync.Mutex
}

// NewCSVWriter creates a new CSVWriter and writes the header.
// It overwrites the file if it exists.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:    f,
		writer:  w,
		columns: len(header),
	}, nil
}

// Write writes a single record to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(record []string) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if len(record) != cw.columns {
		return fmt.Errorf("record has %d fields, header has %d", len(record), cw.columns)
	}
	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return err
	}
	return cw.file.Close()
}

// WriteTable writes header and all records to path in one go.
func WriteTable(path string, header []string, records [][]string) (err error) {
	w, err := NewCSVWriter(path, header)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
