// pkg/table/csv.go
package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV materializes a table from CSV input. The first record is the
// header; every cell is read as text, except empty fields, which become
// the absent-value marker.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := New(header...)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		cells := make(map[string]Value, len(header))
		for i, name := range header {
			if i >= len(record) || record[i] == "" {
				continue
			}
			cells[name] = Text(record[i])
		}
		t.AppendRow(cells)
	}
	return t, nil
}

// WriteCSV serializes the table as CSV. Absent cells are written as
// empty fields.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	names := t.Columns()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(names))
	for i := 0; i < t.NumRows(); i++ {
		for j, name := range names {
			cell, _ := t.Cell(name, i)
			record[j] = cell.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
