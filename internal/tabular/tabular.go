// Package tabular parses uploaded spreadsheet payloads into a small
// column-addressable table. Format dispatch follows the file extension:
// .csv via encoding/csv, .xlsx via excelize (first sheet).
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for extensions other than .csv/.xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Table is a header-addressed, row-oriented view of a parsed upload.
type Table struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

// SupportedExtension reports whether the filename carries a parseable
// extension. Callers check this before reading any bytes.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	default:
		return false
	}
}

// Parse reads an uploaded payload into a Table.
func Parse(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx":
		return parseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func parseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("parse csv: file is empty")
	}
	return newTable(records[0], records[1:])
}

func parseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("parse xlsx: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("parse xlsx: sheet is empty")
	}

	// excelize trims trailing empty cells; pad rows to the header width.
	header := rows[0]
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		body = append(body, row)
	}
	return newTable(header, body)
}

func newTable(header []string, rows [][]string) (*Table, error) {
	headers := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		headers[i] = name
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(headers))
		}
	}
	return &Table{headers: headers, index: index, rows: rows}, nil
}

// Headers returns the column names in file order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// HasColumn reports whether a named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the trimmed cell value at (row, column). The second return is
// false when the column does not exist.
func (t *Table) Cell(row int, column string) (string, bool) {
	col, ok := t.index[column]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(t.rows[row][col]), true
}

// Column returns all trimmed values of a named column, in row order.
func (t *Table) Column(name string) ([]string, bool) {
	col, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = strings.TrimSpace(row[col])
	}
	return out, true
}
