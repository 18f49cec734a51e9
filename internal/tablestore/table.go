package tablestore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// Row is one data row. Line is the 1-based line of the row in the file, or 0
// for rows created in memory.
type Row struct {
	Line  int
	Cells map[string]string
}

// NewRow builds a row from cells.
func NewRow(cells map[string]string) Row {
	if cells == nil {
		cells = map[string]string{}
	}
	return Row{Cells: cells}
}

// Get returns a cell value, "" when absent.
func (r Row) Get(column string) string {
	return r.Cells[column]
}

// Set assigns a cell value.
func (r Row) Set(column, value string) {
	r.Cells[column] = value
}

// Clone returns an independent copy.
func (r Row) Clone() Row {
	return Row{Line: r.Line, Cells: maps.Clone(r.Cells)}
}

type table struct {
	schema *Schema
	path   string
	header []string
	rows   []Row
	index  map[string]int
	loaded bool
	dirty  bool
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (t *table) load() error {
	if t.loaded {
		return nil
	}
	data, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		t.header = columnNames(t.schema.Columns)
		t.loaded = true
		t.reindex()
		return nil
	}
	if err != nil {
		return &TableError{Table: t.schema.Type, Path: t.path, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		t.header = columnNames(t.schema.Columns)
		t.loaded = true
		t.reindex()
		return nil
	}
	if err != nil {
		return &TableError{Table: t.schema.Type, Path: t.path, Err: err}
	}
	t.header = header
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &TableError{Table: t.schema.Type, Path: t.path, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if len(record) > len(header) {
			return &TableError{Table: t.schema.Type, Path: t.path, Line: line,
				Err: fmt.Errorf("row has %d cells but the header has %d", len(record), len(header))}
		}
		cells := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				cells[name] = record[i]
			}
		}
		t.rows = append(t.rows, Row{Line: line, Cells: cells})
	}
	for _, c := range t.schema.Columns {
		if !slices.Contains(t.header, c.Name) {
			t.header = append(t.header, c.Name)
		}
	}
	t.loaded = true
	t.reindex()
	return nil
}

func (t *table) reindex() {
	t.index = make(map[string]int, len(t.rows))
	if t.schema.PrimaryKey == "" {
		return
	}
	for i, row := range t.rows {
		id := row.Cells[t.schema.PrimaryKey]
		if _, dup := t.index[id]; !dup {
			t.index[id] = i
		}
	}
}

func (t *table) write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.header); err != nil {
		return err
	}
	record := make([]string, len(t.header))
	for _, row := range t.rows {
		for i, name := range t.header {
			record[i] = row.Cells[name]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func columnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
