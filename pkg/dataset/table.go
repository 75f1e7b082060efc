/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table.go
Description: Column-oriented table representation for QueryCollect. Tables are built column
by column, transformed by the operations package and finally frozen into ordered row
records for the web view and the API.
*/

package dataset

import (
	"bytes"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// Column is a named, typed sequence of cells. A nil cell is a missing value.
type Column struct {
	Name   string       `json:"name"`
	Type   SemanticType `json:"type"`
	Values []any        `json:"values"`
}

// Clone returns a copy of the column that shares no slice with c
func (c *Column) Clone() *Column {
	values := make([]any, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}

// HasMissing reports whether any cell of the column is missing
func (c *Column) HasMissing() bool {
	for _, v := range c.Values {
		if IsMissing(v) {
			return true
		}
	}
	return false
}

// Table is an ordered collection of equally long columns
type Table struct {
	Columns []*Column `json:"columns"`
}

// NewTable creates a table from columns. Panics if the columns differ in length.
func NewTable(columns ...*Column) *Table {
	t := &Table{Columns: columns}
	for _, c := range columns[min(1, len(columns)):] {
		if len(c.Values) != len(columns[0].Values) {
			panic("dataset: columns of a table must have the same length")
		}
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.Columns)
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the first column called name, or -1
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Positions returns the positions of all columns whose type satisfies match
func (t *Table) Positions(match func(SemanticType) bool) []int {
	var positions []int
	for i, c := range t.Columns {
		if match(c.Type) {
			positions = append(positions, i)
		}
	}
	return positions
}

// Row returns the cells of row i in column order
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.Columns))
	for c, col := range t.Columns {
		row[c] = col.Values[i]
	}
	return row
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	columns := make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = c.Clone()
	}
	return &Table{Columns: columns}
}

// Project returns a new table holding copies of the columns at positions, in that order
func (t *Table) Project(positions ...int) *Table {
	columns := make([]*Column, len(positions))
	for i, p := range positions {
		columns[i] = t.Columns[p].Clone()
	}
	return &Table{Columns: columns}
}

// SelectRows returns a new table holding the rows at indices, in that order
func (t *Table) SelectRows(indices []int) *Table {
	columns := make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		values := make([]any, len(indices))
		for r, idx := range indices {
			values[r] = c.Values[idx]
		}
		columns[i] = &Column{Name: c.Name, Type: c.Type, Values: values}
	}
	return &Table{Columns: columns}
}

// AppendRows appends copies of the rows at indices to the end of the table
func (t *Table) AppendRows(indices []int) {
	for _, c := range t.Columns {
		for _, idx := range indices {
			c.Values = append(c.Values, c.Values[idx])
		}
	}
}

// Records freezes the table into ordered row records
func (t *Table) Records() []Record {
	records := make([]Record, t.RowCount())
	for r := range records {
		record := make(Record, len(t.Columns))
		for c, col := range t.Columns {
			record[c] = Field{Name: col.Name, Value: col.Values[r]}
		}
		records[r] = record
	}
	return records
}

// Field is one named cell of a record
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Record is one table row as ordered (column name, value) pairs
type Record []Field

// Get returns the value of the first field called name
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the record as a JSON object keeping column order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := marshalCell(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalCell keeps whole floats distinguishable from integers, so 0.0 encodes as 0.0
func marshalCell(v any) ([]byte, error) {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.AppendFloat(nil, f, 'f', 1, 64), nil
	}
	return json.Marshal(v)
}
