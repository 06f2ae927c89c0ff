/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package table

import (
	"fmt"
	"math"

	"github.com/analitica-cumplimiento/anomaly-pipeline/pkg/config"
)

// Field describes one column.
type Field struct {
	Name string `yaml:"name" json:"name"`
	Kind Kind   `yaml:"kind" json:"kind"`
}

// ColumnNotFoundError is returned when an operation references an unknown column.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// Table is a row-oriented table with typed columns. Row identity is positional.
// A Table is never modified once built: every operation returns a new Table.
type Table struct {
	fields []Field
	index  map[string]int
	rows   []config.GenericMap
}

// New builds a table from fields and rows. Rows are copied and restricted to the given fields.
func New(fields []Field, rows []config.GenericMap) (*Table, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", f.Name)
		}
		index[f.Name] = i
	}
	t := &Table{
		fields: append([]Field(nil), fields...),
		index:  index,
		rows:   make([]config.GenericMap, len(rows)),
	}
	for i, row := range rows {
		t.rows[i] = t.project(row)
	}
	return t, nil
}

// Empty returns a table with the given columns and no rows.
func Empty(fields ...Field) (*Table, error) {
	return New(fields, nil)
}

func (t *Table) project(row config.GenericMap) config.GenericMap {
	out := make(config.GenericMap, len(t.fields))
	for _, f := range t.fields {
		if v, ok := row[f.Name]; ok {
			out[f.Name] = v
		} else {
			out[f.Name] = nil
		}
	}
	return out
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

func (t *Table) Names() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

func (t *Table) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Value returns the cell at row i, column name.
func (t *Table) Value(i int, name string) interface{} {
	return t.rows[i][name]
}

// Row returns a copy of row i.
func (t *Table) Row(i int) config.GenericMap {
	return t.rows[i].Copy()
}

// Rows returns copies of all rows.
func (t *Table) Rows() []config.GenericMap {
	out := make([]config.GenericMap, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Copy()
	}
	return out
}

// Column returns the values of a column in row order.
func (t *Table) Column(name string) ([]interface{}, error) {
	if !t.Has(name) {
		return nil, &ColumnNotFoundError{Column: name}
	}
	out := make([]interface{}, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out, nil
}

// Floats returns a numeric column as float64, missing values as NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	f, ok := t.Field(name)
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	if !f.Kind.IsNumeric() {
		return nil, fmt.Errorf("column %q of kind %s is not numeric", name, f.Kind)
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i], _ = ToFloat(r[name])
	}
	return out, nil
}

// Select returns a table with the named columns in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		f, ok := t.Field(n)
		if !ok {
			return nil, &ColumnNotFoundError{Column: n}
		}
		fields = append(fields, f)
	}
	return New(fields, t.rows)
}

// WithColumn returns a table where the column is replaced in place or appended at the end.
func (t *Table) WithColumn(f Field, values []interface{}) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", f.Name, len(values), len(t.rows))
	}
	fields := t.Fields()
	if i, ok := t.index[f.Name]; ok {
		fields[i] = f
	} else {
		fields = append(fields, f)
	}
	rows := make([]config.GenericMap, len(t.rows))
	for i, r := range t.rows {
		row := r.Copy()
		row[f.Name] = values[i]
		rows[i] = row
	}
	return New(fields, rows)
}

// WithFloatColumn is WithColumn for a float column; NaN values are stored as missing.
func (t *Table) WithFloatColumn(name string, values []float64) (*Table, error) {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		cells[i] = v
	}
	return t.WithColumn(Field{Name: name, Kind: KindFloat}, cells)
}

// WithIntColumn is WithColumn for an int column.
func (t *Table) WithIntColumn(name string, values []int64) (*Table, error) {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return t.WithColumn(Field{Name: name, Kind: KindInt}, cells)
}

// Take returns the rows at the given positions, in that order.
func (t *Table) Take(positions []int) *Table {
	rows := make([]config.GenericMap, len(positions))
	for i, p := range positions {
		rows[i] = t.rows[p]
	}
	out, _ := New(t.fields, rows)
	return out
}

// Concat joins tables side by side. All tables must have the same number of rows
// and no column name may repeat.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return Empty()
	}
	n := tables[0].Len()
	var fields []Field
	for _, tb := range tables {
		if tb.Len() != n {
			return nil, fmt.Errorf("cannot concat tables with %d and %d rows", n, tb.Len())
		}
		fields = append(fields, tb.fields...)
	}
	rows := make([]config.GenericMap, n)
	for i := range rows {
		row := make(config.GenericMap, len(fields))
		for _, tb := range tables {
			for k, v := range tb.rows[i] {
				row[k] = v
			}
		}
		rows[i] = row
	}
	return New(fields, rows)
}
