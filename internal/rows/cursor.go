/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package rows

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/coerce"
)

// Cursor exposes one query-result record as named raw cells. Every cell is
// scanned as nullable text, the same shape a delimited-file record has, so
// both sources feed the coercion utilities identically. Attributes are read
// by column name; the result set's column order does not matter.
type Cursor struct {
	index map[string]int
	cells []sql.NullString
	dest  []any
	row   int
}

// NewCursor prepares a cursor for a result set with the given columns.
func NewCursor(columns []string) *Cursor {
	c := &Cursor{
		index: make(map[string]int, len(columns)),
		cells: make([]sql.NullString, len(columns)),
		dest:  make([]any, len(columns)),
		row:   -1,
	}
	for i, name := range columns {
		c.index[name] = i
		c.dest[i] = &c.cells[i]
	}
	return c
}

// CursorFromRows builds a cursor matching an open result set's column list.
func CursorFromRows(rs *sql.Rows) (*Cursor, error) {
	columns, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result set columns: %w", err)
	}
	return NewCursor(columns), nil
}

// Scan loads the result set's current record into the cursor.
func (c *Cursor) Scan(rs *sql.Rows) error {
	if err := rs.Scan(c.dest...); err != nil {
		return fmt.Errorf("scanning record %d: %w", c.row+1, err)
	}
	c.row++
	return nil
}

// Row is the zero-based ordinal of the loaded record.
func (c *Cursor) Row() int {
	return c.row
}

// Cell returns the named cell. A column absent from the result set is a
// structural error, not an empty value.
func (c *Cursor) Cell(name string) (coerce.Raw, error) {
	i, ok := c.index[name]
	if !ok {
		return coerce.Raw{}, &coerce.MissingRequiredFieldError{Field: name, Row: c.row}
	}
	if !c.cells[i].Valid {
		return coerce.FromNull(), nil
	}
	return coerce.FromString(c.cells[i].String), nil
}

// cursorReader reads typed attributes off a cursor with a sticky error, so
// materializers stay a flat field list like the schema itself.
type cursorReader struct {
	cur *Cursor
	err error
}

func (r *cursorReader) requiredString(name string) string {
	if r.err != nil {
		return ""
	}
	cell, err := r.cur.Cell(name)
	if err != nil {
		r.err = err
		return ""
	}
	v, err := coerce.RequiredString(name, r.cur.Row(), cell)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *cursorReader) requiredInt(name string) int {
	if r.err != nil {
		return 0
	}
	cell, err := r.cur.Cell(name)
	if err != nil {
		r.err = err
		return 0
	}
	v, err := coerce.RequiredInt(name, r.cur.Row(), cell)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *cursorReader) stringNotNull(name string) string {
	if r.err != nil {
		return ""
	}
	cell, err := r.cur.Cell(name)
	if err != nil {
		r.err = err
		return ""
	}
	return coerce.StringNotNull(cell)
}

func (r *cursorReader) intNotNull(name string) int {
	if r.err != nil {
		return 0
	}
	cell, err := r.cur.Cell(name)
	if err != nil {
		r.err = err
		return 0
	}
	v, err := coerce.IntNotNull(name, r.cur.Row(), cell)
	if err != nil {
		r.err = err
	}
	return v
}

// recordReader is the positional counterpart over a delimited-file record.
type recordReader struct {
	record []string
	row    int
	err    error
}

func (r *recordReader) cell(i int) (coerce.Raw, bool) {
	if r.err != nil {
		return coerce.Raw{}, false
	}
	if i >= len(r.record) {
		r.err = &coerce.MissingRequiredFieldError{Field: "cell " + strconv.Itoa(i), Row: r.row}
		return coerce.Raw{}, false
	}
	return coerce.FromString(r.record[i]), true
}

func (r *recordReader) requiredString(i int) string {
	cell, ok := r.cell(i)
	if !ok {
		return ""
	}
	v, err := coerce.RequiredString("cell "+strconv.Itoa(i), r.row, cell)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *recordReader) requiredInt(i int) int {
	cell, ok := r.cell(i)
	if !ok {
		return 0
	}
	v, err := coerce.RequiredInt("cell "+strconv.Itoa(i), r.row, cell)
	if err != nil {
		r.err = err
	}
	return v
}

func (r *recordReader) stringNotNull(i int) string {
	cell, ok := r.cell(i)
	if !ok {
		return ""
	}
	return coerce.StringNotNull(cell)
}

func (r *recordReader) intNotNull(i int) int {
	cell, ok := r.cell(i)
	if !ok {
		return 0
	}
	v, err := coerce.IntNotNull("cell "+strconv.Itoa(i), r.row, cell)
	if err != nil {
		r.err = err
	}
	return v
}
