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

// Package coerce converts raw cells read from a query cursor, a delimited
// file, or a metastore RPC struct into the typed values the canonical row
// model requires. A cell can be absent in three ways (SQL NULL, a field left
// unset by an older wire protocol, or a cell missing from a short delimited
// record); all three collapse into Raw{Null: true} so the coercion rules do
// not depend on which source produced the data.
package coerce

import (
	"fmt"
	"strconv"
	"strings"
)

// Raw is one cell of a raw source record. Null means the cell carries no
// value at all; an empty Value with Null=false is a real (empty) value.
type Raw struct {
	Value string
	Null  bool
}

// FromString wraps a present cell value.
func FromString(v string) Raw {
	return Raw{Value: v}
}

// FromNull is the cell shape of a SQL NULL or an unset RPC attribute.
func FromNull() Raw {
	return Raw{Null: true}
}

// MissingRequiredFieldError reports a required attribute that was absent or
// unparseable in a raw record. Field is the column name or, for positional
// sources, the cell index. Row is the record ordinal within the source
// (zero-based, -1 when the caller does not track it).
type MissingRequiredFieldError struct {
	Field string
	Row   int
	Cause error
}

func (e *MissingRequiredFieldError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("missing required field %q at record %d", e.Field, e.Row)
}

func (e *MissingRequiredFieldError) Unwrap() error {
	return e.Cause
}

// RequiredString coerces a cell that must hold a non-empty value. NULL,
// unset, or empty-after-trimming cells fail; there is no defaulting.
func RequiredString(field string, row int, cell Raw) (string, error) {
	if cell.Null || strings.TrimSpace(cell.Value) == "" {
		return "", &MissingRequiredFieldError{Field: field, Row: row}
	}
	return cell.Value, nil
}

// RequiredInt coerces a cell that must hold a base-10 integer.
func RequiredInt(field string, row int, cell Raw) (int, error) {
	if cell.Null || strings.TrimSpace(cell.Value) == "" {
		return 0, &MissingRequiredFieldError{Field: field, Row: row}
	}
	n, err := strconv.Atoi(strings.TrimSpace(cell.Value))
	if err != nil {
		return 0, &MissingRequiredFieldError{Field: field, Row: row, Cause: err}
	}
	return n, nil
}

// StringNotNull maps an absent cell to the empty string. This is the
// explicitly requested default for attributes the canonical schema keeps as
// plain strings; a present empty value passes through unchanged, so a SQL
// NULL and an empty delimited cell converge on the same output.
func StringNotNull(cell Raw) string {
	if cell.Null {
		return ""
	}
	return cell.Value
}

// IntNotNull maps an absent or empty cell to zero by explicit request. A
// present cell that is not a number is still an error: the utilities never
// guess a value for malformed input.
func IntNotNull(field string, row int, cell Raw) (int, error) {
	if cell.Null || strings.TrimSpace(cell.Value) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(cell.Value))
	if err != nil {
		return 0, &MissingRequiredFieldError{Field: field, Row: row, Cause: err}
	}
	return n, nil
}
