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

// Package rows defines the canonical row shapes all extraction sources
// converge to, and the materializers that build them from a query cursor, a
// delimited-file record, or metastore entity views. A canonical row always
// populates every attribute of its schema; the materializers never emit a
// partial row. Rows are plain comparable value structs: equality is
// structural and copies are free, so a produced row is safe to share.
package rows

import (
	"fmt"
	"strings"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/coerce"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore"
)

// Row is one canonical record of some metadata kind.
type Row interface {
	// Kind names the metadata kind ("columns", "tables", ...); artifact
	// files are named after it.
	Kind() string
	// Header lists the attribute names in schema order.
	Header() []string
	// Record renders every attribute as text, in schema order.
	Record() []string
	// String is the human-readable line rendering: "k=v, k=v" in stable
	// schema order with a trailing line terminator.
	fmt.Stringer
}

// renderLine builds the line form shared by all row kinds.
func renderLine(keys, values []string) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values[i])
	}
	b.WriteByte('\n')
	return b.String()
}

// parseLine is the inverse of renderLine. It anchors each value on the
// ", <nextKey>=" separator, so values containing a bare ", " survive the
// round trip; a value embedding the next key's own separator does not, which
// the schema tolerates for the diffing/logging use this form serves.
func parseLine(keys []string, line string) ([]string, error) {
	line = strings.TrimSuffix(line, "\n")
	values := make([]string, len(keys))
	rest := line
	for i, k := range keys {
		prefix := k + "="
		if !strings.HasPrefix(rest, prefix) {
			return nil, fmt.Errorf("malformed row line: expected %q at %q", prefix, rest)
		}
		rest = rest[len(prefix):]
		if i == len(keys)-1 {
			values[i] = rest
			break
		}
		sep := ", " + keys[i+1] + "="
		idx := strings.Index(rest, sep)
		if idx < 0 {
			return nil, fmt.Errorf("malformed row line: missing field %q", keys[i+1])
		}
		values[i] = rest[:idx]
		rest = rest[idx+2:]
	}
	return values, nil
}

// optRaw lifts a metastore optional attribute into a raw cell: not-set reads
// exactly like a SQL NULL.
func optRaw(o metastore.Opt[string]) coerce.Raw {
	if v, ok := o.Get(); ok {
		return coerce.FromString(v)
	}
	return coerce.FromNull()
}
