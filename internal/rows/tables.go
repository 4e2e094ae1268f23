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
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore"
)

var tablesColumns = []string{
	"table_catalog",
	"table_schema",
	"table_name",
	"table_type",
	"remarks",
}

var tablesLineKeys = []string{
	"tableCatalog",
	"tableSchema",
	"tableName",
	"tableType",
	"remarks",
}

// TablesRow is the canonical table descriptor.
type TablesRow struct {
	TableCatalog string
	TableSchema  string
	TableName    string
	TableType    string
	Remarks      string
}

var _ Row = TablesRow{}

func (TablesRow) Kind() string {
	return "tables"
}

func (TablesRow) Header() []string {
	return append([]string(nil), tablesColumns...)
}

func (r TablesRow) Record() []string {
	return []string{r.TableCatalog, r.TableSchema, r.TableName, r.TableType, r.Remarks}
}

func (r TablesRow) String() string {
	return renderLine(tablesLineKeys, r.Record())
}

// TablesRowFromCursor materializes one table descriptor from the loaded
// cursor record.
func TablesRowFromCursor(c *Cursor) (TablesRow, error) {
	rd := &cursorReader{cur: c}
	row := TablesRow{
		TableCatalog: rd.requiredString("table_catalog"),
		TableSchema:  rd.requiredString("table_schema"),
		TableName:    rd.requiredString("table_name"),
		TableType:    rd.stringNotNull("table_type"),
		Remarks:      rd.stringNotNull("remarks"),
	}
	if rd.err != nil {
		return TablesRow{}, rd.err
	}
	return row, nil
}

// TablesRowFromRecord materializes one table descriptor from a delimited
// file record.
func TablesRowFromRecord(record []string, recordNum int) (TablesRow, error) {
	rd := &recordReader{record: record, row: recordNum}
	row := TablesRow{
		TableCatalog: rd.requiredString(0),
		TableSchema:  rd.requiredString(1),
		TableName:    rd.requiredString(2),
		TableType:    rd.stringNotNull(3),
		Remarks:      rd.stringNotNull(4),
	}
	if rd.err != nil {
		return TablesRow{}, rd.err
	}
	return row, nil
}

// TablesRowFromView materializes one table descriptor from a metastore
// table view. The view's own name attributes may legitimately be unset on
// old protocol revisions, so identity comes from the enumeration that led
// here.
func TablesRowFromView(catalog, database, table string, t metastore.Table) TablesRow {
	view := TablesRow{
		TableCatalog: catalog,
		TableSchema:  database,
		TableName:    table,
	}
	if v, ok := t.TableType().Get(); ok {
		view.TableType = v
	}
	return view
}

// ParseTablesLine re-parses the line rendering produced by String.
func ParseTablesLine(line string) (TablesRow, error) {
	values, err := parseLine(tablesLineKeys, line)
	if err != nil {
		return TablesRow{}, err
	}
	return TablesRowFromRecord(values, 0)
}
