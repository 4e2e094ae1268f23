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
	"strconv"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/coerce"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore"
)

// columnsColumns is the canonical column-descriptor schema, in order. The
// cursor materializer reads these as result-set column names; the delimited
// materializer reads cells at the matching positions.
var columnsColumns = []string{
	"table_catalog",
	"table_schema",
	"table_name",
	"column_name",
	"ordinal_position",
	"column_default",
	"is_nullable",
	"data_type",
	"character_maximum_length",
	"numeric_precision",
	"numeric_precision_radix",
	"numeric_scale",
	"datetime_precision",
	"interval_type",
	"interval_precision",
	"character_set_catalog",
	"character_set_schema",
	"character_set_name",
	"collation_catalog",
	"collation_schema",
	"collation_name",
	"domain_name",
	"remarks",
}

var columnsLineKeys = []string{
	"tableCatalog",
	"tableSchema",
	"tableName",
	"columnName",
	"ordinalPosition",
	"columnDefault",
	"isNullable",
	"dataType",
	"characterMaximumLength",
	"numericPrecision",
	"numericPrecisionRadix",
	"numericScale",
	"datetimePrecision",
	"intervalType",
	"intervalPrecision",
	"characterSetCatalog",
	"characterSetSchema",
	"characterSetName",
	"collationCatalog",
	"collationSchema",
	"collationName",
	"domainName",
	"remarks",
}

// ColumnsRow is the canonical column descriptor. The four identity
// attributes and the ordinal are mandatory; the remaining attributes are
// coerced not-null, so a SQL NULL, an empty delimited cell, and an unset RPC
// field all land on the same explicit empty value.
type ColumnsRow struct {
	TableCatalog           string
	TableSchema            string
	TableName              string
	ColumnName             string
	OrdinalPosition        int
	ColumnDefault          string
	IsNullable             string
	DataType               string
	CharacterMaximumLength int
	NumericPrecision       int
	NumericPrecisionRadix  int
	NumericScale           int
	DatetimePrecision      int
	IntervalType           string
	IntervalPrecision      string
	CharacterSetCatalog    string
	CharacterSetSchema     string
	CharacterSetName       string
	CollationCatalog       string
	CollationSchema        string
	CollationName          string
	DomainName             string
	Remarks                string
}

var _ Row = ColumnsRow{}

func (ColumnsRow) Kind() string {
	return "columns"
}

func (ColumnsRow) Header() []string {
	return append([]string(nil), columnsColumns...)
}

func (r ColumnsRow) Record() []string {
	return []string{
		r.TableCatalog,
		r.TableSchema,
		r.TableName,
		r.ColumnName,
		strconv.Itoa(r.OrdinalPosition),
		r.ColumnDefault,
		r.IsNullable,
		r.DataType,
		strconv.Itoa(r.CharacterMaximumLength),
		strconv.Itoa(r.NumericPrecision),
		strconv.Itoa(r.NumericPrecisionRadix),
		strconv.Itoa(r.NumericScale),
		strconv.Itoa(r.DatetimePrecision),
		r.IntervalType,
		r.IntervalPrecision,
		r.CharacterSetCatalog,
		r.CharacterSetSchema,
		r.CharacterSetName,
		r.CollationCatalog,
		r.CollationSchema,
		r.CollationName,
		r.DomainName,
		r.Remarks,
	}
}

func (r ColumnsRow) String() string {
	return renderLine(columnsLineKeys, r.Record())
}

// ColumnsRowFromCursor materializes one column descriptor from the loaded
// cursor record.
func ColumnsRowFromCursor(c *Cursor) (ColumnsRow, error) {
	rd := &cursorReader{cur: c}
	row := ColumnsRow{
		TableCatalog:           rd.requiredString("table_catalog"),
		TableSchema:            rd.requiredString("table_schema"),
		TableName:              rd.requiredString("table_name"),
		ColumnName:             rd.requiredString("column_name"),
		OrdinalPosition:        rd.requiredInt("ordinal_position"),
		ColumnDefault:          rd.stringNotNull("column_default"),
		IsNullable:             rd.requiredString("is_nullable"),
		DataType:               rd.requiredString("data_type"),
		CharacterMaximumLength: rd.intNotNull("character_maximum_length"),
		NumericPrecision:       rd.intNotNull("numeric_precision"),
		NumericPrecisionRadix:  rd.intNotNull("numeric_precision_radix"),
		NumericScale:           rd.intNotNull("numeric_scale"),
		DatetimePrecision:      rd.intNotNull("datetime_precision"),
		IntervalType:           rd.stringNotNull("interval_type"),
		IntervalPrecision:      rd.stringNotNull("interval_precision"),
		CharacterSetCatalog:    rd.stringNotNull("character_set_catalog"),
		CharacterSetSchema:     rd.stringNotNull("character_set_schema"),
		CharacterSetName:       rd.stringNotNull("character_set_name"),
		CollationCatalog:       rd.stringNotNull("collation_catalog"),
		CollationSchema:        rd.stringNotNull("collation_schema"),
		CollationName:          rd.stringNotNull("collation_name"),
		DomainName:             rd.stringNotNull("domain_name"),
		Remarks:                rd.stringNotNull("remarks"),
	}
	if rd.err != nil {
		return ColumnsRow{}, rd.err
	}
	return row, nil
}

// ColumnsRowFromRecord materializes one column descriptor from a delimited
// file record. Fields are positional; recordNum identifies the record in
// errors.
func ColumnsRowFromRecord(record []string, recordNum int) (ColumnsRow, error) {
	rd := &recordReader{record: record, row: recordNum}
	row := ColumnsRow{
		TableCatalog:           rd.requiredString(0),
		TableSchema:            rd.requiredString(1),
		TableName:              rd.requiredString(2),
		ColumnName:             rd.requiredString(3),
		OrdinalPosition:        rd.requiredInt(4),
		ColumnDefault:          rd.stringNotNull(5),
		IsNullable:             rd.requiredString(6),
		DataType:               rd.requiredString(7),
		CharacterMaximumLength: rd.intNotNull(8),
		NumericPrecision:       rd.intNotNull(9),
		NumericPrecisionRadix:  rd.intNotNull(10),
		NumericScale:           rd.intNotNull(11),
		DatetimePrecision:      rd.intNotNull(12),
		IntervalType:           rd.stringNotNull(13),
		IntervalPrecision:      rd.stringNotNull(14),
		CharacterSetCatalog:    rd.stringNotNull(15),
		CharacterSetSchema:     rd.stringNotNull(16),
		CharacterSetName:       rd.stringNotNull(17),
		CollationCatalog:       rd.stringNotNull(18),
		CollationSchema:        rd.stringNotNull(19),
		CollationName:          rd.stringNotNull(20),
		DomainName:             rd.stringNotNull(21),
		Remarks:                rd.stringNotNull(22),
	}
	if rd.err != nil {
		return ColumnsRow{}, rd.err
	}
	return row, nil
}

// ColumnsRowFromField materializes one column descriptor from a metastore
// field view. Metastore columns carry no nullability constraint, so
// isNullable is always "YES"; position is the 1-based ordinal within the
// table's schema, tracked by the caller since the view does not carry it.
func ColumnsRowFromField(catalog, database, table string, f metastore.FieldView, position int) (ColumnsRow, error) {
	name, err := coerce.RequiredString("field name", position-1, optRaw(f.Name))
	if err != nil {
		return ColumnsRow{}, err
	}
	cat, err := coerce.RequiredString("catalog", position-1, coerce.FromString(catalog))
	if err != nil {
		return ColumnsRow{}, err
	}
	return ColumnsRow{
		TableCatalog:    cat,
		TableSchema:     database,
		TableName:       table,
		ColumnName:      name,
		OrdinalPosition: position,
		IsNullable:      "YES",
		DataType:        coerce.StringNotNull(optRaw(f.Type)),
		Remarks:         coerce.StringNotNull(optRaw(f.Comment)),
	}, nil
}

// ParseColumnsLine re-parses the line rendering produced by String.
func ParseColumnsLine(line string) (ColumnsRow, error) {
	values, err := parseLine(columnsLineKeys, line)
	if err != nil {
		return ColumnsRow{}, err
	}
	return ColumnsRowFromRecord(values, 0)
}
