package rows

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/coerce"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore"
)

// scenarioRecord is a representative svv_columns record with every cell in
// positional order. Cells 13..22 are legitimately empty for an integer
// column on Redshift.
func scenarioRecord() []string {
	return []string{
		"dev", "public", "orders", "order_id",
		"1", "\"identity\"(101510, 0, '1,1'::text)", "NO", "integer",
		"0", "32", "2", "0", "0",
		"", "", "", "", "", "", "", "", "", "",
	}
}

func scenarioRow() ColumnsRow {
	return ColumnsRow{
		TableCatalog:          "dev",
		TableSchema:           "public",
		TableName:             "orders",
		ColumnName:            "order_id",
		OrdinalPosition:       1,
		ColumnDefault:         "\"identity\"(101510, 0, '1,1'::text)",
		IsNullable:            "NO",
		DataType:              "integer",
		NumericPrecision:      32,
		NumericPrecisionRadix: 2,
	}
}

func TestColumnsRowFromRecord(t *testing.T) {
	got, err := ColumnsRowFromRecord(scenarioRecord(), 0)
	if err != nil {
		t.Fatalf("ColumnsRowFromRecord: %v", err)
	}
	if got != scenarioRow() {
		t.Errorf("row mismatch:\ngot  %+v\nwant %+v", got, scenarioRow())
	}
}

func TestColumnsRowFromRecordShortRecord(t *testing.T) {
	_, err := ColumnsRowFromRecord(scenarioRecord()[:5], 7)
	var mrf *coerce.MissingRequiredFieldError
	if !errors.As(err, &mrf) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
	if mrf.Row != 7 {
		t.Errorf("Row = %d, want 7", mrf.Row)
	}
}

func TestColumnsRowFromRecordEmptyIdentity(t *testing.T) {
	record := scenarioRecord()
	record[2] = "" // table_name
	_, err := ColumnsRowFromRecord(record, 3)
	var mrf *coerce.MissingRequiredFieldError
	if !errors.As(err, &mrf) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
	if mrf.Field != "cell 2" {
		t.Errorf("Field = %q, want %q", mrf.Field, "cell 2")
	}
}

func TestColumnsRowFromRecordGarbageOrdinal(t *testing.T) {
	record := scenarioRecord()
	record[4] = "first"
	if _, err := ColumnsRowFromRecord(record, 0); err == nil {
		t.Fatal("expected error for non-numeric ordinal_position")
	}
}

// openScenarioCursor runs the same scenario record through a mocked query
// result, with empty trailing cells presented as SQL NULLs.
func openScenarioCursor(t *testing.T) (*Cursor, *sql.Rows, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	record := scenarioRecord()
	vals := make([]driver.Value, len(record))
	for i, cell := range record {
		if i >= 13 && cell == "" {
			vals[i] = nil
			continue
		}
		vals[i] = cell
	}
	mockRows := sqlmock.NewRows(columnsColumns)
	mockRows.AddRow(vals...)
	mock.ExpectQuery("SELECT").WillReturnRows(mockRows)

	rs, err := db.Query("SELECT 1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !rs.Next() {
		t.Fatal("no record in mocked result")
	}
	cur, err := CursorFromRows(rs)
	if err != nil {
		t.Fatalf("CursorFromRows: %v", err)
	}
	if err := cur.Scan(rs); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return cur, rs, func() { rs.Close(); db.Close() }
}

// A SQL NULL and an empty delimited cell must materialize the same row.
func TestCursorAndRecordMaterializersAgree(t *testing.T) {
	cur, _, done := openScenarioCursor(t)
	defer done()

	fromCursor, err := ColumnsRowFromCursor(cur)
	if err != nil {
		t.Fatalf("ColumnsRowFromCursor: %v", err)
	}
	fromRecord, err := ColumnsRowFromRecord(scenarioRecord(), 0)
	if err != nil {
		t.Fatalf("ColumnsRowFromRecord: %v", err)
	}
	if fromCursor != fromRecord {
		t.Errorf("materializers disagree:\ncursor %+v\nrecord %+v", fromCursor, fromRecord)
	}
	if fromCursor.String() != fromRecord.String() {
		t.Errorf("line renderings disagree:\ncursor %q\nrecord %q", fromCursor.String(), fromRecord.String())
	}
}

func TestCursorMissingColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Result set lacking the remarks column entirely.
	short := columnsColumns[:len(columnsColumns)-1]
	mockRows := sqlmock.NewRows(short)
	record := scenarioRecord()
	vals := make([]driver.Value, len(short))
	for i := range short {
		vals[i] = record[i]
	}
	mockRows.AddRow(vals...)
	mock.ExpectQuery("SELECT").WillReturnRows(mockRows)

	rs, err := db.Query("SELECT 1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rs.Close()
	if !rs.Next() {
		t.Fatal("no record in mocked result")
	}
	cur, err := CursorFromRows(rs)
	if err != nil {
		t.Fatalf("CursorFromRows: %v", err)
	}
	if err := cur.Scan(rs); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	_, err = ColumnsRowFromCursor(cur)
	var mrf *coerce.MissingRequiredFieldError
	if !errors.As(err, &mrf) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
	if mrf.Field != "remarks" {
		t.Errorf("Field = %q, want %q", mrf.Field, "remarks")
	}
}

func TestColumnsLineRoundTrip(t *testing.T) {
	row := scenarioRow()
	// Values containing ", " must survive the keyed line format.
	row.Remarks = "primary key, assigned at insert"

	parsed, err := ParseColumnsLine(row.String())
	if err != nil {
		t.Fatalf("ParseColumnsLine: %v", err)
	}
	if parsed != row {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", parsed, row)
	}
}

func TestTablesLineRoundTrip(t *testing.T) {
	row := TablesRow{
		TableCatalog: "dev",
		TableSchema:  "public",
		TableName:    "orders",
		TableType:    "BASE TABLE",
		Remarks:      "orders, denormalized",
	}
	parsed, err := ParseTablesLine(row.String())
	if err != nil {
		t.Fatalf("ParseTablesLine: %v", err)
	}
	if parsed != row {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", parsed, row)
	}
}

func TestParseColumnsLineMalformed(t *testing.T) {
	if _, err := ParseColumnsLine("not a row line\n"); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestColumnsRowFromField(t *testing.T) {
	f := metastore.FieldView{
		Name: metastore.Some("ds"),
		Type: metastore.Some("string"),
	}
	got, err := ColumnsRowFromField("hive", "logs", "events", f, 4)
	if err != nil {
		t.Fatalf("ColumnsRowFromField: %v", err)
	}
	want := ColumnsRow{
		TableCatalog:    "hive",
		TableSchema:     "logs",
		TableName:       "events",
		ColumnName:      "ds",
		OrdinalPosition: 4,
		IsNullable:      "YES",
		DataType:        "string",
	}
	if got != want {
		t.Errorf("row mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// A field the server returns without a name is malformed.
	if _, err := ColumnsRowFromField("hive", "logs", "events", metastore.FieldView{}, 1); err == nil {
		t.Fatal("expected error for unnamed field")
	}
}

func TestFunctionsRowFromView(t *testing.T) {
	full := metastore.FunctionView{
		DatabaseName: metastore.Some("analytics"),
		FunctionName: metastore.Some("to_epoch"),
		ClassName:    metastore.Some("com.example.ToEpoch"),
		Type:         metastore.Some("JAVA"),
	}
	got, err := FunctionsRowFromView(full, 0)
	if err != nil {
		t.Fatalf("FunctionsRowFromView: %v", err)
	}
	want := FunctionsRow{
		DatabaseName: "analytics",
		FunctionName: "to_epoch",
		ClassName:    "com.example.ToEpoch",
		FunctionType: "JAVA",
	}
	if got != want {
		t.Errorf("row mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// Old revisions return name-only functions; optional attributes
	// coerce to empty, identity does not.
	nameOnly := metastore.FunctionView{
		DatabaseName: metastore.Some("analytics"),
		FunctionName: metastore.Some("to_epoch"),
	}
	got, err = FunctionsRowFromView(nameOnly, 0)
	if err != nil {
		t.Fatalf("FunctionsRowFromView name-only: %v", err)
	}
	if got.ClassName != "" || got.FunctionType != "" {
		t.Errorf("optional attributes should coerce to empty, got %+v", got)
	}

	if _, err := FunctionsRowFromView(metastore.FunctionView{DatabaseName: metastore.Some("analytics")}, 2); err == nil {
		t.Fatal("expected error for function without a name")
	}
}

func TestPartitionsRowFromView(t *testing.T) {
	got, err := PartitionsRowFromView("logs", "events", metastore.PartitionView{
		Name:     "ds=2024-01-01",
		Location: metastore.Some("s3://bucket/events/ds=2024-01-01"),
	}, 0)
	if err != nil {
		t.Fatalf("PartitionsRowFromView: %v", err)
	}
	if got.PartitionName != "ds=2024-01-01" || got.Location != "s3://bucket/events/ds=2024-01-01" {
		t.Errorf("unexpected row %+v", got)
	}

	// Location unset on the wire reads as empty, never as an error.
	got, err = PartitionsRowFromView("logs", "events", metastore.PartitionView{Name: "ds=2024-01-02"}, 1)
	if err != nil {
		t.Fatalf("PartitionsRowFromView without location: %v", err)
	}
	if got.Location != "" {
		t.Errorf("Location = %q, want empty", got.Location)
	}
}

type stubTable struct {
	metastore.Table
	tableType metastore.Opt[string]
}

func (s stubTable) TableType() metastore.Opt[string] { return s.tableType }

func TestTablesRowFromView(t *testing.T) {
	got := TablesRowFromView("hive", "logs", "events", stubTable{tableType: metastore.Some("EXTERNAL_TABLE")})
	want := TablesRow{
		TableCatalog: "hive",
		TableSchema:  "logs",
		TableName:    "events",
		TableType:    "EXTERNAL_TABLE",
	}
	if got != want {
		t.Errorf("row mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// Identity comes from the enumeration; an unset table type stays empty.
	got = TablesRowFromView("hive", "logs", "events", stubTable{})
	if got.TableType != "" {
		t.Errorf("TableType = %q, want empty", got.TableType)
	}
}
