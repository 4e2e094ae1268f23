package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
)

// Mock DialectHandler implementation
type mockDialectHandler struct {
	createStandardPoolFn func(cfg config.SourceConfig) (*sql.DB, error)
	createCloudSQLPoolFn func(cfg config.SourceConfig) (*sql.DB, error)
	columnsQuery         string
	tablesQuery          string

	standardCalls int
	cloudSQLCalls int
}

func (m *mockDialectHandler) CreateStandardPool(cfg config.SourceConfig) (*sql.DB, error) {
	m.standardCalls++
	if m.createStandardPoolFn != nil {
		return m.createStandardPoolFn(cfg)
	}
	db, mock, _ := sqlmock.New(sqlmock.MonitorPingsOption(true))
	mock.ExpectPing()
	return db, nil
}

func (m *mockDialectHandler) CreateCloudSQLPool(cfg config.SourceConfig) (*sql.DB, error) {
	m.cloudSQLCalls++
	if m.createCloudSQLPoolFn != nil {
		return m.createCloudSQLPoolFn(cfg)
	}
	db, mock, _ := sqlmock.New(sqlmock.MonitorPingsOption(true))
	mock.ExpectPing()
	return db, nil
}

func (m *mockDialectHandler) QuoteIdentifier(name string) string { return fmt.Sprintf(`"%s"`, name) }
func (m *mockDialectHandler) ColumnsQuery() string               { return m.columnsQuery }
func (m *mockDialectHandler) TablesQuery() string                { return m.tablesQuery }

func newPingableMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return db, mock
}

func TestGetDialectHandlerUnknown(t *testing.T) {
	_, err := GetDialectHandler("no-such-dialect")
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestRegisterAndGetDialectHandler(t *testing.T) {
	handler := &mockDialectHandler{}
	RegisterDialectHandler("mockdialect", handler)

	got, err := GetDialectHandler("mockdialect")
	if err != nil {
		t.Fatalf("GetDialectHandler: %v", err)
	}
	if got != DialectHandler(handler) {
		t.Error("returned handler is not the registered one")
	}

	found := false
	for _, name := range Dialects() {
		if name == "mockdialect" {
			found = true
		}
	}
	if !found {
		t.Error("Dialects() does not list the registered dialect")
	}
}

func TestNewPicksPoolByInstanceName(t *testing.T) {
	handler := &mockDialectHandler{}
	RegisterDialectHandler("poolpick", handler)

	cfg := config.SourceConfig{Dialect: "poolpick"}
	db, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	db.Close()
	if handler.standardCalls != 1 || handler.cloudSQLCalls != 0 {
		t.Errorf("standard=%d cloudsql=%d, want 1/0", handler.standardCalls, handler.cloudSQLCalls)
	}

	cfg.CloudSQLInstanceConnectionName = "proj:region:instance"
	db, err = New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New (cloudsql): %v", err)
	}
	db.Close()
	if handler.cloudSQLCalls != 1 {
		t.Errorf("cloudSQLCalls = %d, want 1", handler.cloudSQLCalls)
	}
}

func TestNewFailsWhenPingFails(t *testing.T) {
	pool, mock := newPingableMock(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	handler := &mockDialectHandler{
		createStandardPoolFn: func(cfg config.SourceConfig) (*sql.DB, error) { return pool, nil },
	}
	RegisterDialectHandler("pingfail", handler)

	if _, err := New(context.Background(), config.SourceConfig{Dialect: "pingfail"}); err == nil {
		t.Fatal("expected error when ping fails")
	}
}

func TestQueryColumnsUsesHandlerQuery(t *testing.T) {
	pool, mock := newPingableMock(t)
	defer pool.Close()
	handler := &mockDialectHandler{columnsQuery: "SELECT col_catalog_stub"}

	mock.ExpectQuery("SELECT col_catalog_stub").
		WillReturnRows(sqlmock.NewRows([]string{"table_catalog"}).AddRow("dev"))

	db := &DB{Pool: pool, Handler: handler}
	rs, err := db.QueryColumns(context.Background())
	if err != nil {
		t.Fatalf("QueryColumns: %v", err)
	}
	defer rs.Close()
	if !rs.Next() {
		t.Fatal("expected one record")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestQueryTablesUsesHandlerQuery(t *testing.T) {
	pool, mock := newPingableMock(t)
	defer pool.Close()
	handler := &mockDialectHandler{tablesQuery: "SELECT tbl_catalog_stub"}

	mock.ExpectQuery("SELECT tbl_catalog_stub").
		WillReturnRows(sqlmock.NewRows([]string{"table_catalog"}).AddRow("dev"))

	db := &DB{Pool: pool, Handler: handler}
	rs, err := db.QueryTables(context.Background())
	if err != nil {
		t.Fatalf("QueryTables: %v", err)
	}
	defer rs.Close()
	if !rs.Next() {
		t.Fatal("expected one record")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
