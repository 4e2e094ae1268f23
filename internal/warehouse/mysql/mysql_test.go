package mysql

import (
	"strings"
	"testing"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/rows"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse"
)

func TestHandlersAreRegistered(t *testing.T) {
	for _, name := range []string{"mysql", "cloudsqlmysql"} {
		if _, err := warehouse.GetDialectHandler(name); err != nil {
			t.Errorf("%s handler not registered: %v", name, err)
		}
	}
}

// MySQL's information_schema lacks several canonical attributes; the query
// must still project all of them under their canonical names.
func TestColumnsQueryProjectsCanonicalShape(t *testing.T) {
	q := mysqlHandler{}.ColumnsQuery()
	for _, name := range (rows.ColumnsRow{}).Header() {
		if !strings.Contains(q, name) {
			t.Errorf("ColumnsQuery does not project %q", name)
		}
	}
	if !strings.Contains(q, "COLUMN_COMMENT") {
		t.Error("ColumnsQuery should surface column comments as remarks")
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := (mysqlHandler{}).QuoteIdentifier("a`b"); got != "`a``b`" {
		t.Errorf("QuoteIdentifier = %q", got)
	}
}
