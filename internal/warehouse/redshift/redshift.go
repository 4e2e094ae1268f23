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
package redshift

import (
	"database/sql"
	"fmt"
	"strings"

	// Redshift speaks the postgres wire protocol.
	_ "github.com/lib/pq"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse"
)

// redshiftHandler implements warehouse.DialectHandler for Amazon Redshift.
type redshiftHandler struct{}

var _ warehouse.DialectHandler = (*redshiftHandler)(nil)

func (h redshiftHandler) CreateStandardPool(cfg config.SourceConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	pool, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening redshift connection: %w", err)
	}
	return pool, nil
}

func (h redshiftHandler) CreateCloudSQLPool(cfg config.SourceConfig) (*sql.DB, error) {
	return nil, fmt.Errorf("redshift has no Cloud SQL variant")
}

func (h redshiftHandler) QuoteIdentifier(name string) string {
	name = strings.Replace(name, `"`, `""`, -1)
	return fmt.Sprintf(`"%s"`, name)
}

// ColumnsQuery reads svv_columns, which carries the canonical shape
// natively, remarks included.
func (h redshiftHandler) ColumnsQuery() string {
	return `
		SELECT table_catalog, table_schema, table_name, column_name,
		       ordinal_position, column_default, is_nullable, data_type,
		       character_maximum_length, numeric_precision,
		       numeric_precision_radix, numeric_scale, datetime_precision,
		       interval_type, interval_precision, character_set_catalog,
		       character_set_schema, character_set_name, collation_catalog,
		       collation_schema, collation_name, domain_name, remarks
		FROM svv_columns
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_schema, table_name, ordinal_position;`
}

func (h redshiftHandler) TablesQuery() string {
	return `
		SELECT table_catalog, table_schema, table_name, table_type, remarks
		FROM svv_tables
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_schema, table_name;`
}

func init() {
	warehouse.RegisterDialectHandler("redshift", redshiftHandler{})
}
