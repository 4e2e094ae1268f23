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
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse"
)

// postgresHandler struct implements warehouse.DialectHandler for PostgreSQL.
type postgresHandler struct{}

var _ warehouse.DialectHandler = (*postgresHandler)(nil)

// CreateCloudSQLPool for PostgreSQL
func (h postgresHandler) CreateCloudSQLPool(cfg config.SourceConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("user=%s password=%s database=%s", cfg.User, cfg.Password, cfg.DBName)
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	var opts []cloudsqlconn.Option
	if cfg.UsePrivateIP {
		opts = append(opts, cloudsqlconn.WithDefaultDialOptions(cloudsqlconn.WithPrivateIP()))
	}
	d, err := cloudsqlconn.NewDialer(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	instanceConnectionName := cfg.CloudSQLInstanceConnectionName
	connConfig.DialFunc = func(ctx context.Context, network, instance string) (net.Conn, error) {
		return d.Dial(ctx, instanceConnectionName)
	}
	dbURI := stdlib.RegisterConnConfig(connConfig)
	pool, err := sql.Open("pgx", dbURI)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return pool, nil
}

// CreateStandardPool creates a standard PostgreSQL connection pool
func (h postgresHandler) CreateStandardPool(cfg config.SourceConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	pool, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	return pool, nil
}

// QuoteIdentifier for PostgreSQL
func (h postgresHandler) QuoteIdentifier(name string) string {
	name = strings.Replace(name, `"`, `""`, -1)
	return fmt.Sprintf(`"%s"`, name)
}

// ColumnsQuery projects information_schema.columns onto the canonical
// shape. Plain postgres has no remarks column there, so it is NULL.
func (h postgresHandler) ColumnsQuery() string {
	return `
		SELECT table_catalog, table_schema, table_name, column_name,
		       ordinal_position, column_default, is_nullable, data_type,
		       character_maximum_length, numeric_precision,
		       numeric_precision_radix, numeric_scale, datetime_precision,
		       interval_type, interval_precision, character_set_catalog,
		       character_set_schema, character_set_name, collation_catalog,
		       collation_schema, collation_name, domain_name,
		       NULL::text AS remarks
		FROM information_schema.columns
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_schema, table_name, ordinal_position;`
}

func (h postgresHandler) TablesQuery() string {
	return `
		SELECT table_catalog, table_schema, table_name, table_type,
		       NULL::text AS remarks
		FROM information_schema.tables
		WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
		ORDER BY table_schema, table_name;`
}

func init() {
	warehouse.RegisterDialectHandler("postgres", postgresHandler{})
	warehouse.RegisterDialectHandler("cloudsqlpostgres", postgresHandler{})
}
