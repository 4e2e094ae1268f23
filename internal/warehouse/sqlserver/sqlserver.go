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
package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	mssql "github.com/denisenkom/go-mssqldb"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse"
)

// sqlServerHandler struct implements warehouse.DialectHandler for SQL Server.
type sqlServerHandler struct{}

var _ warehouse.DialectHandler = (*sqlServerHandler)(nil)

type csqlDialer struct {
	dialer     *cloudsqlconn.Dialer
	connName   string
	usePrivate bool
}

// DialContext adheres to the mssql.Dialer interface.
func (c *csqlDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var opts []cloudsqlconn.DialOption
	if c.usePrivate {
		opts = append(opts, cloudsqlconn.WithPrivateIP())
	}
	return c.dialer.Dial(ctx, c.connName, opts...)
}

// CreateCloudSQLPool for SQL Server
func (h sqlServerHandler) CreateCloudSQLPool(cfg config.SourceConfig) (*sql.DB, error) {
	// WithLazyRefresh() performs certificate refresh on demand rather
	// than on a scheduled interval, which suits serverless environments.
	dialer, err := cloudsqlconn.NewDialer(context.Background(), cloudsqlconn.WithLazyRefresh())
	if err != nil {
		return nil, fmt.Errorf("cloudsqlconn.NewDialer: %w", err)
	}
	connector, err := mssql.NewConnector(fmt.Sprintf("sqlserver://%s:%s@localhost:1433?database=%s&dial=cloudsqlconn&instance=%s",
		cfg.User, cfg.Password, cfg.DBName, cfg.CloudSQLInstanceConnectionName))
	if err != nil {
		return nil, fmt.Errorf("mssql.NewConnector: %w", err)
	}
	connector.Dialer = &csqlDialer{
		dialer:     dialer,
		connName:   cfg.CloudSQLInstanceConnectionName,
		usePrivate: cfg.UsePrivateIP,
	}

	return sql.OpenDB(connector), nil
}

// CreateStandardPool creates a standard SQL Server connection pool
func (h sqlServerHandler) CreateStandardPool(cfg config.SourceConfig) (*sql.DB, error) {
	port := cfg.Port
	if port == 0 {
		port = 1433
	}
	connStr := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
		cfg.User, cfg.Password, cfg.Host, port, cfg.DBName)

	pool, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("sql.Open (standard sqlserver): %w", err)
	}
	return pool, nil
}

// QuoteIdentifier for SQL Server uses square brackets.
func (h sqlServerHandler) QuoteIdentifier(name string) string {
	return fmt.Sprintf("[%s]", name)
}

// ColumnsQuery projects INFORMATION_SCHEMA.COLUMNS onto the canonical
// shape. SQL Server has no interval attributes and no remarks column.
func (h sqlServerHandler) ColumnsQuery() string {
	return `
		SELECT TABLE_CATALOG AS table_catalog,
		       TABLE_SCHEMA AS table_schema,
		       TABLE_NAME AS table_name,
		       COLUMN_NAME AS column_name,
		       ORDINAL_POSITION AS ordinal_position,
		       COLUMN_DEFAULT AS column_default,
		       IS_NULLABLE AS is_nullable,
		       DATA_TYPE AS data_type,
		       CHARACTER_MAXIMUM_LENGTH AS character_maximum_length,
		       NUMERIC_PRECISION AS numeric_precision,
		       NUMERIC_PRECISION_RADIX AS numeric_precision_radix,
		       NUMERIC_SCALE AS numeric_scale,
		       DATETIME_PRECISION AS datetime_precision,
		       NULL AS interval_type,
		       NULL AS interval_precision,
		       CHARACTER_SET_CATALOG AS character_set_catalog,
		       CHARACTER_SET_SCHEMA AS character_set_schema,
		       CHARACTER_SET_NAME AS character_set_name,
		       COLLATION_CATALOG AS collation_catalog,
		       COLLATION_SCHEMA AS collation_schema,
		       COLLATION_NAME AS collation_name,
		       DOMAIN_NAME AS domain_name,
		       NULL AS remarks
		FROM INFORMATION_SCHEMA.COLUMNS
		ORDER BY TABLE_SCHEMA, TABLE_NAME, ORDINAL_POSITION;`
}

func (h sqlServerHandler) TablesQuery() string {
	return `
		SELECT TABLE_CATALOG AS table_catalog,
		       TABLE_SCHEMA AS table_schema,
		       TABLE_NAME AS table_name,
		       TABLE_TYPE AS table_type,
		       NULL AS remarks
		FROM INFORMATION_SCHEMA.TABLES
		ORDER BY TABLE_SCHEMA, TABLE_NAME;`
}

func init() {
	warehouse.RegisterDialectHandler("sqlserver", sqlServerHandler{})
	warehouse.RegisterDialectHandler("cloudsqlsqlserver", sqlServerHandler{})
}
