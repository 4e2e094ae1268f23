// Package warehouse manages connections to SQL-queryable warehouse catalogs
// and knows, per dialect, which catalog query projects the canonical column
// and table shapes. Dialect handlers register themselves at init time; the
// extractor only ever sees the DB wrapper.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
)

// DialectHandler is implemented once per supported source dialect.
type DialectHandler interface {
	// CreateStandardPool opens a direct connection pool.
	CreateStandardPool(cfg config.SourceConfig) (*sql.DB, error)
	// CreateCloudSQLPool opens a pool through the Cloud SQL connector.
	// Dialects without Cloud SQL support return an error.
	CreateCloudSQLPool(cfg config.SourceConfig) (*sql.DB, error)
	QuoteIdentifier(name string) string
	// ColumnsQuery projects the canonical 23-attribute column-descriptor
	// shape out of the dialect's catalog, by canonical column name.
	// Attributes the catalog lacks are projected as NULL and coerced
	// downstream.
	ColumnsQuery() string
	// TablesQuery projects the canonical table-descriptor shape.
	TablesQuery() string
}

var (
	dialectHandlers = make(map[string]DialectHandler)
	mu              sync.RWMutex
)

// RegisterDialectHandler installs a handler; called from dialect package
// init functions.
func RegisterDialectHandler(dialect string, handler DialectHandler) {
	mu.Lock()
	defer mu.Unlock()
	dialectHandlers[dialect] = handler
}

// GetDialectHandler looks a handler up by dialect name.
func GetDialectHandler(dialect string) (DialectHandler, error) {
	mu.RLock()
	defer mu.RUnlock()
	handler, ok := dialectHandlers[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported source dialect: %s", dialect)
	}
	return handler, nil
}

// Dialects lists the registered dialect names.
func Dialects() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(dialectHandlers))
	for name := range dialectHandlers {
		names = append(names, name)
	}
	return names
}

// DB holds the connection pool and dialect handler for one source.
type DB struct {
	Pool    *sql.DB
	Handler DialectHandler
	Config  config.SourceConfig
}

// New connects to the configured source and verifies the connection.
func New(ctx context.Context, cfg config.SourceConfig) (*DB, error) {
	handler, err := GetDialectHandler(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	var pool *sql.DB
	if cfg.CloudSQLInstanceConnectionName != "" {
		pool, err = handler.CreateCloudSQLPool(cfg)
	} else {
		pool, err = handler.CreateStandardPool(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("creating pool for dialect %s: %w", cfg.Dialect, err)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to %s source (ping failed): %w", cfg.Dialect, err)
	}

	return &DB{Pool: pool, Handler: handler, Config: cfg}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("connection pool is not initialized")
	}
	return db.Pool.PingContext(ctx)
}

func (db *DB) Close() error {
	if db.Pool == nil {
		return nil
	}
	return db.Pool.Close()
}

// QueryColumns opens a cursor over the dialect's column catalog.
func (db *DB) QueryColumns(ctx context.Context) (*sql.Rows, error) {
	rs, err := db.Pool.QueryContext(ctx, db.Handler.ColumnsQuery())
	if err != nil {
		return nil, fmt.Errorf("querying column catalog: %w", err)
	}
	return rs, nil
}

// QueryTables opens a cursor over the dialect's table catalog.
func (db *DB) QueryTables(ctx context.Context) (*sql.Rows, error) {
	rs, err := db.Pool.QueryContext(ctx, db.Handler.TablesQuery())
	if err != nil {
		return nil, fmt.Errorf("querying table catalog: %w", err)
	}
	return rs, nil
}
