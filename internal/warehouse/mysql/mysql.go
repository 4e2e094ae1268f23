package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/go-sql-driver/mysql"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse"
)

type mysqlHandler struct{}

var _ warehouse.DialectHandler = (*mysqlHandler)(nil)

func (h mysqlHandler) CreateCloudSQLPool(cfg config.SourceConfig) (*sql.DB, error) {
	instanceConnectionName := cfg.CloudSQLInstanceConnectionName
	if cfg.User == "" || cfg.Password == "" || cfg.DBName == "" || instanceConnectionName == "" {
		return nil, fmt.Errorf("missing required CloudSQL connection parameter (user, pass, db, instance)")
	}

	d, err := cloudsqlconn.NewDialer(context.Background())
	if err != nil {
		return nil, fmt.Errorf("cloudsqlconn.NewDialer: %w", err)
	}

	var opts []cloudsqlconn.DialOption
	if cfg.UsePrivateIP {
		opts = append(opts, cloudsqlconn.WithPrivateIP())
	}

	network := fmt.Sprintf("cloudsql-%s", instanceConnectionName)
	mysql.RegisterDialContext(network,
		func(ctx context.Context, addr string) (net.Conn, error) {
			return d.Dial(ctx, instanceConnectionName, opts...)
		})

	mysqlCfg := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Net:                  network,
		Addr:                 instanceConnectionName,
		DBName:               cfg.DBName,
		AllowNativePasswords: true,
		ParseTime:            true,
	}

	pool, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		mysql.DeregisterDialContext(network)
		d.Close()
		return nil, fmt.Errorf("sql.Open failed for CloudSQL MySQL: %w", err)
	}
	return pool, nil
}

func (h mysqlHandler) CreateStandardPool(cfg config.SourceConfig) (*sql.DB, error) {
	mysqlCfg := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DBName:               cfg.DBName,
		AllowNativePasswords: true,
		ParseTime:            true,
	}

	pool, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open (standard mysql): %w", err)
	}
	return pool, nil
}

func (h mysqlHandler) QuoteIdentifier(name string) string {
	name = strings.ReplaceAll(name, "`", "``")
	return fmt.Sprintf("`%s`", name)
}

// ColumnsQuery fills the gaps in MySQL's information_schema: the catalog
// is always the literal 'def', radix is 10 for every numeric type, and
// interval/domain attributes do not exist. Column comments become remarks.
func (h mysqlHandler) ColumnsQuery() string {
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
		       IF(NUMERIC_PRECISION IS NULL, NULL, 10) AS numeric_precision_radix,
		       NUMERIC_SCALE AS numeric_scale,
		       DATETIME_PRECISION AS datetime_precision,
		       NULL AS interval_type,
		       NULL AS interval_precision,
		       NULL AS character_set_catalog,
		       NULL AS character_set_schema,
		       CHARACTER_SET_NAME AS character_set_name,
		       NULL AS collation_catalog,
		       NULL AS collation_schema,
		       COLLATION_NAME AS collation_name,
		       NULL AS domain_name,
		       NULLIF(COLUMN_COMMENT, '') AS remarks
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		ORDER BY TABLE_SCHEMA, TABLE_NAME, ORDINAL_POSITION;`
}

func (h mysqlHandler) TablesQuery() string {
	return `
		SELECT TABLE_CATALOG AS table_catalog,
		       TABLE_SCHEMA AS table_schema,
		       TABLE_NAME AS table_name,
		       TABLE_TYPE AS table_type,
		       NULLIF(TABLE_COMMENT, '') AS remarks
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = DATABASE()
		ORDER BY TABLE_SCHEMA, TABLE_NAME;`
}

func init() {
	warehouse.RegisterDialectHandler("mysql", mysqlHandler{})
	warehouse.RegisterDialectHandler("cloudsqlmysql", mysqlHandler{})
}
