package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient keeps the catalog tables in a MySQL database. Names are stored
// in VARCHAR(255) columns so they can carry the unique and primary keys.
type MySQLClient struct {
	sqlStore
}

// NewMySQLClient connects to the catalog database named by dsn, given in the
// driver's user:password@tcp(host:port)/dbname form.
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.DBName, err)
	}

	return &MySQLClient{sqlStore{db: db, dialect: mysqlDialect}}, nil
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}
