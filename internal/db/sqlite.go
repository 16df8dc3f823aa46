package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient keeps the catalog in a single SQLite file, created on first use
type SQLiteClient struct {
	sqlStore
}

// NewSQLiteClient opens the catalog file at path. SQLite allows one writer at
// a time, so the pool holds a single connection with foreign keys enforced.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}

	return &SQLiteClient{sqlStore{db: db, dialect: sqliteDialect}}, nil
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
