// Package db stores parsed DTDs in a relational catalog.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/xmldtd/internal/schema"
)

var (
	ErrNoTarget      = errors.New("no catalog database specified (use --sqlite, --db-url or --mysql-url)")
	ErrInvalidScheme = errors.New("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
)

// Catalog persists DTDs and lists what it holds
type Catalog interface {
	// EnsureSchema creates the catalog tables if they are missing
	EnsureSchema(ctx context.Context) error
	// Save stores dtd, replacing any document with the same root name
	Save(ctx context.Context, source string, dtd *schema.DocumentTypeDefinition) error
	// List returns the stored documents ordered by root name
	List(ctx context.Context) ([]Document, error)
	Close(ctx context.Context) error
}

// Document summarises a stored DTD
type Document struct {
	RootName     string
	Source       string
	ElementCount int
}

// Target names the database to open. Exactly one field is expected to be set.
type Target struct {
	SQLitePath  string
	PostgresURL string
	MySQLURL    string
}

// Open connects to the database named by target and makes sure the
// catalog tables exist.
func Open(ctx context.Context, target Target) (Catalog, error) {
	var (
		catalog Catalog
		err     error
	)
	switch {
	case target.SQLitePath != "":
		catalog, err = NewSQLiteClient(ctx, target.SQLitePath)
	case target.PostgresURL != "":
		catalog, err = NewPostgresClient(ctx, target.PostgresURL)
	case target.MySQLURL != "":
		catalog, err = NewMySQLClient(ctx, target.MySQLURL)
	default:
		return nil, ErrNoTarget
	}
	if err != nil {
		return nil, err
	}

	if err := catalog.EnsureSchema(ctx); err != nil {
		_ = catalog.Close(ctx)
		return nil, fmt.Errorf("failed to create catalog tables: %w", err)
	}
	return catalog, nil
}

// ParseURL maps a database URL to a Target: postgres:// and postgresql://
// are passed to pgx unchanged, mysql:// and sqlite:// are stripped of
// their scheme.
func ParseURL(url string) (Target, error) {
	switch {
	case url == "":
		return Target{}, ErrNoTarget
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Target{PostgresURL: url}, nil
	case strings.HasPrefix(url, "mysql://"):
		return Target{MySQLURL: strings.TrimPrefix(url, "mysql://")}, nil
	case strings.HasPrefix(url, "sqlite://"):
		return Target{SQLitePath: strings.TrimPrefix(url, "sqlite://")}, nil
	}
	return Target{}, ErrInvalidScheme
}
