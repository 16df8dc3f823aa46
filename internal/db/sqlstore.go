package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd/internal/schema"
)

// sqlStore implements Catalog over database/sql for SQLite and MySQL
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

// EnsureSchema creates the catalog tables if they are missing
func (s *sqlStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.createTables() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save stores dtd in one transaction, replacing a document with the same root name
func (s *sqlStore) Save(ctx context.Context, source string, dtd *schema.DocumentTypeDefinition) error {
	rec := Extract(source, dtd)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, query := range deleteDocumentQueries {
		if _, err := tx.ExecContext(ctx, query, rec.RootName); err != nil {
			return fmt.Errorf("failed to delete previous %s: %w", rec.RootName, err)
		}
	}

	res, err := tx.ExecContext(ctx, insertDocumentQuery, rec.RootName, rec.Source)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get document id: %w", err)
	}

	for _, stmt := range rec.rowStatements(id) {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("failed to insert rows of %s: %w", rec.RootName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	logger.Verbose(fmt.Sprintf("saved %s with %d elements", rec.RootName, len(rec.Elements)))
	return nil
}

// List returns the stored documents ordered by root name
func (s *sqlStore) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, listDocumentsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.RootName, &doc.Source, &doc.ElementCount); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Close closes the database connection
func (s *sqlStore) Close(context.Context) error {
	return s.db.Close()
}
