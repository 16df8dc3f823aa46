package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd/internal/schema"
)

// PostgresClient stores the catalog in PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient connects to the PostgreSQL catalog described by connString
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// EnsureSchema creates the catalog tables if they are missing
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresDialect.createTables() {
		if _, err := c.conn.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save stores dtd in one transaction, replacing a document with the same root name
func (c *PostgresClient) Save(ctx context.Context, source string, dtd *schema.DocumentTypeDefinition) error {
	rec := Extract(source, dtd)

	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, query := range deleteDocumentQueries {
		if _, err := tx.Exec(ctx, rebind(query), rec.RootName); err != nil {
			return fmt.Errorf("failed to delete previous %s: %w", rec.RootName, err)
		}
	}

	var id int64
	if err := tx.QueryRow(ctx, rebind(insertDocumentQuery)+" RETURNING id", rec.RootName, rec.Source).Scan(&id); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	batch := &pgx.Batch{}
	for _, stmt := range rec.rowStatements(id) {
		batch.Queue(rebind(stmt.query), stmt.args...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert rows of %s: %w", rec.RootName, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	logger.Verbose(fmt.Sprintf("saved %s with %d elements", rec.RootName, len(rec.Elements)))
	return nil
}

// List returns the stored documents ordered by root name
func (c *PostgresClient) List(ctx context.Context) ([]Document, error) {
	rows, err := c.conn.Query(ctx, listDocumentsQuery)
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
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}
