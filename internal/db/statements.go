package db

import (
	"fmt"
	"strconv"
	"strings"
)

// dialect holds the column types that differ between databases
type dialect struct {
	id  string // auto-incrementing primary key
	ref string // column referencing an id
	key string // short indexed text
}

var (
	sqliteDialect   = dialect{id: "INTEGER PRIMARY KEY AUTOINCREMENT", ref: "INTEGER", key: "TEXT"}
	mysqlDialect    = dialect{id: "BIGINT AUTO_INCREMENT PRIMARY KEY", ref: "BIGINT", key: "VARCHAR(255)"}
	postgresDialect = dialect{id: "BIGSERIAL PRIMARY KEY", ref: "BIGINT", key: "TEXT"}
)

func (d dialect) createTables() []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS dtd_documents (
			id %s,
			root_name %s NOT NULL UNIQUE,
			source TEXT NOT NULL
		)`, d.id, d.key),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS dtd_elements (
			document_id %s NOT NULL REFERENCES dtd_documents(id),
			position INTEGER NOT NULL,
			name %s NOT NULL,
			kind %s NOT NULL,
			content_model TEXT NOT NULL,
			comment TEXT NOT NULL,
			PRIMARY KEY (document_id, name)
		)`, d.ref, d.key, d.key),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS dtd_attributes (
			document_id %s NOT NULL REFERENCES dtd_documents(id),
			element_name %s NOT NULL,
			position INTEGER NOT NULL,
			name %s NOT NULL,
			type TEXT NOT NULL,
			value_kind %s NOT NULL,
			value TEXT NOT NULL,
			comment TEXT NOT NULL,
			PRIMARY KEY (document_id, element_name, position)
		)`, d.ref, d.key, d.key, d.key),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS dtd_children (
			document_id %s NOT NULL REFERENCES dtd_documents(id),
			parent_name %s NOT NULL,
			position INTEGER NOT NULL,
			child_name %s NOT NULL,
			PRIMARY KEY (document_id, parent_name, position)
		)`, d.ref, d.key, d.key),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS dtd_entities (
			document_id %s NOT NULL REFERENCES dtd_documents(id),
			position INTEGER NOT NULL,
			name %s NOT NULL,
			is_external BOOLEAN NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (document_id, position)
		)`, d.ref, d.key),
	}
}

// Statements are written with '?' placeholders; see rebind for PostgreSQL.
const (
	insertDocumentQuery  = `INSERT INTO dtd_documents (root_name, source) VALUES (?, ?)`
	insertElementQuery   = `INSERT INTO dtd_elements (document_id, position, name, kind, content_model, comment) VALUES (?, ?, ?, ?, ?, ?)`
	insertAttributeQuery = `INSERT INTO dtd_attributes (document_id, element_name, position, name, type, value_kind, value, comment) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertChildQuery     = `INSERT INTO dtd_children (document_id, parent_name, position, child_name) VALUES (?, ?, ?, ?)`
	insertEntityQuery    = `INSERT INTO dtd_entities (document_id, position, name, is_external, value) VALUES (?, ?, ?, ?, ?)`

	listDocumentsQuery = `
		SELECT d.root_name, d.source, COUNT(e.name)
		FROM dtd_documents d
		LEFT JOIN dtd_elements e ON e.document_id = d.id
		GROUP BY d.id, d.root_name, d.source
		ORDER BY d.root_name
	`
)

// deleteDocumentQueries remove a document and its rows, children first
var deleteDocumentQueries = []string{
	`DELETE FROM dtd_elements WHERE document_id IN (SELECT id FROM dtd_documents WHERE root_name = ?)`,
	`DELETE FROM dtd_attributes WHERE document_id IN (SELECT id FROM dtd_documents WHERE root_name = ?)`,
	`DELETE FROM dtd_children WHERE document_id IN (SELECT id FROM dtd_documents WHERE root_name = ?)`,
	`DELETE FROM dtd_entities WHERE document_id IN (SELECT id FROM dtd_documents WHERE root_name = ?)`,
	`DELETE FROM dtd_documents WHERE root_name = ?`,
}

type statement struct {
	query string
	args  []any
}

// rowStatements returns the inserts for every row of rec under documentID
func (r *Record) rowStatements(documentID int64) []statement {
	var out []statement
	for _, e := range r.Elements {
		out = append(out, statement{insertElementQuery, []any{documentID, e.Position, e.Name, e.Kind, e.ContentModel, e.Comment}})
	}
	for _, a := range r.Attributes {
		out = append(out, statement{insertAttributeQuery, []any{documentID, a.ElementName, a.Position, a.Name, a.Type, a.ValueKind, a.Value, a.Comment}})
	}
	for _, c := range r.Children {
		out = append(out, statement{insertChildQuery, []any{documentID, c.ParentName, c.Position, c.ChildName}})
	}
	for _, e := range r.Entities {
		out = append(out, statement{insertEntityQuery, []any{documentID, e.Position, e.Name, e.External, e.Value}})
	}
	return out
}

// rebind rewrites '?' placeholders to PostgreSQL's $1, $2, ...
func rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteString("$" + strconv.Itoa(n))
	}
	return b.String()
}
