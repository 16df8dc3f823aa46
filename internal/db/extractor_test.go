package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/xmldtd/internal/parser"
	"github.com/tordrt/xmldtd/internal/schema"
)

const tvScheduleDTD = `<!DOCTYPE TVSCHEDULE [
<!ELEMENT TVSCHEDULE (CHANNEL+)>
<!ELEMENT CHANNEL (BANNER,DAY+)>
<!ELEMENT BANNER (#PCDATA)>
<!ELEMENT DAY (DATE,(HOLIDAY|PROGRAMSLOT+)+)>
<!ELEMENT HOLIDAY (#PCDATA)>
<!ELEMENT DATE (#PCDATA)>
<!ELEMENT PROGRAMSLOT (TIME,TITLE,DESCRIPTION?)>
<!ELEMENT TIME (#PCDATA)>
<!ELEMENT TITLE (#PCDATA)>
<!ELEMENT DESCRIPTION (#PCDATA)>
<!ATTLIST TVSCHEDULE NAME CDATA #REQUIRED>
<!ATTLIST CHANNEL CHAN CDATA #REQUIRED>
<!ATTLIST PROGRAMSLOT VTR CDATA #IMPLIED>
<!ATTLIST TITLE RATING (G|PG|R) "G">
<!ATTLIST TITLE LANGUAGE CDATA #FIXED "en">
<!ENTITY CHANNEL_NAME "Vervet TV">
<!ENTITY LOGO SYSTEM "logo.gif">
]>`

func parseString(t *testing.T, dtd string) *schema.DocumentTypeDefinition {
	t.Helper()
	result, err := parser.Parse(strings.NewReader(dtd))
	require.NoError(t, err)
	return result
}

func TestExtract(t *testing.T) {
	require := require.New(t)

	rec := Extract("tvschedule.dtd", parseString(t, tvScheduleDTD))
	require.Equal("TVSCHEDULE", rec.RootName)
	require.Equal("tvschedule.dtd", rec.Source)

	var names []string
	for _, e := range rec.Elements {
		names = append(names, e.Name)
	}
	require.Equal([]string{"TVSCHEDULE", "CHANNEL", "BANNER", "DAY", "DATE", "HOLIDAY", "PROGRAMSLOT", "TIME", "TITLE", "DESCRIPTION"}, names)
	require.Equal(ElementRow{Position: 3, Name: "DAY", Kind: "CHILDREN", ContentModel: "(DATE,(HOLIDAY|PROGRAMSLOT+)+)"}, rec.Elements[3])

	require.Contains(rec.Attributes, AttributeRow{ElementName: "TITLE", Position: 0, Name: "RATING", Type: "(G|PG|R)", ValueKind: "DEFAULT", Value: "G"})
	require.Contains(rec.Attributes, AttributeRow{ElementName: "TITLE", Position: 1, Name: "LANGUAGE", Type: "CDATA", ValueKind: "#FIXED", Value: "en"})
	require.Contains(rec.Attributes, AttributeRow{ElementName: "PROGRAMSLOT", Position: 0, Name: "VTR", Type: "CDATA", ValueKind: "#IMPLIED"})
	require.Len(rec.Attributes, 5)

	require.Contains(rec.Children, ChildRow{ParentName: "DAY", Position: 0, ChildName: "DATE"})
	require.Contains(rec.Children, ChildRow{ParentName: "DAY", Position: 2, ChildName: "PROGRAMSLOT"})
	require.Contains(rec.Children, ChildRow{ParentName: "PROGRAMSLOT", Position: 2, ChildName: "DESCRIPTION"})

	require.Equal([]EntityRow{
		{Position: 0, Name: "CHANNEL_NAME", Value: "Vervet TV"},
		{Position: 1, Name: "LOGO", External: true, Value: "logo.gif"},
	}, rec.Entities)
}

func TestRowStatements(t *testing.T) {
	require := require.New(t)

	rec := Extract("s.dtd", parseString(t, `<!DOCTYPE NAME [
<!ELEMENT NAME (#PCDATA)>
<!ATTLIST NAME xml:lang CDATA "eng">
<!ENTITY N "v">
]>`))
	stmts := rec.rowStatements(7)
	require.Len(stmts, 3)
	require.Equal(insertElementQuery, stmts[0].query)
	require.Equal([]any{int64(7), 0, "NAME", "PCDATA", "(#PCDATA)", ""}, stmts[0].args)
	require.Equal(insertAttributeQuery, stmts[1].query)
	require.Equal([]any{int64(7), "NAME", 0, "xml:lang", "CDATA", "DEFAULT", "eng", ""}, stmts[1].args)
	require.Equal(insertEntityQuery, stmts[2].query)
	require.Equal([]any{int64(7), 0, "N", false, "v"}, stmts[2].args)

	for _, stmt := range stmts {
		require.Equal(strings.Count(stmt.query, "?"), len(stmt.args), stmt.query)
	}
}

func TestRebind(t *testing.T) {
	require.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", rebind("INSERT INTO t (a, b) VALUES (?, ?)"))
	require.Equal(t, "SELECT 1", rebind("SELECT 1"))
}

func TestCreateTablesPerDialect(t *testing.T) {
	for _, d := range []dialect{sqliteDialect, mysqlDialect, postgresDialect} {
		stmts := d.createTables()
		require.Len(t, stmts, 5)
		require.Contains(t, stmts[0], d.id)
		for _, table := range []string{"dtd_documents", "dtd_elements", "dtd_attributes", "dtd_children", "dtd_entities"} {
			require.True(t, strings.Contains(strings.Join(stmts, "\n"), "CREATE TABLE IF NOT EXISTS "+table+" "), table)
		}
	}
}

func TestOpenWithoutTarget(t *testing.T) {
	_, err := Open(context.Background(), Target{})
	require.ErrorIs(t, err, ErrNoTarget)
}

func TestNewMySQLClientRejectsInvalidDSN(t *testing.T) {
	_, err := NewMySQLClient(context.Background(), "user@tcp(localhost:3306")
	require.ErrorContains(t, err, "invalid MySQL DSN")
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Target
		err      error
	}{
		{name: "postgres", url: "postgres://u:p@localhost/db", expected: Target{PostgresURL: "postgres://u:p@localhost/db"}},
		{name: "postgresql", url: "postgresql://localhost/db", expected: Target{PostgresURL: "postgresql://localhost/db"}},
		{name: "mysql", url: "mysql://u:p@tcp(localhost:3306)/db", expected: Target{MySQLURL: "u:p@tcp(localhost:3306)/db"}},
		{name: "sqlite", url: "sqlite://catalog.db", expected: Target{SQLitePath: "catalog.db"}},
		{name: "empty", url: "", err: ErrNoTarget},
		{name: "unknown scheme", url: "oracle://x", err: ErrInvalidScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseURL(tt.url)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, target)
		})
	}
}
