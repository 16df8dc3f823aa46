package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/xmldtd/internal/source"
)

func TestElementFromLine(t *testing.T) {
	tests := []struct {
		line     string
		expected ElementDTO
	}{
		{
			line:     "<!ELEMENT note (to,from,heading,body)>",
			expected: ElementDTO{Name: "note", Children: []string{"to", "from", "heading", "body"}},
		},
		{
			line:     "<!ELEMENT note ( to , from )>",
			expected: ElementDTO{Name: "note", Children: []string{"to", "from"}},
		},
		{
			line:     "<!ELEMENT br EMPTY>",
			expected: ElementDTO{Name: "br", Children: []string{}},
		},
		{
			line:     "<!ELEMENT any ANY>",
			expected: ElementDTO{Name: "any", Children: []string{"ANY"}},
		},
		{
			line:     "<!ELEMENT p (#PCDATA|b|i)*>",
			expected: ElementDTO{Name: "p", Children: []string{"#PCDATA", "b", "i"}, IsMixed: true},
		},
		{
			line:     "<!ELEMENT p (#PCDATA | b)*>",
			expected: ElementDTO{Name: "p", Children: []string{"#PCDATA ", " b"}, IsMixed: true},
		},
		{
			line:     "<!ELEMENT day (date,(holiday|programslot)+)>",
			expected: ElementDTO{Name: "day", Children: []string{"date", "(holiday|programslot)+"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			dto, ok := elementFromLine(tt.line)
			require.True(t, ok)
			require.Equal(t, tt.expected, dto)
		})
	}
}

func TestElementFromLineRejectsMalformed(t *testing.T) {
	for _, line := range []string{
		"<!ELEMENT note>",
		"<!ELEMENT note (to",
		"<!ELEMENT note CDATA>",
	} {
		_, ok := elementFromLine(line)
		require.False(t, ok, line)
	}
}

func TestAttributesFromBody(t *testing.T) {
	require := require.New(t)

	dtos := attributesFromBody("img", `src CDATA #REQUIRED align (left | right) "left" xml:lang NMTOKEN #FIXED "en"`)
	require.Equal([]AttributeDTO{
		{ElementName: "img", AttributeName: "src", Type: "CDATA", Value: "#REQUIRED"},
		{ElementName: "img", AttributeName: "align", Type: "(left | right)", Value: `"left"`},
		{ElementName: "img", AttributeName: "xml:lang", Type: "NMTOKEN", Value: `#FIXED "en"`},
	}, dtos)

	require.Empty(attributesFromBody("img", ""))
}

func TestRemoveSurrounding(t *testing.T) {
	require := require.New(t)
	require.Equal("a|b", removeSurrounding("(a|b)*", "(", ")*"))
	require.Equal("(a|b)", removeSurrounding("(a|b)", "(", ")*"))
	require.Equal("a", removeSurrounding("(a)", "(", ")"))
	require.Equal("(", removeSurrounding("(", "(", ")"))
}

func TestLexExternalEntityBeforeInternal(t *testing.T) {
	require := require.New(t)

	lx := newLexer(source.NewReader(strings.NewReader("")))
	require.True(lx.lex(`<!ENTITY logo SYSTEM "logo.gif">`))
	require.True(lx.lex(`<!ENTITY name "value">`))
	require.False(lx.lex(`<!-- a comment -->`))
	require.False(lx.lex(`<!NOTATION gif SYSTEM "image/gif">`))

	require.Equal([]ExternalEntityDTO{{Name: "logo", URI: "logo.gif"}}, lx.decl.ExternalEntities)
	require.Equal([]InternalEntityDTO{{Name: "name", Value: "value"}}, lx.decl.InternalEntities)
}

func TestExtractTrailingComment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "single line", input: "<!-- hello -->", expected: "hello", ok: true},
		{name: "multi line", input: "<!--\n  hello\n  world -->", expected: "hello world", ok: true},
		{name: "empty comment", input: "<!-- -->", ok: false},
		{name: "no comment", input: "<!ELEMENT a EMPTY>", ok: false},
		{name: "unterminated", input: "<!-- hello", ok: false},
		{name: "end of input", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := newLexer(source.NewReader(strings.NewReader(tt.input)))
			comment, ok := lx.extractTrailingComment()
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, comment)
		})
	}
}

func TestMultilineAttlistRunsToEndOfInput(t *testing.T) {
	require := require.New(t)

	src := source.NewReader(strings.NewReader("a CDATA #IMPLIED\n\nb ID #REQUIRED"))
	lx := newLexer(src)
	require.True(lx.lex("<!ATTLIST el"))
	require.Len(lx.decl.Attributes, 2)
	require.Equal("b", lx.decl.Attributes[1].AttributeName)
}
