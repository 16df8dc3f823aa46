package pcdata

import (
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	entities := map[string]string{
		"NEWSPAPER": "Vervet Logic Times",
		"PUBLISHER": "Vervet Logic Press",
	}
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"known and unknown", "by &NEWSPAPER; &UNKNOWN;", "by Vervet Logic Times UNKNOWN"},
		{"adjacent", "&NEWSPAPER;&PUBLISHER;", "Vervet Logic TimesVervet Logic Press"},
		{"no references", "plain text", "plain text"},
		{"not a reference", "a & b; &amp-x; &;", "a & b; &amp-x; &;"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Expand(tt.input, entities))
		})
	}
}

func TestExpandWithoutEntitiesStripsDelimiters(t *testing.T) {
	f := fuzz.New().Funcs(func(s *string, c fuzz.Continue) {
		const alphabet = "abcXYZ019 &;"
		n := c.Intn(24)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(alphabet[c.Intn(len(alphabet))])
		}
		*s = b.String()
	})

	var s string
	for i := 0; i < 10000; i++ {
		f.Fuzz(&s)
		expected := entityRef.ReplaceAllString(s, "$1")
		require.Equal(t, expected, Expand(s, nil), s)
		require.Equal(t, expected, Expand(s, map[string]string{}), s)
	}
}
