package parser

import (
	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/tordrt/xmldtd/internal/schema"
)

var particleLexer = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Name", Pattern: `[#A-Za-z0-9_.:-]+`},
	{Name: "Occurs", Pattern: `[?*+]`},
	{Name: "Punct", Pattern: `[()|,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// particle is one child reference of a content model: an element name or a
// parenthesised choice group, with an optional multiplicity suffix.
type particle struct {
	Group  []*particle `parser:"( '(' @@ ( '|' @@ )* ')'"`
	Name   string      `parser:"| @Name )"`
	Occurs string      `parser:"@Occurs?"`
}

var particleParser = participle.MustBuild[particle](
	participle.Lexer(particleLexer),
	participle.Elide("Whitespace"),
)

func parseParticle(token string) (*particle, error) {
	return particleParser.ParseString("", token)
}

func occursOf(suffix string) schema.Occurs {
	switch suffix {
	case "+":
		return schema.AtLeastOnce
	case "*":
		return schema.ZeroOrMore
	case "?":
		return schema.AtMostOnce
	default:
		return schema.Once
	}
}
