package parser

import (
	"regexp"
	"strings"

	"github.com/tordrt/xmldtd/internal/source"
)

var (
	doctypeRegex        = regexp.MustCompile(`^<!DOCTYPE\b(.*?)\[`)
	rootNameRegex       = regexp.MustCompile(`^\s*([a-zA-Z0-9_-]+)\s*$`)
	elementRegex        = regexp.MustCompile(`<!ELEMENT\s+([a-zA-Z0-9_-]+)\s+(\(.+\)\*?|EMPTY|ANY)\s*>`)
	attlistRegex        = regexp.MustCompile(`^<!ATTLIST\s+([a-zA-Z0-9_-]+)\s+(.*)>$`)
	attlistHeaderRegex  = regexp.MustCompile(`^<!ATTLIST\s+([a-zA-Z0-9_-]+)\s*$`)
	attributeDefRegex   = regexp.MustCompile(`([a-zA-Z0-9:_-]+)\s+(\([^)]*\)|[a-zA-Z0-9:_-]+)\s+(#FIXED\s+"[^"]*"|"[^"]*"|'[^']*'|[^\s>]+)`)
	externalEntityRegex = regexp.MustCompile(`<!ENTITY\s+([a-zA-Z0-9_-]+)\s+SYSTEM\s+"(.+)"\s*>`)
	internalEntityRegex = regexp.MustCompile(`<!ENTITY\s+([a-zA-Z0-9_-]+)\s+"(.+)"\s*>`)
	commentRegex        = regexp.MustCompile(`<!--([\s\S]*?)-->`)
)

// ElementDTO is a raw <!ELEMENT> declaration
type ElementDTO struct {
	Name     string
	Children []string
	IsMixed  bool
	Comment  string
}

// AttributeDTO is one raw attribute definition of an <!ATTLIST> declaration
type AttributeDTO struct {
	ElementName   string
	AttributeName string
	Type          string
	Value         string
	Comment       string
}

// InternalEntityDTO is a raw <!ENTITY name "value"> declaration
type InternalEntityDTO struct {
	Name    string
	Value   string
	Comment string
}

// ExternalEntityDTO is a raw <!ENTITY name SYSTEM "uri"> declaration
type ExternalEntityDTO struct {
	Name    string
	URI     string
	Comment string
}

type dtoKind int

const (
	noDTO dtoKind = iota
	elementDTO
	attributeDTO
	internalEntityDTO
	externalEntityDTO
)

// lexer turns logical lines into DTOs. It owns the DTO lists until the
// driver hands them to the resolver.
type lexer struct {
	src  *source.Reader
	decl Declarations
	last dtoKind
}

func newLexer(src *source.Reader) *lexer {
	return &lexer{src: src}
}

// lex matches one logical line and records at most one declaration (an
// ATTLIST may record several). It reports whether anything was recorded.
func (l *lexer) lex(line string) bool {
	switch {
	case strings.HasPrefix(line, "<!--"):
		return false
	case strings.HasPrefix(line, "<!ENTITY"):
		// the external form first: the internal pattern must never see SYSTEM lines
		if m := externalEntityRegex.FindStringSubmatch(line); m != nil {
			l.decl.ExternalEntities = append(l.decl.ExternalEntities, ExternalEntityDTO{Name: m[1], URI: m[2]})
			l.last = externalEntityDTO
			return true
		}
		if m := internalEntityRegex.FindStringSubmatch(line); m != nil {
			l.decl.InternalEntities = append(l.decl.InternalEntities, InternalEntityDTO{Name: m[1], Value: m[2]})
			l.last = internalEntityDTO
			return true
		}
	case strings.HasPrefix(line, "<!ELEMENT"):
		if dto, ok := elementFromLine(line); ok {
			l.decl.Elements = append(l.decl.Elements, dto)
			l.last = elementDTO
			return true
		}
	case strings.HasPrefix(line, "<!ATTLIST"):
		if m := attlistHeaderRegex.FindStringSubmatch(line); m != nil {
			return l.lexAttributeLines(m[1])
		}
		if m := attlistRegex.FindStringSubmatch(line); m != nil {
			return l.addAttributes(attributesFromBody(m[1], m[2]))
		}
	}
	return false
}

// lexAttributeLines consumes the body of a multi-line ATTLIST, one
// definition per line, until a line ends with '>' or the source runs out.
func (l *lexer) lexAttributeLines(elementName string) bool {
	added := false
	for {
		line, ok := l.src.ReadLine()
		if !ok {
			return added
		}
		terminated := strings.HasSuffix(line, ">")
		body := strings.TrimSpace(strings.TrimSuffix(line, ">"))
		if l.addAttributes(attributesFromBody(elementName, body)) {
			added = true
		}
		if terminated {
			return added
		}
	}
}

func (l *lexer) addAttributes(dtos []AttributeDTO) bool {
	if len(dtos) == 0 {
		return false
	}
	l.decl.Attributes = append(l.decl.Attributes, dtos...)
	l.last = attributeDTO
	return true
}

// extractTrailingComment peeks the next line and, when it opens a comment,
// consumes it up to the closing --> and returns the inner text.
func (l *lexer) extractTrailingComment() (string, bool) {
	next, ok := l.src.PeekLine()
	if !ok || !strings.Contains(next, "<!--") {
		return "", false
	}
	joined, ok := l.src.ReadLinesUntil(func(line string) bool {
		return strings.Contains(line, "-->")
	})
	if !ok {
		return "", false
	}
	m := commentRegex.FindStringSubmatch(joined)
	if m == nil {
		return "", false
	}
	comment := strings.TrimSpace(m[1])
	return comment, comment != ""
}

// attach sets the comment of the most recently produced DTO
func (l *lexer) attach(comment string) {
	switch l.last {
	case elementDTO:
		l.decl.Elements[len(l.decl.Elements)-1].Comment = comment
	case attributeDTO:
		l.decl.Attributes[len(l.decl.Attributes)-1].Comment = comment
	case internalEntityDTO:
		l.decl.InternalEntities[len(l.decl.InternalEntities)-1].Comment = comment
	case externalEntityDTO:
		l.decl.ExternalEntities[len(l.decl.ExternalEntities)-1].Comment = comment
	}
}

func elementFromLine(line string) (ElementDTO, bool) {
	m := elementRegex.FindStringSubmatch(line)
	if m == nil {
		return ElementDTO{}, false
	}
	dto := ElementDTO{Name: m[1]}
	content := m[2]
	switch {
	case content == "EMPTY":
		dto.Children = []string{}
	case content == "ANY":
		dto.Children = []string{"ANY"}
	case strings.HasSuffix(content, "*"):
		dto.IsMixed = true
		dto.Children = strings.Split(removeSurrounding(content, "(", ")*"), "|")
	default:
		parts := strings.Split(removeSurrounding(content, "(", ")"), ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		dto.Children = parts
	}
	return dto, true
}

func attributesFromBody(elementName, body string) []AttributeDTO {
	var dtos []AttributeDTO
	for _, m := range attributeDefRegex.FindAllStringSubmatch(body, -1) {
		dtos = append(dtos, AttributeDTO{
			ElementName:   elementName,
			AttributeName: m[1],
			Type:          m[2],
			Value:         m[3],
		})
	}
	return dtos
}

// removeSurrounding strips prefix and suffix only when both are present
func removeSurrounding(s, prefix, suffix string) string {
	if len(s) >= len(prefix)+len(suffix) && strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) {
		return s[len(prefix) : len(s)-len(suffix)]
	}
	return s
}
