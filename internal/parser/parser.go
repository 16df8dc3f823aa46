// Package parser reads the internal subset of a <!DOCTYPE> declaration and
// resolves it into a schema.DocumentTypeDefinition.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd/internal/schema"
	"github.com/tordrt/xmldtd/internal/source"
)

// Declarations holds everything lexed from one DOCTYPE body, in source order
type Declarations struct {
	RootName         string
	Elements         []ElementDTO
	Attributes       []AttributeDTO
	InternalEntities []InternalEntityDTO
	ExternalEntities []ExternalEntityDTO
}

// Parse reads a DTD from r and resolves it
func Parse(r io.Reader) (*schema.DocumentTypeDefinition, error) {
	decl, err := ReadDeclarations(r)
	if err != nil {
		return nil, err
	}
	return Resolve(decl)
}

// ReadDeclarations locates the DOCTYPE header and lexes its body up to the
// closing ]> or the end of input.
func ReadDeclarations(r io.Reader) (*Declarations, error) {
	src := source.NewReader(r)

	rootName, err := readDoctype(src)
	if err != nil {
		return nil, err
	}

	lx := newLexer(src)
	lx.decl.RootName = rootName

	for {
		line, ok := src.ReadLine()
		if !ok || line == "]>" {
			break
		}
		if !strings.HasPrefix(line, "<") {
			if line != "" {
				logger.Verbose("skipping line outside a declaration:", line)
			}
			continue
		}
		if !strings.HasSuffix(line, ">") && !attlistHeaderRegex.MatchString(line) {
			if rest, ok := src.ReadLinesUntil(endsDeclaration); ok {
				line = line + " " + rest
			}
		}
		if !lx.lex(line) {
			if !strings.HasPrefix(line, "<!--") {
				logger.Verbose("unrecognised declaration:", line)
			}
			continue
		}
		if comment, ok := lx.extractTrailingComment(); ok {
			lx.attach(comment)
		}
	}

	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("reading DTD: %w", err)
	}

	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("lexed %s: %d elements, %d attributes, %d entities",
			rootName, len(lx.decl.Elements), len(lx.decl.Attributes),
			len(lx.decl.InternalEntities)+len(lx.decl.ExternalEntities)))
	}
	return &lx.decl, nil
}

func readDoctype(src *source.Reader) (string, error) {
	for {
		line, ok := src.ReadLine()
		if !ok {
			if err := src.Err(); err != nil {
				return "", fmt.Errorf("reading DTD: %w", err)
			}
			return "", newError(KindMissingDoctype, "")
		}
		m := doctypeRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := rootNameRegex.FindStringSubmatch(m[1])
		if name == nil {
			return "", &Error{Kind: KindMissingRootName, Context: line}
		}
		return name[1], nil
	}
}

func endsDeclaration(line string) bool {
	return strings.HasSuffix(line, ">")
}
