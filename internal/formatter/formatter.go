// Package formatter renders resolved DTDs as descriptions and generated
// type graphs as Go source.
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/xmldtd/internal/schema"
)

const formatPretty = "pretty"

// Describer writes a human-readable description of a DTD
type Describer interface {
	Format(dtd *schema.DocumentTypeDefinition) error
}

// DescriptionFormats lists the formats accepted by NewDescriber
var DescriptionFormats = []string{formatText, formatMarkdown, formatPretty}

// NewDescriber returns the describer for format
func NewDescriber(format string, w io.Writer) (Describer, error) {
	switch format {
	case formatText:
		return NewTextFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	case formatPretty:
		return NewPrettyFormatter(w), nil
	}
	return nil, fmt.Errorf("invalid format: %s (must be one of %v)", format, DescriptionFormats)
}
