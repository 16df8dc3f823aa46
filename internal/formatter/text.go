package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/xmldtd/internal/schema"
)

// TextFormatter describes a DTD as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every distinct element, then the entity tables
func (f *TextFormatter) Format(dtd *schema.DocumentTypeDefinition) error {
	for i, el := range dtd.Elements() {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between elements
		}
		f.formatElement(el, i == 0)
	}

	if len(dtd.Entities) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "ENTITIES")
		for _, e := range dtd.Entities {
			_, _ = fmt.Fprintf(f.writer, "  %s\n", formatEntity(e))
		}
	}
	return nil
}

func (f *TextFormatter) formatElement(el schema.ElementDefinition, root bool) {
	base := el.Base()
	rootStr := ""
	if root {
		rootStr = " (ROOT)"
	}
	_, _ = fmt.Fprintf(f.writer, "ELEMENT %s %s%s\n", base.ElementName, schema.KindName(el), rootStr)
	if base.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, "  -- %s\n", base.Comment)
	}
	if model := schema.ContentModel(el); model != "" {
		_, _ = fmt.Fprintf(f.writer, "  content: %s\n", model)
	}

	// Attributes
	if len(base.Attributes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  ATTRIBUTES:")
		for _, attr := range base.Attributes {
			_, _ = fmt.Fprintf(f.writer, "    %s\n", formatAttribute(attr))
		}
	}

	// Children
	if children := schema.ChildNames(el); len(children) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  CHILDREN:")
		for _, child := range children {
			_, _ = fmt.Fprintf(f.writer, "    → %s\n", child)
		}
	}
}

func formatAttribute(attr schema.AttributeDefinition) string {
	parts := []string{attr.Name + ":", formatAttributeType(attr.Type), formatAttributeValue(attr.Value)}
	if attr.Comment != "" {
		parts = append(parts, "-- "+attr.Comment)
	}
	return strings.Join(parts, " ")
}

func formatAttributeType(t schema.AttributeType) string {
	if t.Kind == schema.Enum {
		return fmt.Sprintf("(%s)", strings.Join(t.Options, "|"))
	}
	return t.Kind.String()
}

func formatAttributeValue(v schema.AttributeValue) string {
	switch v.Kind {
	case schema.Fixed:
		return fmt.Sprintf("#FIXED %q", v.Value)
	case schema.Default:
		return fmt.Sprintf("DEFAULT %q", v.Value)
	default:
		return v.Kind.String()
	}
}

func formatEntity(e schema.Entity) string {
	if e.Kind == schema.External {
		return fmt.Sprintf("%s SYSTEM %q", e.Name, e.Value)
	}
	return fmt.Sprintf("%s %q", e.Name, e.Value)
}
