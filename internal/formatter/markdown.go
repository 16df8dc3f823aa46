package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/xmldtd/internal/schema"
)

// MarkdownFormatter describes a DTD as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the DTD in markdown format
func (f *MarkdownFormatter) Format(dtd *schema.DocumentTypeDefinition) error {
	_, _ = fmt.Fprintf(f.writer, "# Document Type %s\n", dtd.RootElement.Base().ElementName)
	_, _ = fmt.Fprintln(f.writer)

	for _, el := range dtd.Elements() {
		if err := f.formatElement(el); err != nil {
			return err
		}
	}

	f.FormatEntities(dtd.Entities)
	return nil
}

// FormatElement formats a single element (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatElement(el schema.ElementDefinition) error {
	return f.formatElement(el)
}

func (f *MarkdownFormatter) formatElement(el schema.ElementDefinition) error {
	base := el.Base()

	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", base.ElementName)
	if base.Comment != "" {
		_, _ = fmt.Fprintf(f.writer, "%s\n\n", base.Comment)
	}
	_, _ = fmt.Fprintf(f.writer, "Content: `%s`\n\n", schema.ContentModel(el))

	// Attributes
	if len(base.Attributes) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Attributes")
		_, _ = fmt.Fprintln(f.writer)
		for _, attr := range base.Attributes {
			line := fmt.Sprintf("- **%s:** %s, %s", attr.Name, formatAttributeType(attr.Type), formatAttributeValue(attr.Value))
			if attr.Comment != "" {
				line += " (" + attr.Comment + ")"
			}
			_, _ = fmt.Fprintln(f.writer, line)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	// Children
	if children := schema.ChildNames(el); len(children) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Children")
		_, _ = fmt.Fprintln(f.writer)
		for _, child := range children {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", child)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

// FormatEntities writes the entity table, if any
func (f *MarkdownFormatter) FormatEntities(entities []schema.Entity) {
	if len(entities) == 0 {
		return
	}
	_, _ = fmt.Fprintln(f.writer, "## Entities")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintln(f.writer, "| Name | Kind | Value |")
	_, _ = fmt.Fprintln(f.writer, "|---|---|---|")
	for _, e := range entities {
		kind := "internal"
		if e.Kind == schema.External {
			kind = "external"
		}
		_, _ = fmt.Fprintf(f.writer, "| %s | %s | %s |\n", e.Name, kind, escapeCell(e.Value))
	}
	_, _ = fmt.Fprintln(f.writer)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
