package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/xmldtd/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// MultiFileFormatter writes one description file per element into a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the overview and the per-element files
func (f *MultiFileFormatter) Format(dtd *schema.DocumentTypeDefinition) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	elements := dtd.Elements()
	if err := f.writeOverview(dtd, elements); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, el := range elements {
		if err := f.writeElementFile(el, elements); err != nil {
			return fmt.Errorf("failed to write element file for %s: %w", el.Base().ElementName, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeOverview(dtd *schema.DocumentTypeDefinition, elements []schema.ElementDefinition) error {
	filename := filepath.Join(f.OutputDir, "_overview"+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	root := dtd.RootElement.Base().ElementName
	sorted := sortedElements(elements)

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# %s Overview\n\n", root)
		_, _ = fmt.Fprintf(file, "Each element has a corresponding file: `<element_name>%s`\n\n", f.getFileExtension())
		_, _ = fmt.Fprintf(file, "## Elements\n\n")
		for _, el := range sorted {
			_, _ = fmt.Fprintf(file, "- **%s**", el.Base().ElementName)
			if children := schema.ChildNames(el); len(children) > 0 {
				_, _ = fmt.Fprintf(file, " (contains: %s)", strings.Join(children, ", "))
			}
			_, _ = fmt.Fprintf(file, "\n")
		}
		_, _ = fmt.Fprintln(file)
		NewMarkdownFormatter(file).FormatEntities(dtd.Entities)
		return nil
	}

	_, _ = fmt.Fprintf(file, "%s OVERVIEW\n", root)
	_, _ = fmt.Fprintf(file, "Each element has a file: <element_name>%s\n\n", f.getFileExtension())
	for _, el := range sorted {
		_, _ = fmt.Fprintf(file, "%s", el.Base().ElementName)
		if children := schema.ChildNames(el); len(children) > 0 {
			_, _ = fmt.Fprintf(file, " (contains: %s)", strings.Join(children, ","))
		}
		_, _ = fmt.Fprintf(file, "\n")
	}
	if len(dtd.Entities) > 0 {
		_, _ = fmt.Fprintln(file)
		_, _ = fmt.Fprintln(file, "ENTITIES")
		for _, e := range dtd.Entities {
			_, _ = fmt.Fprintf(file, "  %s\n", formatEntity(e))
		}
	}
	return nil
}

func (f *MultiFileFormatter) writeElementFile(el schema.ElementDefinition, all []schema.ElementDefinition) error {
	name := el.Base().ElementName
	filename := filepath.Join(f.OutputDir, name+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	parents := findParents(name, all)

	if f.OutputFormat == formatMarkdown {
		if err := NewMarkdownFormatter(file).FormatElement(el); err != nil {
			return err
		}
		if len(parents) > 0 {
			_, _ = fmt.Fprintf(file, "### Contained by\n\n")
			for _, p := range parents {
				_, _ = fmt.Fprintf(file, "- %s\n", p)
			}
			_, _ = fmt.Fprintln(file)
		}
		return nil
	}

	NewTextFormatter(file).formatElement(el, false)
	if len(parents) > 0 {
		_, _ = fmt.Fprintln(file)
		_, _ = fmt.Fprintln(file, "  CONTAINED BY:")
		for _, p := range parents {
			_, _ = fmt.Fprintf(file, "    ← %s\n", p)
		}
	}
	return nil
}

// findParents lists the elements whose content model references name
func findParents(name string, elements []schema.ElementDefinition) []string {
	var parents []string
	for _, el := range elements {
		for _, child := range schema.ChildNames(el) {
			if child == name {
				parents = append(parents, el.Base().ElementName)
				break
			}
		}
	}
	return parents
}

func sortedElements(elements []schema.ElementDefinition) []schema.ElementDefinition {
	sorted := make([]schema.ElementDefinition, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Base().ElementName < sorted[j].Base().ElementName
	})
	return sorted
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
