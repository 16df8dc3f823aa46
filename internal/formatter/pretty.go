package formatter

import (
	"fmt"
	"io"

	"github.com/kr/pretty"

	"github.com/tordrt/xmldtd/internal/schema"
)

// PrettyFormatter dumps the resolved tree with Go syntax, for debugging
type PrettyFormatter struct {
	writer io.Writer
}

// NewPrettyFormatter creates a new pretty formatter
func NewPrettyFormatter(w io.Writer) *PrettyFormatter {
	return &PrettyFormatter{writer: w}
}

// Format writes the DTD as a Go-syntax value dump
func (f *PrettyFormatter) Format(dtd *schema.DocumentTypeDefinition) error {
	_, err := fmt.Fprintf(f.writer, "%# v\n", pretty.Formatter(dtd))
	return err
}
