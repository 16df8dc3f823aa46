package db

import (
	"strings"

	"github.com/tordrt/xmldtd/internal/schema"
)

// Record is a DTD flattened into catalog rows
type Record struct {
	RootName   string
	Source     string
	Elements   []ElementRow
	Attributes []AttributeRow
	Children   []ChildRow
	Entities   []EntityRow
}

// ElementRow is one distinct element of the document
type ElementRow struct {
	Position     int
	Name         string
	Kind         string
	ContentModel string
	Comment      string
}

// AttributeRow is one attribute of an element
type AttributeRow struct {
	ElementName string
	Position    int
	Name        string
	Type        string
	ValueKind   string
	Value       string
	Comment     string
}

// ChildRow links an element to an element its content model references
type ChildRow struct {
	ParentName string
	Position   int
	ChildName  string
}

// EntityRow is one entity declaration
type EntityRow struct {
	Position int
	Name     string
	External bool
	Value    string
}

// Extract flattens dtd into the rows stored for it. Elements appear once,
// in walk order from the root.
func Extract(source string, dtd *schema.DocumentTypeDefinition) *Record {
	rec := &Record{
		RootName: dtd.RootElement.Base().ElementName,
		Source:   source,
	}

	for i, el := range dtd.Elements() {
		base := el.Base()
		rec.Elements = append(rec.Elements, ElementRow{
			Position:     i,
			Name:         base.ElementName,
			Kind:         schema.KindName(el),
			ContentModel: schema.ContentModel(el),
			Comment:      base.Comment,
		})

		for j, attr := range base.Attributes {
			rec.Attributes = append(rec.Attributes, AttributeRow{
				ElementName: base.ElementName,
				Position:    j,
				Name:        attr.Name,
				Type:        attributeType(attr.Type),
				ValueKind:   attr.Value.Kind.String(),
				Value:       attr.Value.Value,
				Comment:     attr.Comment,
			})
		}

		for j, child := range schema.ChildNames(el) {
			rec.Children = append(rec.Children, ChildRow{
				ParentName: base.ElementName,
				Position:   j,
				ChildName:  child,
			})
		}
	}

	for i, e := range dtd.Entities {
		rec.Entities = append(rec.Entities, EntityRow{
			Position: i,
			Name:     e.Name,
			External: e.Kind == schema.External,
			Value:    e.Value,
		})
	}
	return rec
}

func attributeType(t schema.AttributeType) string {
	if t.Kind != schema.Enum {
		return t.Kind.String()
	}
	return "(" + strings.Join(t.Options, "|") + ")"
}
