package codemodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd/internal/naming"
	"github.com/tordrt/xmldtd/internal/schema"
)

const (
	contentFieldName = "content"
	contentTypeName  = "Content"
	// PcDataTypeName is the name of the text wrapper emitted into every file
	PcDataTypeName = "PcData"
)

// Generated is the result of building one element or child reference:
// the type that represents it and every declaration it produced, in
// emission order with the root type last.
type Generated struct {
	Root  TypeRef
	Types []*DataType
}

func (g Generated) rootType() *DataType {
	for i := len(g.Types) - 1; i >= 0; i-- {
		if g.Types[i].Name == g.Root.Name {
			return g.Types[i]
		}
	}
	return nil
}

// Build maps a resolved DTD to the file of types generated for it
func Build(dtd *schema.DocumentTypeDefinition, packageName string) *File {
	root := dtd.RootElement.Base()
	generated := BuildElement(dtd.RootElement)

	file := &File{
		Package:     packageName,
		Name:        naming.Pascal(root.ElementName),
		RootType:    generated.Root,
		RootElement: root.ElementName,
		Types:       dedupe(generated.Types),
	}

	for _, e := range dtd.Entities {
		entry := Entry{Name: e.Name, Value: e.Value}
		if e.Kind == schema.External {
			file.ExternalEntities = append(file.ExternalEntities, entry)
		} else {
			file.InternalEntities = append(file.InternalEntities, entry)
		}
	}

	pcData := &DataType{
		Kind:        ValueWrapper,
		Name:        PcDataTypeName,
		Annotations: []Annotation{{Kind: Serializable}},
		Fields:      []*Field{{Name: contentFieldName, Type: StringType(), InConstructor: true}},
	}
	if len(file.InternalEntities) > 0 {
		pcData.EntityTable = file.InternalEntitiesName()
	}
	file.Types = append(file.Types, pcData)

	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("built %d top-level types for %s", len(file.Types), root.ElementName))
	}
	return file
}

// BuildElement produces the type for el and the types of everything it
// contains. Children of sequences are lifted next to el; helpers of mixed
// and choice elements are nested inside it.
func BuildElement(el schema.ElementDefinition) Generated {
	base := el.Base()
	name := naming.Pascal(base.ElementName)
	self := TypeRef{Name: name}

	fields, nested := attributeFields(name, base.Attributes)
	var lifted []*DataType

	switch e := el.(type) {
	case schema.EmptyElement:

	case schema.PCDataElement, schema.AnyElement:
		fields = append(fields, contentField(TypeRef{Name: PcDataTypeName}))

	case schema.WithChildrenElement:
		childFields, childTypes := childrenFields(e.Children)
		fields = append(fields, childFields...)
		lifted = childTypes

	case schema.MixedElement:
		if e.ContainsPCData && len(e.Children) == 0 {
			fields = append(fields, contentField(TypeRef{Name: PcDataTypeName, List: true}))
			break
		}
		children := lo.Map(e.Children, func(child schema.ElementDefinition, _ int) Generated {
			return BuildElement(child)
		})
		var subtypes []*DataType
		for _, g := range children {
			subtypes = append(subtypes, g.Types...)
		}
		taken := make(map[string]bool)
		for _, t := range append(append([]*DataType(nil), nested...), subtypes...) {
			taken[t.Name] = true
		}
		content := TypeRef{Name: freeName(contentTypeName, "Choice", taken), Outer: []string{name}}
		for _, g := range children {
			g.rootType().Supertypes = append(g.rootType().Supertypes, content)
		}
		requalify(subtypes, []string{name})
		nested = append(nested, &DataType{
			Kind:        SealedInterface,
			Name:        content.Name,
			Annotations: []Annotation{{Kind: Serializable}},
		})
		nested = append(nested, subtypes...)
		if e.ContainsPCData {
			nested = append(nested, &DataType{
				Kind:        ValueWrapper,
				Name:        freeName(PcDataTypeName, "Text", taken),
				Annotations: []Annotation{{Kind: Serializable}},
				Fields:      []*Field{{Name: contentFieldName, Type: StringType(), InConstructor: true}},
				Supertypes:  []TypeRef{content},
			})
		}
		content.List = true
		fields = append(fields, contentField(content))

	case schema.EitherElement:
		constructorFields := lo.Filter(fields, func(f *Field, _ int) bool { return f.InConstructor })
		var options []*DataType
		for _, option := range e.Options {
			g := BuildChild(option)
			root := g.rootType()
			root.Supertypes = append(root.Supertypes, self)
			addOwnerFields(g.Types, g.Root, constructorFields)
			options = append(options, g.Types...)
		}
		requalify(options, []string{name})
		return Generated{
			Root: self,
			Types: []*DataType{{
				Kind:        SealedInterface,
				Name:        name,
				Doc:         base.Comment,
				Annotations: elementAnnotations(base.ElementName),
				Fields:      fields,
				Nested:      append(nested, options...),
			}},
		}
	}

	kind := Record
	if !lo.ContainsBy(fields, func(f *Field) bool { return f.InConstructor }) {
		kind = SingletonObject
	}
	root := &DataType{
		Kind:        kind,
		Name:        name,
		Doc:         base.Comment,
		Annotations: elementAnnotations(base.ElementName),
		Fields:      fields,
		Nested:      nested,
	}
	return Generated{Root: self, Types: append(lifted, root)}
}

// BuildChild produces the types for one child reference. A choice group
// yields a sealed interface named after its options, e.g. HolidayOrProgramslot.
func BuildChild(child schema.ChildElementDefinition) Generated {
	switch c := child.(type) {
	case schema.SingleChild:
		return BuildElement(c.ElementDefinition)
	case schema.EitherChild:
		options := lo.Map(c.Options, func(o schema.ChildElementDefinition, _ int) Generated {
			return BuildChild(o)
		})
		name := strings.Join(lo.Map(options, func(g Generated, _ int) string { return g.Root.Name }), "Or")
		sealed := TypeRef{Name: name}

		var types []*DataType
		for _, g := range options {
			g.rootType().Supertypes = append(g.rootType().Supertypes, sealed)
			types = append(types, g.Types...)
		}
		types = append(types, &DataType{
			Kind:        SealedInterface,
			Name:        name,
			Annotations: []Annotation{{Kind: Serializable}},
		})
		return Generated{Root: sealed, Types: types}
	}
	return Generated{}
}

func childrenFields(children []schema.ChildElementDefinition) ([]*Field, []*DataType) {
	var fields []*Field
	var types []*DataType
	for _, child := range children {
		g := BuildChild(child)
		occurs := child.ChildOccurs()

		ref := g.Root
		fieldName := naming.Camel(ref.Name)
		switch {
		case occurs.IsList():
			ref.List = true
			fieldName = naming.Plural(fieldName)
		case occurs == schema.AtMostOnce:
			ref.Optional = true
		}

		field := &Field{
			Name:          fieldName,
			Type:          ref,
			Annotations:   []Annotation{{Kind: XmlElement, Element: true}},
			InConstructor: true,
		}
		if single, ok := child.(schema.SingleChild); ok {
			el := single.ElementDefinition.Base()
			field.Annotations = append(field.Annotations, Annotation{Kind: SerialName, Value: el.ElementName})
			field.Doc = el.Comment
		}
		fields = append(fields, field)
		types = append(types, g.Types...)
	}
	return fields, types
}

// attributeFields maps attributes to fields in declaration order. Enumerated
// attributes also produce an Enum nested in the owning type.
func attributeFields(owner string, attributes []schema.AttributeDefinition) ([]*Field, []*DataType) {
	var fields []*Field
	var enums []*DataType
	for _, attr := range attributes {
		local := naming.StripPrefix(attr.Name)

		var ref TypeRef
		switch {
		case attr.Type.Kind == schema.Enum:
			enum := enumFor(local, attr.Type.Options)
			enums = append(enums, enum)
			ref = TypeRef{Name: enum.Name, Outer: []string{owner}}
		case attr.Type.Kind.IsList():
			ref = StringType()
			ref.List = true
		default:
			ref = StringType()
		}
		if attr.Value.Kind == schema.Implied {
			ref.Optional = true
		}

		field := &Field{
			Name: naming.Camel(local),
			Type: ref,
			Annotations: []Annotation{
				{Kind: XmlElement, Element: false},
				{Kind: SerialName, Value: attr.Name},
			},
			InConstructor: true,
			Doc:           attr.Comment,
		}
		if prefix, name := naming.SplitPrefix(attr.Name); prefix != "" {
			field.Annotations = append(field.Annotations, Annotation{Kind: XmlSerialName, Prefix: prefix, Value: name})
		}
		switch attr.Value.Kind {
		case schema.Fixed:
			value := attr.Value.Value
			field.Initializer = &value
			field.InConstructor = false
		case schema.Default:
			value := attr.Value.Value
			field.Default = &value
		}
		fields = append(fields, field)
	}
	return fields, enums
}

func enumFor(name string, options []string) *DataType {
	return &DataType{
		Kind:        Enum,
		Name:        naming.Pascal(name),
		Annotations: []Annotation{{Kind: Serializable}},
		Constants: lo.Map(options, func(option string, _ int) EnumConstant {
			return EnumConstant{Name: naming.Pascal(option), SerialName: option}
		}),
	}
}

func contentField(ref TypeRef) *Field {
	return &Field{
		Name:          contentFieldName,
		Type:          ref,
		Annotations:   []Annotation{{Kind: XmlValue}},
		InConstructor: true,
	}
}

func elementAnnotations(elementName string) []Annotation {
	return []Annotation{
		{Kind: Serializable},
		{Kind: XmlElement, Element: true},
		{Kind: SerialName, Value: elementName},
	}
}

// addOwnerFields copies fields into the record ref names. A choice group
// has no fields of its own, so they go to each of its options instead.
func addOwnerFields(types []*DataType, ref TypeRef, fields []*Field) {
	for _, t := range types {
		switch {
		case t.Name == ref.Name && t.Kind != SealedInterface:
			for _, f := range fields {
				t.Fields = append(t.Fields, copyField(f))
			}
			if t.Kind == SingletonObject && len(t.ConstructorFields()) > 0 {
				t.Kind = Record
			}
		case t.HasSupertype(ref):
			addOwnerFields(types, TypeRef{Name: t.Name}, fields)
		}
	}
}

// freeName returns name, or name with suffix (and then a counter) appended
// when a sibling declaration already uses it. The result is marked taken.
func freeName(name, suffix string, taken map[string]bool) string {
	candidate := name
	for i := 1; taken[candidate]; i++ {
		candidate = name + suffix
		if i > 1 {
			candidate += strconv.Itoa(i)
		}
	}
	taken[candidate] = true
	return candidate
}

func copyField(f *Field) *Field {
	c := *f
	c.Annotations = append([]Annotation(nil), f.Annotations...)
	c.Type.Outer = append([]string(nil), f.Type.Outer...)
	return &c
}

// requalify moves types under the enclosing path outer, rewriting every
// reference inside them that pointed at one of the moved declarations.
func requalify(types []*DataType, outer []string) {
	moved := make(map[string]bool, len(types))
	for _, t := range types {
		moved[t.Name] = true
	}
	fix := func(ref *TypeRef) {
		if ref.Builtin || !moved[ref.Path()[0]] {
			return
		}
		ref.Outer = append(append([]string(nil), outer...), ref.Outer...)
	}
	var visit func(t *DataType)
	visit = func(t *DataType) {
		for _, f := range t.Fields {
			fix(&f.Type)
		}
		for i := range t.Supertypes {
			fix(&t.Supertypes[i])
		}
		for _, n := range t.Nested {
			visit(n)
		}
	}
	for _, t := range types {
		visit(t)
	}
}

// dedupe keeps the first declaration of every name and merges the
// supertypes of later duplicates into it.
func dedupe(types []*DataType) []*DataType {
	byName := make(map[string]*DataType, len(types))
	var out []*DataType
	for _, t := range types {
		first, ok := byName[t.Name]
		if !ok {
			byName[t.Name] = t
			t.Nested = dedupe(t.Nested)
			out = append(out, t)
			continue
		}
		for _, s := range t.Supertypes {
			if !first.HasSupertype(s) {
				first.Supertypes = append(first.Supertypes, s)
			}
		}
	}
	return out
}
