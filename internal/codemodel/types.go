// Package codemodel describes the types generated for a DTD independently of
// the language they are printed in.
package codemodel

import "strings"

// Kind is the shape of a generated type
type Kind int

const (
	Record Kind = iota
	SingletonObject
	ValueWrapper
	SealedInterface
	Enum
)

func (k Kind) String() string {
	switch k {
	case Record:
		return "record"
	case SingletonObject:
		return "object"
	case ValueWrapper:
		return "value"
	case SealedInterface:
		return "sealed interface"
	case Enum:
		return "enum"
	}
	return "unknown"
}

// StringTypeName is the name of the builtin string type
const StringTypeName = "String"

// TypeRef refers to a generated or builtin type. Outer lists the enclosing
// types of a nested type, outermost first.
type TypeRef struct {
	Name     string
	Outer    []string
	Builtin  bool
	Optional bool
	List     bool
}

// StringType is the builtin string reference
func StringType() TypeRef {
	return TypeRef{Name: StringTypeName, Builtin: true}
}

// Path returns the enclosing type names followed by the type's own name
func (t TypeRef) Path() []string {
	path := make([]string, 0, len(t.Outer)+1)
	path = append(path, t.Outer...)
	return append(path, t.Name)
}

// QualifiedName joins Path with dots, e.g. "Holiday.Content"
func (t TypeRef) QualifiedName() string {
	return strings.Join(t.Path(), ".")
}

// Same reports whether both refer to the same declaration, ignoring
// optionality and multiplicity.
func (t TypeRef) Same(other TypeRef) bool {
	return t.Builtin == other.Builtin && t.QualifiedName() == other.QualifiedName()
}

// AnnotationKind enumerates the serialization hints attached to types and
// fields.
type AnnotationKind int

const (
	Serializable AnnotationKind = iota
	// XmlElement marks a member as a child element (Element true) or an attribute.
	XmlElement
	SerialName
	// XmlSerialName carries the namespace prefix and local part of a qualified name.
	XmlSerialName
	XmlValue
)

type Annotation struct {
	Kind    AnnotationKind
	Element bool
	Value   string
	Prefix  string
}

// Field is a member of a generated type
type Field struct {
	Name          string
	Type          TypeRef
	Annotations   []Annotation
	InConstructor bool
	// Default is the constructor default of a Default(v) attribute
	Default *string
	// Initializer is the literal of a Fixed(v) attribute
	Initializer *string
	Doc         string
}

// Annotation returns the first annotation of the given kind
func (f *Field) Annotation(kind AnnotationKind) (Annotation, bool) {
	return findAnnotation(f.Annotations, kind)
}

// SerialName returns the XML name the field is bound to, if any
func (f *Field) SerialName() (string, bool) {
	a, ok := f.Annotation(SerialName)
	return a.Value, ok
}

// IsAttribute reports whether the field is bound to an XML attribute
func (f *Field) IsAttribute() bool {
	a, ok := f.Annotation(XmlElement)
	return ok && !a.Element
}

// IsValue reports whether the field holds the element's text content
func (f *Field) IsValue() bool {
	_, ok := f.Annotation(XmlValue)
	return ok
}

// EnumConstant is one option of an Enum type
type EnumConstant struct {
	Name       string
	SerialName string
}

// DataType is one generated type declaration
type DataType struct {
	Kind        Kind
	Name        string
	Doc         string
	Annotations []Annotation
	Fields      []*Field
	Supertypes  []TypeRef
	Nested      []*DataType
	Constants   []EnumConstant
	// EntityTable names the file-level table PcData.Parse expands against.
	// Only set on the file-level PcData wrapper.
	EntityTable string
}

// SerialName returns the XML element name of the type, if any
func (t *DataType) SerialName() (string, bool) {
	a, ok := findAnnotation(t.Annotations, SerialName)
	return a.Value, ok
}

// ConstructorFields returns the fields set through the constructor, in
// declaration order.
func (t *DataType) ConstructorFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if f.InConstructor {
			fields = append(fields, f)
		}
	}
	return fields
}

// HasSupertype reports whether t implements ref
func (t *DataType) HasSupertype(ref TypeRef) bool {
	for _, s := range t.Supertypes {
		if s.Same(ref) {
			return true
		}
	}
	return false
}

// NestedType returns the nested declaration with the given name
func (t *DataType) NestedType(name string) (*DataType, bool) {
	for _, n := range t.Nested {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Entry is one row of an entity table
type Entry struct {
	Name  string
	Value string
}

// File is the complete generated unit for one DTD
type File struct {
	Package          string
	Name             string
	RootType         TypeRef
	RootElement      string
	Types            []*DataType
	InternalEntities []Entry
	ExternalEntities []Entry
}

// InternalEntitiesName is the identifier of the internal entity table
func (f *File) InternalEntitiesName() string {
	return f.Name + "InternalEntities"
}

// ExternalEntitiesName is the identifier of the external entity table
func (f *File) ExternalEntitiesName() string {
	return f.Name + "ExternalEntities"
}

// Type returns the top-level declaration with the given name
func (f *File) Type(name string) (*DataType, bool) {
	for _, t := range f.Types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Lookup resolves a reference to its declaration
func (f *File) Lookup(ref TypeRef) (*DataType, bool) {
	if ref.Builtin {
		return nil, false
	}
	path := ref.Path()
	t, ok := f.Type(path[0])
	for _, name := range path[1:] {
		if !ok {
			return nil, false
		}
		t, ok = t.NestedType(name)
	}
	return t, ok
}

func findAnnotation(annotations []Annotation, kind AnnotationKind) (Annotation, bool) {
	for _, a := range annotations {
		if a.Kind == kind {
			return a, true
		}
	}
	return Annotation{}, false
}
