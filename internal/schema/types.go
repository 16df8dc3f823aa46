package schema

// DocumentTypeDefinition represents a fully resolved DTD
type DocumentTypeDefinition struct {
	RootElement ElementDefinition
	Entities    []Entity
}

// Element holds the fields shared by every element variant
type Element struct {
	ElementName string
	Attributes  []AttributeDefinition
	Comment     string // empty when the declaration carried no comment
}

// Base returns the shared element fields
func (e Element) Base() Element {
	return e
}

func (Element) elementDefinition() {}

// ElementDefinition is implemented by EmptyElement, PCDataElement, AnyElement,
// WithChildrenElement, MixedElement and EitherElement.
type ElementDefinition interface {
	Base() Element
	elementDefinition()
}

// EmptyElement is declared EMPTY
type EmptyElement struct {
	Element
}

// PCDataElement is declared (#PCDATA)
type PCDataElement struct {
	Element
}

// AnyElement is declared ANY
type AnyElement struct {
	Element
}

// WithChildrenElement has an ordered sequence content model, e.g. (a, b, c)
type WithChildrenElement struct {
	Element
	Children []ChildElementDefinition
}

// MixedElement has a (#PCDATA | a | b)* content model
type MixedElement struct {
	Element
	ContainsPCData bool
	Children       []ElementDefinition
}

// EitherElement has a top-level choice content model, e.g. (a | b)
type EitherElement struct {
	Element
	Options []ChildElementDefinition
}

// Occurs is the multiplicity attached to a child reference
type Occurs int

const (
	Once Occurs = iota
	AtLeastOnce
	ZeroOrMore
	AtMostOnce
)

// IsList reports whether the multiplicity allows more than one occurrence
func (o Occurs) IsList() bool {
	return o == AtLeastOnce || o == ZeroOrMore
}

func (o Occurs) String() string {
	switch o {
	case AtLeastOnce:
		return "+"
	case ZeroOrMore:
		return "*"
	case AtMostOnce:
		return "?"
	default:
		return ""
	}
}

// ChildElementDefinition is implemented by SingleChild and EitherChild.
type ChildElementDefinition interface {
	ChildOccurs() Occurs
}

// SingleChild references one element declaration
type SingleChild struct {
	Occurs            Occurs
	ElementDefinition ElementDefinition
}

// ChildOccurs returns the reference multiplicity
func (c SingleChild) ChildOccurs() Occurs { return c.Occurs }

// EitherChild is a nested choice group, e.g. (a | b)+
type EitherChild struct {
	Occurs  Occurs
	Options []ChildElementDefinition
}

// ChildOccurs returns the group multiplicity
func (c EitherChild) ChildOccurs() Occurs { return c.Occurs }

// AttributeDefinition represents one ATTLIST entry
type AttributeDefinition struct {
	Name    string
	Type    AttributeType
	Value   AttributeValue
	Comment string
}

// AttributeTypeKind enumerates the DTD attribute types
type AttributeTypeKind int

const (
	CharacterData AttributeTypeKind = iota
	ID
	IDRef
	IDRefs
	NmToken
	NmTokens
	EntityType
	Entities
	Notation
	XML
	Enum
)

var attributeTypeNames = map[AttributeTypeKind]string{
	CharacterData: "CDATA",
	ID:            "ID",
	IDRef:         "IDREF",
	IDRefs:        "IDREFS",
	NmToken:       "NMTOKEN",
	NmTokens:      "NMTOKENS",
	EntityType:    "ENTITY",
	Entities:      "ENTITIES",
	Notation:      "NOTATION",
	XML:           "xml:",
	Enum:          "ENUM",
}

func (k AttributeTypeKind) String() string {
	return attributeTypeNames[k]
}

// IsList reports whether values of this type are whitespace-separated lists
func (k AttributeTypeKind) IsList() bool {
	switch k {
	case Entities, IDRefs, NmTokens, XML:
		return true
	}
	return false
}

// AttributeType is the declared type of an attribute; Options is set for Enum only
type AttributeType struct {
	Kind    AttributeTypeKind
	Options []string
}

// EnumOf builds an enumerated attribute type
func EnumOf(options ...string) AttributeType {
	return AttributeType{Kind: Enum, Options: options}
}

// TypeOf builds a non-enumerated attribute type
func TypeOf(kind AttributeTypeKind) AttributeType {
	return AttributeType{Kind: kind}
}

// ValueKind enumerates attribute default declarations
type ValueKind int

const (
	Required ValueKind = iota
	Implied
	Fixed
	Default
)

func (k ValueKind) String() string {
	switch k {
	case Required:
		return "#REQUIRED"
	case Implied:
		return "#IMPLIED"
	case Fixed:
		return "#FIXED"
	default:
		return "DEFAULT"
	}
}

// AttributeValue is the default declaration of an attribute; Value is set for Fixed and Default
type AttributeValue struct {
	Kind  ValueKind
	Value string
}

func RequiredValue() AttributeValue { return AttributeValue{Kind: Required} }

func ImpliedValue() AttributeValue { return AttributeValue{Kind: Implied} }

func FixedValue(v string) AttributeValue { return AttributeValue{Kind: Fixed, Value: v} }

func DefaultValue(v string) AttributeValue { return AttributeValue{Kind: Default, Value: v} }

// EntityKind distinguishes internal and external entities
type EntityKind int

const (
	Internal EntityKind = iota
	External
)

// Entity is a named text substitution. Value holds the literal for internal
// entities and the system URI for external ones.
type Entity struct {
	Kind  EntityKind
	Name  string
	Value string
}
