package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal DTD error.
type ErrorKind string

const (
	// KindMissingDoctype indicates no <!DOCTYPE name [ line was found.
	KindMissingDoctype ErrorKind = "missing-doctype"
	// KindMissingRootName indicates the DOCTYPE line carried no root identifier.
	KindMissingRootName ErrorKind = "missing-root-name"
	// KindUnknownElementReference indicates a content model names an undeclared element.
	KindUnknownElementReference ErrorKind = "unknown-element-reference"
	// KindUnknownAttributeType indicates an ATTLIST type matched no known form.
	KindUnknownAttributeType ErrorKind = "unknown-attribute-type"
	// KindUnknownAttributeValue indicates an ATTLIST default matched no known form.
	KindUnknownAttributeValue ErrorKind = "unknown-attribute-value"
	// KindRecursiveElement indicates a content model refers back to an element being expanded.
	KindRecursiveElement ErrorKind = "recursive-element"
	// KindUnsupportedContentModel indicates a content model token outside the
	// supported grammar, such as a sequence nested in a group.
	KindUnsupportedContentModel ErrorKind = "unsupported-content-model"
)

var (
	ErrMissingDoctype          = errors.New("no <!DOCTYPE name [ declaration found in input")
	ErrMissingRootName         = errors.New("could not determine root element name from <!DOCTYPE> declaration")
	ErrUnknownElementReference = errors.New("unknown element reference")
	ErrUnknownAttributeType    = errors.New("unknown attribute type")
	ErrUnknownAttributeValue   = errors.New("unknown attribute value")
	ErrRecursiveElement        = errors.New("recursive element reference")
	ErrUnsupportedContentModel = errors.New("unsupported content model")
)

var kindSentinels = map[ErrorKind]error{
	KindMissingDoctype:          ErrMissingDoctype,
	KindMissingRootName:         ErrMissingRootName,
	KindUnknownElementReference: ErrUnknownElementReference,
	KindUnknownAttributeType:    ErrUnknownAttributeType,
	KindUnknownAttributeValue:   ErrUnknownAttributeValue,
	KindRecursiveElement:        ErrRecursiveElement,
	KindUnsupportedContentModel: ErrUnsupportedContentModel,
}

// Error is returned for every fatal condition of the parse and resolve
// stages. errors.Is matches it against the sentinel of its Kind.
type Error struct {
	Kind    ErrorKind
	Subject string // offending token, empty when not applicable
	Context string // declaration the subject was found in, if known
}

func (e *Error) Error() string {
	msg := kindSentinels[e.Kind].Error()
	if e.Subject != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Subject)
	}
	if e.Context != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Context)
	}
	return msg
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind ErrorKind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

func ErrUnknownElement(name string) error {
	return newError(KindUnknownElementReference, name)
}

func ErrUnsupportedContent(token string) error {
	return newError(KindUnsupportedContentModel, token)
}

func ErrUnknownType(raw string) error {
	return newError(KindUnknownAttributeType, raw)
}

func ErrUnknownValue(raw string) error {
	return newError(KindUnknownAttributeValue, raw)
}

// KindOf returns the kind of a taxonomy error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
