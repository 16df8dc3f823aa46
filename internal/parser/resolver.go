package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd/internal/schema"
)

const (
	pcdataToken = "#PCDATA"
	anyToken    = "ANY"
)

var attributeTypes = map[string]schema.AttributeTypeKind{
	"CDATA":    schema.CharacterData,
	"ID":       schema.ID,
	"IDREF":    schema.IDRef,
	"IDREFS":   schema.IDRefs,
	"NMTOKEN":  schema.NmToken,
	"NMTOKENS": schema.NmTokens,
	"ENTITY":   schema.EntityType,
	"ENTITIES": schema.Entities,
	"NOTATION": schema.Notation,
	"xml:":     schema.XML,
}

// Resolve turns lexed declarations into a document type definition rooted at
// d.RootName. Element references are expanded at every use site.
func Resolve(d *Declarations) (*schema.DocumentTypeDefinition, error) {
	r := &resolver{decl: d, expanding: make(map[string]bool)}

	root, err := r.buildElement(d.RootName)
	if err != nil {
		return nil, err
	}

	var entities []schema.Entity
	for _, e := range d.InternalEntities {
		entities = append(entities, schema.Entity{Kind: schema.Internal, Name: e.Name, Value: e.Value})
	}
	for _, e := range d.ExternalEntities {
		entities = append(entities, schema.Entity{Kind: schema.External, Name: e.Name, Value: e.URI})
	}

	return &schema.DocumentTypeDefinition{RootElement: root, Entities: entities}, nil
}

type resolver struct {
	decl      *Declarations
	expanding map[string]bool
}

func (r *resolver) buildElement(name string) (schema.ElementDefinition, error) {
	dto, ok := lo.Find(r.decl.Elements, func(e ElementDTO) bool {
		return e.Name == name
	})
	if !ok {
		return nil, ErrUnknownElement(name)
	}
	if r.expanding[name] {
		return nil, newError(KindRecursiveElement, name)
	}
	r.expanding[name] = true
	defer delete(r.expanding, name)

	attributes, err := r.buildAttributes(name)
	if err != nil {
		return nil, err
	}
	base := schema.Element{ElementName: name, Attributes: attributes, Comment: dto.Comment}

	el, err := r.buildContent(base, dto)
	if err != nil {
		return nil, withContext(err, "<!ELEMENT "+name+">")
	}
	return el, nil
}

func (r *resolver) buildContent(base schema.Element, dto ElementDTO) (schema.ElementDefinition, error) {
	children := dto.Children

	switch {
	case dto.IsMixed:
		names := lo.FilterMap(children, func(c string, _ int) (string, bool) {
			c = strings.TrimSpace(c)
			return c, c != "" && c != pcdataToken
		})
		var elements []schema.ElementDefinition
		for _, n := range names {
			child, err := r.buildElement(n)
			if err != nil {
				return nil, err
			}
			elements = append(elements, child)
		}
		return schema.MixedElement{
			Element:        base,
			ContainsPCData: lo.ContainsBy(children, func(c string) bool { return strings.TrimSpace(c) == pcdataToken }),
			Children:       elements,
		}, nil

	case len(children) == 0:
		return schema.EmptyElement{Element: base}, nil

	case len(children) == 1 && children[0] == pcdataToken:
		return schema.PCDataElement{Element: base}, nil

	case len(children) == 1 && children[0] == anyToken:
		return schema.AnyElement{Element: base}, nil

	case len(children) == 1 && isTopLevelChoice(children[0]):
		p, err := parseParticle("(" + children[0] + ")")
		if err != nil {
			return nil, ErrUnsupportedContent(children[0])
		}
		options, err := r.buildOptions(p.Group)
		if err != nil {
			return nil, err
		}
		return schema.EitherElement{Element: base, Options: options}, nil
	}

	resolved := make([]schema.ChildElementDefinition, 0, len(children))
	for _, token := range children {
		child, err := r.buildChild(token)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, child)
	}
	return schema.WithChildrenElement{Element: base, Children: resolved}, nil
}

// buildChild resolves one comma-separated child token such as "name",
// "entry+" or "(holiday|programslot)*".
func (r *resolver) buildChild(token string) (schema.ChildElementDefinition, error) {
	p, err := parseParticle(token)
	if err != nil {
		logger.Verbose(fmt.Sprintf("content particle %q: %v", token, err))
		return nil, ErrUnsupportedContent(token)
	}
	return r.childFromParticle(p)
}

func (r *resolver) childFromParticle(p *particle) (schema.ChildElementDefinition, error) {
	occurs := occursOf(p.Occurs)
	if p.Group != nil {
		options, err := r.buildOptions(p.Group)
		if err != nil {
			return nil, err
		}
		return schema.EitherChild{Occurs: occurs, Options: options}, nil
	}
	el, err := r.buildElement(p.Name)
	if err != nil {
		return nil, err
	}
	return schema.SingleChild{Occurs: occurs, ElementDefinition: el}, nil
}

func (r *resolver) buildOptions(group []*particle) ([]schema.ChildElementDefinition, error) {
	options := make([]schema.ChildElementDefinition, 0, len(group))
	for _, p := range group {
		option, err := r.childFromParticle(p)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	return options, nil
}

func (r *resolver) buildAttributes(elementName string) ([]schema.AttributeDefinition, error) {
	dtos := lo.Filter(r.decl.Attributes, func(a AttributeDTO, _ int) bool {
		return a.ElementName == elementName
	})
	var attributes []schema.AttributeDefinition
	for _, dto := range dtos {
		attr, err := buildAttribute(dto)
		if err != nil {
			return nil, withContext(err, "<!ATTLIST "+elementName+" "+dto.AttributeName+">")
		}
		attributes = append(attributes, attr)
	}
	return attributes, nil
}

func buildAttribute(dto AttributeDTO) (schema.AttributeDefinition, error) {
	attrType, err := parseAttributeType(dto.Type)
	if err != nil {
		return schema.AttributeDefinition{}, err
	}
	value, err := parseAttributeValue(dto.Value)
	if err != nil {
		return schema.AttributeDefinition{}, err
	}
	return schema.AttributeDefinition{
		Name:    dto.AttributeName,
		Type:    attrType,
		Value:   value,
		Comment: dto.Comment,
	}, nil
}

func parseAttributeType(raw string) (schema.AttributeType, error) {
	if kind, ok := attributeTypes[raw]; ok {
		return schema.TypeOf(kind), nil
	}
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		options := strings.Split(raw[1:len(raw)-1], "|")
		for i := range options {
			options[i] = strings.TrimSpace(options[i])
		}
		return schema.EnumOf(options...), nil
	}
	return schema.AttributeType{}, ErrUnknownType(raw)
}

func parseAttributeValue(raw string) (schema.AttributeValue, error) {
	switch {
	case raw == "#REQUIRED":
		return schema.RequiredValue(), nil
	case raw == "#IMPLIED":
		return schema.ImpliedValue(), nil
	case strings.HasPrefix(raw, "#FIXED"):
		if v, ok := unquote(strings.TrimSpace(strings.TrimPrefix(raw, "#FIXED"))); ok {
			return schema.FixedValue(v), nil
		}
	default:
		if v, ok := unquote(raw); ok {
			return schema.DefaultValue(v), nil
		}
	}
	return schema.AttributeValue{}, ErrUnknownValue(raw)
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// isTopLevelChoice reports whether token holds a '|' outside any parentheses
func isTopLevelChoice(token string) bool {
	depth := 0
	for _, c := range token {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// withContext records where a taxonomy error was found, keeping the
// innermost context when one is already set.
func withContext(err error, context string) error {
	var pe *Error
	if errors.As(err, &pe) && pe.Context == "" {
		pe.Context = context
	}
	return err
}
