package schema

import (
	"strings"
)

// Walk visits el and every element reachable from it in preorder. The
// callback receives each use site, so an element referenced twice is visited
// twice.
func Walk(el ElementDefinition, visit func(ElementDefinition)) {
	visit(el)
	switch e := el.(type) {
	case WithChildrenElement:
		walkChildren(e.Children, visit)
	case EitherElement:
		walkChildren(e.Options, visit)
	case MixedElement:
		for _, child := range e.Children {
			Walk(child, visit)
		}
	}
}

func walkChildren(children []ChildElementDefinition, visit func(ElementDefinition)) {
	for _, child := range children {
		switch c := child.(type) {
		case SingleChild:
			Walk(c.ElementDefinition, visit)
		case EitherChild:
			walkChildren(c.Options, visit)
		}
	}
}

// Elements returns every distinct element reachable from the root, by first
// occurrence in preorder.
func (d *DocumentTypeDefinition) Elements() []ElementDefinition {
	seen := make(map[string]bool)
	var out []ElementDefinition
	Walk(d.RootElement, func(el ElementDefinition) {
		name := el.Base().ElementName
		if seen[name] {
			return
		}
		seen[name] = true
		out = append(out, el)
	})
	return out
}

// KindName returns a short label for the element variant
func KindName(el ElementDefinition) string {
	switch el.(type) {
	case EmptyElement:
		return "EMPTY"
	case PCDataElement:
		return "PCDATA"
	case AnyElement:
		return "ANY"
	case WithChildrenElement:
		return "CHILDREN"
	case MixedElement:
		return "MIXED"
	case EitherElement:
		return "EITHER"
	}
	return "UNKNOWN"
}

// ContentModel renders the content model of el in DTD notation
func ContentModel(el ElementDefinition) string {
	switch e := el.(type) {
	case EmptyElement:
		return "EMPTY"
	case AnyElement:
		return "ANY"
	case PCDataElement:
		return "(#PCDATA)"
	case WithChildrenElement:
		return "(" + joinChildren(e.Children, ",") + ")"
	case EitherElement:
		return "(" + joinChildren(e.Options, "|") + ")"
	case MixedElement:
		parts := make([]string, 0, len(e.Children)+1)
		if e.ContainsPCData {
			parts = append(parts, "#PCDATA")
		}
		for _, child := range e.Children {
			parts = append(parts, child.Base().ElementName)
		}
		return "(" + strings.Join(parts, "|") + ")*"
	}
	return ""
}

func joinChildren(children []ChildElementDefinition, sep string) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		parts = append(parts, childReference(child))
	}
	return strings.Join(parts, sep)
}

func childReference(child ChildElementDefinition) string {
	switch c := child.(type) {
	case SingleChild:
		return c.ElementDefinition.Base().ElementName + c.Occurs.String()
	case EitherChild:
		return "(" + joinChildren(c.Options, "|") + ")" + c.Occurs.String()
	}
	return ""
}

// ChildNames returns the names of the elements directly referenced by el's
// content model, in content-model order.
func ChildNames(el ElementDefinition) []string {
	var names []string
	var collect func([]ChildElementDefinition)
	collect = func(children []ChildElementDefinition) {
		for _, child := range children {
			switch c := child.(type) {
			case SingleChild:
				names = append(names, c.ElementDefinition.Base().ElementName)
			case EitherChild:
				collect(c.Options)
			}
		}
	}
	switch e := el.(type) {
	case WithChildrenElement:
		collect(e.Children)
	case EitherElement:
		collect(e.Options)
	case MixedElement:
		for _, child := range e.Children {
			names = append(names, child.Base().ElementName)
		}
	}
	return names
}
