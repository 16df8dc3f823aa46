package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/xmldtd/internal/schema"
)

func TestBuildAttributeTypes(t *testing.T) {
	tests := []struct {
		raw      string
		expected schema.AttributeType
	}{
		{"CDATA", schema.TypeOf(schema.CharacterData)},
		{"ID", schema.TypeOf(schema.ID)},
		{"IDREF", schema.TypeOf(schema.IDRef)},
		{"IDREFS", schema.TypeOf(schema.IDRefs)},
		{"NMTOKEN", schema.TypeOf(schema.NmToken)},
		{"NMTOKENS", schema.TypeOf(schema.NmTokens)},
		{"ENTITY", schema.TypeOf(schema.EntityType)},
		{"ENTITIES", schema.TypeOf(schema.Entities)},
		{"NOTATION", schema.TypeOf(schema.Notation)},
		{"xml:", schema.TypeOf(schema.XML)},
		{"(enum-Value_1 | enum_Value-2)", schema.EnumOf("enum-Value_1", "enum_Value-2")},
		{"(single)", schema.EnumOf("single")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			attr, err := buildAttribute(AttributeDTO{
				ElementName:   "element",
				AttributeName: "attribute",
				Type:          tt.raw,
				Value:         "#REQUIRED",
			})
			require.NoError(t, err)
			require.Equal(t, tt.expected, attr.Type)
		})
	}
}

func TestBuildAttributeValues(t *testing.T) {
	tests := []struct {
		raw      string
		expected schema.AttributeValue
	}{
		{"#REQUIRED", schema.RequiredValue()},
		{"#IMPLIED", schema.ImpliedValue()},
		{`#FIXED "fixed"`, schema.FixedValue("fixed")},
		{"#FIXED\t\"tabbed\"", schema.FixedValue("tabbed")},
		{`"default"`, schema.DefaultValue("default")},
		{`""`, schema.DefaultValue("")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			attr, err := buildAttribute(AttributeDTO{
				ElementName:   "element",
				AttributeName: "attribute",
				Type:          "CDATA",
				Value:         tt.raw,
			})
			require.NoError(t, err)
			require.Equal(t, tt.expected, attr.Value)
		})
	}
}

func TestBuildAttributeFailures(t *testing.T) {
	tests := []struct {
		name     string
		dto      AttributeDTO
		sentinel error
	}{
		{
			name:     "unknown type",
			dto:      AttributeDTO{AttributeName: "attribute", Type: "some-invalid-type", Value: "#REQUIRED"},
			sentinel: ErrUnknownAttributeType,
		},
		{
			name:     "unknown value",
			dto:      AttributeDTO{AttributeName: "attribute", Type: "CDATA", Value: "some-invalid-data"},
			sentinel: ErrUnknownAttributeValue,
		},
		{
			name:     "unquoted fixed value",
			dto:      AttributeDTO{AttributeName: "attribute", Type: "CDATA", Value: "#FIXED bare"},
			sentinel: ErrUnknownAttributeValue,
		},
		{
			name:     "single quoted default",
			dto:      AttributeDTO{AttributeName: "attribute", Type: "CDATA", Value: "'x'"},
			sentinel: ErrUnknownAttributeValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildAttribute(tt.dto)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestResolveElementVariants(t *testing.T) {
	decl := &Declarations{
		Elements: []ElementDTO{
			{Name: "text", Children: []string{"#PCDATA"}},
			{Name: "any", Children: []string{"ANY"}},
			{Name: "empty", Children: []string{}},
			{Name: "mixed", Children: []string{"#PCDATA", "text"}, IsMixed: true},
			{Name: "choice", Children: []string{"text|empty"}},
			{Name: "nested", Children: []string{"(text|empty)*"}},
		},
	}
	tests := []struct {
		name string
		kind string
	}{
		{"text", "PCDATA"},
		{"any", "ANY"},
		{"empty", "EMPTY"},
		{"mixed", "MIXED"},
		{"choice", "EITHER"},
		{"nested", "CHILDREN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl.RootName = tt.name
			result, err := Resolve(decl)
			require.NoError(t, err)
			require.Equal(t, tt.kind, schema.KindName(result.RootElement))
		})
	}
}

func TestResolveMissingChildren(t *testing.T) {
	tests := []struct {
		name string
		dto  ElementDTO
	}{
		{"children", ElementDTO{Name: "root", Children: []string{"missing"}}},
		{"mixed children", ElementDTO{Name: "root", Children: []string{"#PCDATA", "missing"}, IsMixed: true}},
		{"choice option", ElementDTO{Name: "root", Children: []string{"(a|missing)+"}}},
		{"malformed particle", ElementDTO{Name: "root", Children: []string{"(a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := &Declarations{
				RootName: "root",
				Elements: []ElementDTO{tt.dto, {Name: "a", Children: []string{"#PCDATA"}}},
			}
			_, err := Resolve(decl)
			require.ErrorIs(t, err, ErrUnknownElementReference)
		})
	}
}

func TestResolveReexpandsSharedElements(t *testing.T) {
	require := require.New(t)

	decl := &Declarations{
		RootName: "pair",
		Elements: []ElementDTO{
			{Name: "pair", Children: []string{"item", "item"}},
			{Name: "item", Children: []string{"#PCDATA"}},
		},
	}
	result, err := Resolve(decl)
	require.NoError(err)

	root := result.RootElement.(schema.WithChildrenElement)
	require.Len(root.Children, 2)
	require.Equal(root.Children[0], root.Children[1])
}

func TestIsTopLevelChoice(t *testing.T) {
	require := require.New(t)
	require.True(isTopLevelChoice("a|b"))
	require.True(isTopLevelChoice("a | (b|c)"))
	require.False(isTopLevelChoice("(a|b)+"))
	require.False(isTopLevelChoice("a"))
}
