package formatter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tordrt/xmldtd/internal/codemodel"
	"github.com/tordrt/xmldtd/internal/parser"
)

func buildFile(t *testing.T, dtd string) *codemodel.File {
	t.Helper()
	result, err := parser.Parse(strings.NewReader(dtd))
	require.NoError(t, err)
	return codemodel.Build(result, "com.example.news")
}

func renderString(t *testing.T, dtd string) string {
	t.Helper()
	src, err := RenderGo(buildFile(t, dtd))
	require.NoError(t, err)
	return string(src)
}

func TestRenderGoPCDataElement(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE NAME [
<!ELEMENT NAME (#PCDATA)>
<!ATTLIST NAME xml:lang CDATA "eng">
]>`)

	require.True(strings.HasPrefix(src, "// Code generated by xmldtd. DO NOT EDIT.\n"))
	require.Contains(src, "package news\n")
	require.Contains(src, `"encoding/xml"`)
	require.NotContains(src, "xmldtd/pcdata")

	require.Contains(src, "type Name struct {")
	require.Regexp(`XMLName\s+xml\.Name\s+`+"`"+`xml:"NAME"`+"`", src)
	require.Regexp(`Lang\s+string\s+`+"`"+`xml:"http://www.w3.org/XML/1998/namespace lang,attr"`+"`", src)
	require.Regexp(`Content\s+PcData\s+`+"`"+`xml:",chardata"`+"`", src)

	require.Contains(src, "func NewName() *Name {")
	require.Regexp(`Lang:\s+"eng",`, src)
	require.Contains(src, "type PcData string")
}

func TestRenderGoAttributes(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE IMG [
<!ELEMENT IMG EMPTY>
<!ATTLIST IMG
src CDATA #REQUIRED
refs IDREFS #IMPLIED
align (left | right-side) "left"
version CDATA #FIXED "1.0">
]>`)

	require.Regexp(`Src\s+string\s+`+"`"+`xml:"src,attr"`+"`", src)
	require.Regexp(`Refs\s+\[\]string\s+`+"`"+`xml:"refs,attr,omitempty"`+"`", src)
	require.Regexp(`Align\s+ImgAlign\s+`+"`"+`xml:"align,attr"`+"`", src)
	require.Regexp(`Version\s+string\s+`+"`"+`xml:"version,attr"`+"`", src)

	require.Contains(src, "type ImgAlign string")
	require.Regexp(`ImgAlignLeft\s+ImgAlign = "left"`, src)
	require.Regexp(`ImgAlignRightSide\s+ImgAlign = "right-side"`, src)

	require.Regexp(`Align:\s+ImgAlign\("left"\),`, src)
	require.Regexp(`Version:\s+"1.0",`, src)
}

func TestRenderGoEnumOptionsThatAreNotIdentifiers(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE R [
<!ELEMENT R EMPTY>
<!ATTLIST R v (1.0|2.0|a.b|a:b|en:GB) "1.0">
]>`)

	require.Contains(src, "type RV string")
	require.Regexp(`RV1_0\s+RV = "1.0"`, src)
	require.Regexp(`RV2_0\s+RV = "2.0"`, src)
	require.Regexp(`RVA_b\s+RV = "a.b"`, src)
	require.Regexp(`RVA_b2\s+RV = "a:b"`, src)
	require.Regexp(`RVEn_GB\s+RV = "en:GB"`, src)
	require.Regexp(`V:\s+RV\("1.0"\),`, src)
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Left", "Left"},
		{"1.0", "1_0"},
		{"en:GB", "en_GB"},
		{"a b", "a_b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, identifier(tt.name))
		})
	}
}

func TestRenderGoSingletonHasNoConstructor(t *testing.T) {
	src := renderString(t, `<!DOCTYPE BR [
<!ELEMENT BR EMPTY>
]>`)
	require.Contains(t, src, "type Br struct {")
	require.NotContains(t, src, "func NewBr()")
}

func TestRenderGoChoiceGroup(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE DAY [
<!ELEMENT DAY (DATE,(HOLIDAY|PROGRAMSLOT+)+)>
<!ELEMENT DATE (#PCDATA)>
<!ELEMENT HOLIDAY (#PCDATA)>
<!ELEMENT PROGRAMSLOT (#PCDATA)>
]>`)

	require.Contains(src, "type HolidayOrProgramslot interface {")
	require.Contains(src, "isHolidayOrProgramslot()")
	require.Contains(src, "func (Holiday) isHolidayOrProgramslot() {}")
	require.Contains(src, "func (Programslot) isHolidayOrProgramslot() {}")

	require.Regexp(`Date\s+Date\s+`+"`"+`xml:"DATE"`+"`", src)
	require.Regexp(`HolidayOrProgramslots\s+\[\]HolidayOrProgramslot\s+`+"`"+`xml:",any"`+"`", src)
}

func TestRenderGoOccurs(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE GLOSSARY [
<!ELEMENT GLOSSARY (TITLE, ENTRY*, NOTE?)>
<!ELEMENT TITLE (#PCDATA)>
<!ELEMENT ENTRY (#PCDATA)>
<!ELEMENT NOTE (#PCDATA)>
]>`)

	require.Regexp(`Entries\s+\[\]Entry\s+`+"`"+`xml:"ENTRY"`+"`", src)
	require.Regexp(`Note\s+\*Note\s+`+"`"+`xml:"NOTE,omitempty"`+"`", src)
}

func TestRenderGoMixedContent(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE P [
<!ELEMENT P (#PCDATA | B | LINK)*>
<!ELEMENT B (#PCDATA)>
<!ELEMENT LINK (LABEL)>
<!ELEMENT LABEL (#PCDATA)>
]>`)

	require.Contains(src, "type PContent interface {")
	require.Contains(src, "type PB struct {")
	require.Contains(src, "type PLink struct {")
	require.Contains(src, "type PLabel struct {")
	require.Contains(src, "type PPcData string")
	require.Regexp(`Content\s+\[\]PContent\s+`+"`"+`xml:",any"`+"`", src)
	require.Regexp(`Label\s+PLabel\s+`+"`"+`xml:"LABEL"`+"`", src)

	require.Contains(src, "func (PB) isPContent() {}")
	require.Contains(src, "func (PPcData) isPContent() {}")
	require.NotContains(src, "func (PLabel) isPContent() {}")
}

func TestRenderGoMixedChildNamedContent(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE R [
<!ELEMENT R (#PCDATA|CONTENT)*>
<!ELEMENT CONTENT (#PCDATA)>
]>`)

	require.Contains(src, "type RContentChoice interface {")
	require.Contains(src, "type RContent struct {")
	require.Contains(src, "func (RContent) isRContentChoice() {}")
	require.Contains(src, "func (RPcData) isRContentChoice() {}")
	require.Regexp(`Content\s+\[\]RContentChoice\s+`+"`"+`xml:",any"`+"`", src)
}

func TestRenderGoEitherElement(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE WHEN [
<!ELEMENT WHEN (DATE | TIME)>
<!ATTLIST WHEN zone CDATA "UTC">
<!ELEMENT DATE (#PCDATA)>
<!ELEMENT TIME EMPTY>
]>`)

	require.Contains(src, "type When interface {")
	require.Contains(src, "func (WhenDate) isWhen() {}")
	require.Contains(src, "func (WhenTime) isWhen() {}")
	require.Regexp(`Zone\s+string\s+`+"`"+`xml:"zone,attr"`+"`", src)
	require.Contains(src, "func NewWhenTime() *WhenTime {")
}

func TestRenderGoEntityTables(t *testing.T) {
	require := require.New(t)

	src := renderString(t, `<!DOCTYPE NEWSPAPER [
<!ELEMENT NEWSPAPER (#PCDATA)>
<!ENTITY NEWSPAPER "Vervet Logic Times">
<!ENTITY LOGO SYSTEM "logo.gif">
]>`)

	require.Contains(src, `"github.com/tordrt/xmldtd/pcdata"`)
	require.Contains(src, "var NewspaperInternalEntities = map[string]string{")
	require.Contains(src, `"NEWSPAPER": "Vervet Logic Times",`)
	require.Contains(src, "var NewspaperExternalEntities = map[string]string{")
	require.Contains(src, `"LOGO": "logo.gif",`)
	require.Contains(src, "return pcdata.Expand(string(p), NewspaperInternalEntities)")
	require.Contains(src, "func (p PcData) ParseWith(entities map[string]string) string {")
}

func TestRenderGoComments(t *testing.T) {
	src := renderString(t, `<!DOCTYPE HOLIDAY [
<!ELEMENT HOLIDAY (DATE)>
<!-- A holiday on some date -->
<!ELEMENT DATE (#PCDATA)>
<!-- An ISO8601 date. -->
]>`)
	require.Contains(t, src, "// A holiday on some date\ntype Holiday struct {")
	require.Contains(t, src, "\t// An ISO8601 date.\n\tDate ")
}

func TestGoFormatterWrites(t *testing.T) {
	file := buildFile(t, `<!DOCTYPE BR [
<!ELEMENT BR EMPTY>
]>`)
	expected, err := RenderGo(file)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewGoFormatter(&buf).Format(file))
	require.Equal(t, string(expected), buf.String())
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		identifier string
		expected   string
	}{
		{"com.example.Schema", "schema"},
		{"github.com/acme/tv-guide", "tvguide"},
		{"news", "news"},
		{"com.example.2024", "p2024"},
		{"", "schema"},
		{"com.example.---", "schema"},
		{"my_pkg", "my_pkg"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			require.Equal(t, tt.expected, PackageName(tt.identifier))
		})
	}
}

func TestGoFilePath(t *testing.T) {
	file := &codemodel.File{Package: "com.example.news", Name: "Newspaper"}
	require.Equal(t, filepath.Join("out", "com", "example", "news", "Newspaper.go"), GoFilePath("out", file))

	file.Package = ""
	require.Equal(t, filepath.Join("out", "Newspaper.go"), GoFilePath("out", file))
}
