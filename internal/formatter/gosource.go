package formatter

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/tordrt/xmldtd/internal/codemodel"
)

//go:embed templates/*
var goTemplatesFS embed.FS

const (
	goFileTemplate = "gofile.tmpl"
	pcdataImport   = "github.com/tordrt/xmldtd/pcdata"
	defaultPackage = "schema"
)

// well-known namespace prefixes; any other prefix is used as the namespace itself
var namespaces = map[string]string{
	"xml":   "http://www.w3.org/XML/1998/namespace",
	"xmlns": "http://www.w3.org/2000/xmlns/",
}

// GoFormatter prints a generated type graph as Go source
type GoFormatter struct {
	writer io.Writer
}

// NewGoFormatter creates a new Go source formatter
func NewGoFormatter(w io.Writer) *GoFormatter {
	return &GoFormatter{writer: w}
}

// Format writes gofmt-formatted Go source for file
func (f *GoFormatter) Format(file *codemodel.File) error {
	src, err := RenderGo(file)
	if err != nil {
		return err
	}
	_, err = f.writer.Write(src)
	return err
}

// RenderGo returns the formatted Go source of file
func RenderGo(file *codemodel.File) ([]byte, error) {
	data := newGoFile(file)

	raw, err := fillInTemplate(goFileTemplate, data)
	if err != nil {
		return nil, err
	}

	formatted, err := imports.Process(file.Name+".go", raw, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source for %s: %w", file.Name, err)
	}
	return formatted, nil
}

// GoFilePath returns where the source of file belongs below outputDir: one
// directory per segment of the package identifier.
func GoFilePath(outputDir string, file *codemodel.File) string {
	parts := append([]string{outputDir}, packageSegments(file.Package)...)
	parts = append(parts, file.Name+".go")
	return filepath.Join(parts...)
}

// PackageName derives the Go package clause from a dotted or slashed
// package identifier: "com.example.Schema" -> "schema".
func PackageName(pkg string) string {
	segments := packageSegments(pkg)
	if len(segments) == 0 {
		return defaultPackage
	}
	name := strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, segments[len(segments)-1])
	switch {
	case name == "":
		return defaultPackage
	case name[0] >= '0' && name[0] <= '9':
		return "p" + name
	}
	return name
}

func packageSegments(pkg string) []string {
	return strings.FieldsFunc(pkg, func(r rune) bool {
		return r == '.' || r == '/'
	})
}

func fillInTemplate(templateName string, data any) ([]byte, error) {
	goTemplates, err := fs.Sub(goTemplatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	t, err := template.New(templateName).ParseFS(goTemplates, "*")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var filled bytes.Buffer
	if err := t.ExecuteTemplate(&filled, templateName, data); err != nil {
		return nil, fmt.Errorf("failed to fill template: %w", err)
	}
	return filled.Bytes(), nil
}

type goFile struct {
	Package          string
	Imports          []string
	Types            []*goType
	InternalEntities *goTable
	ExternalEntities *goTable
}

type goTable struct {
	Name    string
	Entries []goEntry
}

type goEntry struct {
	Key   string
	Value string
}

type goType struct {
	Kind        string // struct, interface, enum or value
	Name        string
	Doc         []string
	XMLName     string
	Fields      []goField
	Embeds      []string
	Marker      string
	Markers     []string
	Constants   []goConstant
	Constructor []goAssignment
	EntityTable string
}

type goField struct {
	Name string
	Type string
	Tag  string
	Doc  []string
}

type goConstant struct {
	Name  string
	Value string
}

type goAssignment struct {
	Name  string
	Value string
}

// goGen flattens nested declarations into package-level Go types named by
// joining the enclosing type names, e.g. Holiday.Content -> HolidayContent.
type goGen struct {
	file       *codemodel.File
	usesXML    bool
	usesPcData bool
}

func newGoFile(file *codemodel.File) *goFile {
	g := &goGen{file: file}
	out := &goFile{Package: PackageName(file.Package)}

	for _, t := range file.Types {
		out.Types = append(out.Types, g.flatten(t, nil)...)
	}
	out.InternalEntities = entityTable(file.InternalEntitiesName(), file.InternalEntities)
	out.ExternalEntities = entityTable(file.ExternalEntitiesName(), file.ExternalEntities)

	if g.usesXML {
		out.Imports = append(out.Imports, "encoding/xml")
	}
	if g.usesPcData {
		out.Imports = append(out.Imports, pcdataImport)
	}
	return out
}

func entityTable(name string, entries []codemodel.Entry) *goTable {
	if len(entries) == 0 {
		return nil
	}
	table := &goTable{Name: name}
	for _, e := range entries {
		table.Entries = append(table.Entries, goEntry{Key: strconv.Quote(e.Name), Value: strconv.Quote(e.Value)})
	}
	return table
}

func (g *goGen) flatten(t *codemodel.DataType, outer []string) []*goType {
	path := append(append([]string(nil), outer...), t.Name)
	name := identifier(strings.Join(path, ""))

	gt := &goType{
		Name:    name,
		Doc:     docLines(t.Doc),
		Markers: g.markers(t),
	}

	switch t.Kind {
	case codemodel.Record, codemodel.SingletonObject:
		gt.Kind = "struct"
		if serial, ok := t.SerialName(); ok {
			gt.XMLName = serial
			g.usesXML = true
		}
		gt.Fields = g.fields(t.Fields)
		gt.Constructor = g.constructor(t.Fields)
	case codemodel.SealedInterface:
		gt.Kind = "interface"
		gt.Marker = markerName(name)
		for _, s := range t.Supertypes {
			gt.Embeds = append(gt.Embeds, flatName(s))
		}
	case codemodel.Enum:
		gt.Kind = "enum"
		used := make(map[string]bool, len(t.Constants))
		for _, c := range t.Constants {
			constant := uniqueName(name+identifier(c.Name), used)
			gt.Constants = append(gt.Constants, goConstant{Name: constant, Value: strconv.Quote(c.SerialName)})
		}
	case codemodel.ValueWrapper:
		gt.Kind = "value"
		if t.EntityTable != "" {
			gt.EntityTable = t.EntityTable
			g.usesPcData = true
		}
	}

	types := []*goType{gt}
	for _, n := range t.Nested {
		types = append(types, g.flatten(n, path)...)
	}
	return types
}

// markers lists the marker methods t implements: one per sealed interface
// it belongs to, directly or through another interface.
func (g *goGen) markers(t *codemodel.DataType) []string {
	if t.Kind == codemodel.SealedInterface {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	var visit func(refs []codemodel.TypeRef)
	visit = func(refs []codemodel.TypeRef) {
		for _, ref := range refs {
			name := flatName(ref)
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, markerName(name))
			if parent, ok := g.file.Lookup(ref); ok {
				visit(parent.Supertypes)
			}
		}
	}
	visit(t.Supertypes)
	return out
}

func (g *goGen) fields(fields []*codemodel.Field) []goField {
	used := map[string]bool{"XMLName": true}
	var out []goField
	for _, f := range fields {
		name := uniqueName(exported(identifier(f.Name)), used)
		out = append(out, goField{
			Name: name,
			Type: g.typeExpr(f.Type),
			Tag:  g.tag(f),
			Doc:  docLines(f.Doc),
		})
	}
	return out
}

func (g *goGen) constructor(fields []*codemodel.Field) []goAssignment {
	used := map[string]bool{"XMLName": true}
	var out []goAssignment
	for _, f := range fields {
		name := uniqueName(exported(identifier(f.Name)), used)
		var value *string
		switch {
		case f.Initializer != nil:
			value = f.Initializer
		case f.Default != nil:
			value = f.Default
		default:
			continue
		}
		out = append(out, goAssignment{Name: name, Value: g.literal(f.Type, *value)})
	}
	return out
}

func (g *goGen) isInterface(ref codemodel.TypeRef) bool {
	t, ok := g.file.Lookup(ref)
	return ok && t.Kind == codemodel.SealedInterface
}

func (g *goGen) typeExpr(ref codemodel.TypeRef) string {
	base := "string"
	if !ref.Builtin {
		base = flatName(ref)
	}
	switch {
	case ref.List:
		return "[]" + base
	case ref.Optional && !g.isInterface(ref):
		return "*" + base
	}
	return base
}

func (g *goGen) tag(f *codemodel.Field) string {
	omit := ""
	if f.Type.Optional {
		omit = ",omitempty"
	}

	switch {
	case f.IsAttribute():
		name, _ := f.SerialName()
		if q, ok := f.Annotation(codemodel.XmlSerialName); ok {
			space, known := namespaces[q.Prefix]
			if !known {
				space = q.Prefix
			}
			name = space + " " + q.Value
		}
		return fmt.Sprintf(`xml:"%s,attr%s"`, name, omit)
	case f.IsValue():
		if f.Type.List || g.isInterface(f.Type) {
			return `xml:",any"`
		}
		return `xml:",chardata"`
	}

	if g.isInterface(f.Type) {
		return `xml:",any"`
	}
	if name, ok := f.SerialName(); ok {
		return fmt.Sprintf(`xml:"%s%s"`, name, omit)
	}
	return `xml:",any"`
}

// literal renders an attribute default or fixed value as a Go expression of
// the field's type.
func (g *goGen) literal(ref codemodel.TypeRef, value string) string {
	if ref.List {
		quoted := make([]string, 0)
		for _, token := range strings.Fields(value) {
			quoted = append(quoted, strconv.Quote(token))
		}
		return "[]string{" + strings.Join(quoted, ", ") + "}"
	}
	if ref.Builtin {
		return strconv.Quote(value)
	}
	return flatName(ref) + "(" + strconv.Quote(value) + ")"
}

func flatName(ref codemodel.TypeRef) string {
	return identifier(strings.Join(ref.Path(), ""))
}

// identifier replaces every rune a Go identifier cannot hold with '_'.
// NMTOKEN enum options such as "1.0" or "en:GB" pass through here.
func identifier(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, name)
}

func markerName(interfaceName string) string {
	return "is" + interfaceName
}

func exported(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	used[candidate] = true
	return candidate
}

func docLines(doc string) []string {
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}
