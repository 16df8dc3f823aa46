// Package xmldtd turns the internal subset of an XML DTD into Go types that
// can unmarshal documents of that type.
//
// A DTD is processed in three stages: the declarations are parsed and
// resolved into a tree of element definitions, the tree is mapped to a graph
// of generated types, and the graph is printed as Go source.
//
// # Quick Start
//
// The simplest way to use this package is with ParseAndGenerate:
//
//	err := xmldtd.ParseAndGenerate(
//		context.Background(),
//		"tvschedule.dtd",
//		&xmldtd.Options{Package: "example.tv"},
//		&xmldtd.OutputOptions{OutputDir: "gen"},
//	)
//
// This writes gen/example/tv/Tvschedule.go.
//
// # Sources
//
// Locations are local paths or http:// and https:// URLs. Remote sources are
// cached on disk when Options.CacheDir is set.
//
// # Supported DTD subset
//
// Only the internal subset of a <!DOCTYPE name [ ... ]> declaration is read:
// ELEMENT, ATTLIST and ENTITY declarations plus comments, which become doc
// comments of the declaration above them. Parameter entities, conditional
// sections and NOTATION declarations are not supported.
package xmldtd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/sync/errgroup"

	"github.com/tordrt/xmldtd/internal/codemodel"
	"github.com/tordrt/xmldtd/internal/fetch"
	"github.com/tordrt/xmldtd/internal/formatter"
	"github.com/tordrt/xmldtd/internal/parser"
	"github.com/tordrt/xmldtd/internal/schema"
)

// Output formats
const (
	FormatGo       = "go"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// DocumentTypeDefinition is a resolved DTD: the root element with every
// reference inlined, and the entity declarations.
type DocumentTypeDefinition = schema.DocumentTypeDefinition

// File is the graph of types generated for one DTD
type File = codemodel.File

// Errors returned by Parse and ParseFile. Use errors.Is to test for them.
var (
	ErrMissingDoctype          = parser.ErrMissingDoctype
	ErrMissingRootName         = parser.ErrMissingRootName
	ErrUnknownElementReference = parser.ErrUnknownElementReference
	ErrUnknownAttributeType    = parser.ErrUnknownAttributeType
	ErrUnknownAttributeValue   = parser.ErrUnknownAttributeValue
	ErrRecursiveElement        = parser.ErrRecursiveElement
	ErrUnsupportedContentModel = parser.ErrUnsupportedContentModel
)

// Options configures parsing and generation.
//
// All fields are optional:
//   - Package: dotted or slashed package identifier of the generated code;
//     its last segment becomes the package clause, every segment a directory
//     below OutputOptions.OutputDir. Defaults to "schema".
//   - CacheDir: directory caching remote sources; empty disables the cache.
//   - Format: "go" (default) prints Go source, "text" and "markdown" write a
//     description of the DTD instead.
type Options struct {
	Package  string
	CacheDir string
	Format   string
}

// OutputOptions configures where output is written.
//
// If OutputDir is set, Go source goes to OutputDir/<package path>/<Root>.go
// and descriptions to OutputDir/<ROOT>.txt or .md. Otherwise output is
// written to Writer, or to os.Stdout if Writer is nil.
type OutputOptions struct {
	Writer    io.Writer
	OutputDir string
}

// Job is one source of a batch run
type Job struct {
	Location string
	// Package overrides Options.Package for this job
	Package string
}

func (o *Options) packageName() string {
	if o == nil || o.Package == "" {
		return formatter.PackageName("")
	}
	return o.Package
}

func (o *Options) format() string {
	if o == nil || o.Format == "" {
		return FormatGo
	}
	return o.Format
}

// Parse reads a DTD from r and resolves it
func Parse(r io.Reader) (*DocumentTypeDefinition, error) {
	return parser.Parse(r)
}

// ParseFile reads and resolves the DTD at location, a local path or an
// http(s) URL.
func ParseFile(ctx context.Context, location string, opts *Options) (*DocumentTypeDefinition, error) {
	cacheDir := ""
	if opts != nil {
		cacheDir = opts.CacheDir
	}

	rc, err := fetch.NewOpener(cacheDir).Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	dtd, err := parser.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", location, err)
	}
	return dtd, nil
}

// Build maps a resolved DTD to the types generated for it
func Build(dtd *DocumentTypeDefinition, opts *Options) *File {
	return codemodel.Build(dtd, opts.packageName())
}

// Generate prints file as Go source
func Generate(file *File, outOpts *OutputOptions) error {
	if outOpts != nil && outOpts.OutputDir != "" {
		_, err := writeGoFile(outOpts.OutputDir, file)
		return err
	}
	return formatter.NewGoFormatter(writerOf(outOpts)).Format(file)
}

// Describe writes a text or markdown description of dtd
func Describe(dtd *DocumentTypeDefinition, format string, outOpts *OutputOptions) error {
	if outOpts != nil && outOpts.OutputDir != "" {
		_, err := writeDescription(outOpts.OutputDir, dtd, format)
		return err
	}
	d, err := formatter.NewDescriber(format, writerOf(outOpts))
	if err != nil {
		return err
	}
	return d.Format(dtd)
}

// ParseAndGenerate reads the DTD at location and writes its output in one
// call. This is the recommended function for most use cases.
func ParseAndGenerate(ctx context.Context, location string, opts *Options, outOpts *OutputOptions) error {
	dtd, err := ParseFile(ctx, location, opts)
	if err != nil {
		return err
	}
	if format := opts.format(); format != FormatGo {
		return Describe(dtd, format, outOpts)
	}
	return Generate(Build(dtd, opts), outOpts)
}

// GenerateAll processes jobs concurrently, writing each output below
// outputDir, and returns the written paths in job order. The first failure
// cancels the jobs that have not started yet.
func GenerateAll(ctx context.Context, jobs []Job, opts *Options, outputDir string) ([]string, error) {
	paths := make([]string, len(jobs))
	g, ctx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			jobOpts := Options{Format: opts.format(), Package: opts.packageName()}
			if opts != nil {
				jobOpts.CacheDir = opts.CacheDir
			}
			if job.Package != "" {
				jobOpts.Package = job.Package
			}

			dtd, err := ParseFile(ctx, job.Location, &jobOpts)
			if err != nil {
				return err
			}
			var path string
			if jobOpts.Format == FormatGo {
				path, err = writeGoFile(outputDir, Build(dtd, &jobOpts))
			} else {
				path, err = writeDescription(outputDir, dtd, jobOpts.Format)
			}
			if err != nil {
				return fmt.Errorf("failed to write output of %s: %w", job.Location, err)
			}
			logger.Verbose(fmt.Sprintf("%s -> %s", job.Location, path))
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func writerOf(outOpts *OutputOptions) io.Writer {
	if outOpts == nil || outOpts.Writer == nil {
		return os.Stdout
	}
	return outOpts.Writer
}

func writeGoFile(outputDir string, file *File) (string, error) {
	src, err := formatter.RenderGo(file)
	if err != nil {
		return "", err
	}
	path := formatter.GoFilePath(outputDir, file)
	return path, createFile(path, func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
}

func writeDescription(outputDir string, dtd *DocumentTypeDefinition, format string) (string, error) {
	var buf bytes.Buffer
	d, err := formatter.NewDescriber(format, &buf)
	if err != nil {
		return "", err
	}
	if err := d.Format(dtd); err != nil {
		return "", err
	}

	ext := ".txt"
	if format == FormatMarkdown {
		ext = ".md"
	}
	path := filepath.Join(outputDir, dtd.RootElement.Base().ElementName+ext)
	return path, createFile(path, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
}

func createFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
