// Package config loads the YAML project file that describes batch
// generation jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
)

const (
	FormatGo       = "go"
	FormatText     = "text"
	FormatMarkdown = "markdown"

	defaultOutputDir = "."
)

var (
	ErrNoSources     = errors.New("no sources configured")
	ErrInvalidSource = errors.New("source must set exactly one of path and url")
	ErrInvalidFormat = errors.New("invalid format")
)

// Formats lists the output formats a project file may name
var Formats = []string{FormatGo, FormatText, FormatMarkdown}

// Source is one DTD to process
type Source struct {
	Path    string `yaml:"path"`
	URL     string `yaml:"url"`
	Package string `yaml:"package"`
}

// Config is the project file
type Config struct {
	Package   string   `yaml:"package"`
	OutputDir string   `yaml:"output_dir"`
	Format    string   `yaml:"format"`
	CacheDir  string   `yaml:"cache_dir"`
	Sources   []Source `yaml:"sources"`
}

// Load reads and validates the project file at path. Relative paths inside
// it resolve against the directory of the file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(content, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a project file, applies defaults, resolves relative paths
// against baseDir and validates the result.
func Parse(content []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if cfg.Format == "" {
		cfg.Format = FormatGo
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.OutputDir = resolve(baseDir, cfg.OutputDir)
	if cfg.CacheDir != "" {
		cfg.CacheDir = resolve(baseDir, cfg.CacheDir)
	}
	for i := range cfg.Sources {
		if cfg.Sources[i].Path != "" {
			cfg.Sources[i].Path = resolve(baseDir, cfg.Sources[i].Path)
		}
	}
	return &cfg, nil
}

// Validate checks the format and every source
func (c *Config) Validate() error {
	if !lo.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: %s (must be one of %v)", ErrInvalidFormat, c.Format, Formats)
	}
	if len(c.Sources) == 0 {
		return ErrNoSources
	}
	for i, s := range c.Sources {
		if (s.Path == "") == (s.URL == "") {
			return fmt.Errorf("sources[%d]: %w", i, ErrInvalidSource)
		}
	}
	return nil
}

// Location returns the path or URL of the source
func (s Source) Location() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// PackageOr returns the package of the source, or fallback when unset
func (s Source) PackageOr(fallback string) string {
	if s.Package != "" {
		return s.Package
	}
	return fallback
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
