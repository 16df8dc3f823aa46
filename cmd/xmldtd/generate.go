package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd"
	"github.com/tordrt/xmldtd/internal/config"
)

type generateParams struct {
	ConfigFile string
	Package    string
	OutputDir  string
	OutputFile string
	Format     string
	CacheDir   string
}

func newGenerateCmd() *cobra.Command {
	params := generateParams{}
	cmd := &cobra.Command{
		Use:   "generate [dtd location...]",
		Short: "Generate Go types from DTD files or URLs",
		Long: `Generate reads the internal subset of each DTD and writes Go types that unmarshal
documents of that type. Locations are local paths or http(s) URLs. With --config the
jobs are read from a YAML project file instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if params.ConfigFile != "" {
				if len(args) > 0 {
					return errors.New("cannot use both --config and dtd locations")
				}
				return generateFromConfig(cmd, params.ConfigFile)
			}
			return generate(cmd, params, args)
		},
	}
	cmd.Flags().StringVarP(&params.ConfigFile, "config", "c", "", "YAML project file describing the sources")
	cmd.Flags().StringVarP(&params.Package, "package", "p", "", "Package of the generated code, e.g. com.example.schema (default: schema)")
	cmd.Flags().StringVarP(&params.OutputDir, "output-dir", "d", "", "Output directory; files go below it by package path")
	cmd.Flags().StringVarP(&params.OutputFile, "output", "o", "", "Output file for a single source (default: stdout)")
	cmd.Flags().StringVarP(&params.Format, "format", "f", xmldtd.FormatGo, "Output format: go, text or markdown")
	cmd.Flags().StringVar(&params.CacheDir, "cache-dir", "", "Directory caching remote sources")
	return cmd
}

func generate(cmd *cobra.Command, params generateParams, locations []string) error {
	if len(locations) == 0 {
		return errors.New("at least one dtd location is required")
	}
	if params.OutputDir != "" && params.OutputFile != "" {
		return errors.New("cannot use both --output-dir and --output flags")
	}

	opts := &xmldtd.Options{
		Package:  params.Package,
		CacheDir: params.CacheDir,
		Format:   params.Format,
	}

	if params.OutputDir != "" {
		jobs := make([]xmldtd.Job, 0, len(locations))
		for _, location := range locations {
			jobs = append(jobs, xmldtd.Job{Location: location})
		}
		paths, err := xmldtd.GenerateAll(cmd.Context(), jobs, opts, params.OutputDir)
		if err != nil {
			return err
		}
		reportWritten(paths)
		return nil
	}

	if len(locations) > 1 {
		return errors.New("--output-dir is required for more than one dtd location")
	}

	outOpts := &xmldtd.OutputOptions{Writer: cmd.OutOrStdout()}
	if params.OutputFile != "" {
		f, err := os.Create(params.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Error("failed to close output file:", err)
			}
		}()
		outOpts.Writer = f
	}
	return xmldtd.ParseAndGenerate(cmd.Context(), locations[0], opts, outOpts)
}

func generateFromConfig(cmd *cobra.Command, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	jobs := make([]xmldtd.Job, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		jobs = append(jobs, xmldtd.Job{Location: s.Location(), Package: s.PackageOr(cfg.Package)})
	}
	opts := &xmldtd.Options{
		Package:  cfg.Package,
		CacheDir: cfg.CacheDir,
		Format:   cfg.Format,
	}

	paths, err := xmldtd.GenerateAll(cmd.Context(), jobs, opts, cfg.OutputDir)
	if err != nil {
		return err
	}
	reportWritten(paths)
	return nil
}

func reportWritten(paths []string) {
	for _, path := range paths {
		logger.Info(green("written"), path)
	}
}
