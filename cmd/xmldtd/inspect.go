package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd"
	"github.com/tordrt/xmldtd/internal/formatter"
)

type inspectParams struct {
	Format     string
	OutputDir  string
	OutputFile string
	CacheDir   string
}

func newInspectCmd() *cobra.Command {
	params := inspectParams{}
	cmd := &cobra.Command{
		Use:   "inspect <dtd location>",
		Short: "Describe the elements, attributes and entities of a DTD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd, params, args[0])
		},
	}
	cmd.Flags().StringVarP(&params.Format, "format", "f", "text", "Output format: text, markdown or pretty")
	cmd.Flags().StringVarP(&params.OutputDir, "output-dir", "d", "", "Write _overview plus one file per element into this directory")
	cmd.Flags().StringVarP(&params.OutputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&params.CacheDir, "cache-dir", "", "Directory caching remote sources")
	return cmd
}

func inspect(cmd *cobra.Command, params inspectParams, location string) error {
	if params.OutputDir != "" && params.OutputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	dtd, err := xmldtd.ParseFile(cmd.Context(), location, &xmldtd.Options{CacheDir: params.CacheDir})
	if err != nil {
		return err
	}

	// Multi-file output
	if params.OutputDir != "" {
		if params.Format != xmldtd.FormatText && params.Format != xmldtd.FormatMarkdown {
			return fmt.Errorf("invalid format for --output-dir: %s (must be 'text' or 'markdown')", params.Format)
		}
		if err := formatter.NewMultiFileFormatter(params.OutputDir, params.Format).Format(dtd); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	// Single-file output
	writer := cmd.OutOrStdout()
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
		writer = f
	}

	d, err := formatter.NewDescriber(params.Format, writer)
	if err != nil {
		return err
	}
	if err := d.Format(dtd); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
