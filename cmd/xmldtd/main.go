package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/cobrau"
)

//go:embed version
var version string

var red = color.New(color.FgRed).SprintFunc()
var green = color.New(color.FgGreen).SprintFunc()

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, red(err))
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	rootCmd := cobrau.PrepareRootCmd(
		"xmldtd",
		"Generate Go types from XML DTDs",
		args,
		strings.TrimSpace(ver),
		newGenerateCmd(),
		newInspectCmd(),
		newCatalogCmd(),
		newVersionCmd(ver),
	)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	return cobrau.ExecCommandAndCatchInterrupt(rootCmd)
}

func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of the xmldtd utility",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "xmldtd version", strings.TrimSpace(ver))
		},
	}
}
