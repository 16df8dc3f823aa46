package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/tordrt/xmldtd"
	"github.com/tordrt/xmldtd/internal/db"
)

type catalogParams struct {
	DBURL      string
	MySQLURL   string
	SQLitePath string
	URL        string
	CacheDir   string
}

func newCatalogCmd() *cobra.Command {
	params := &catalogParams{}
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Store parsed DTDs in a database and list them",
	}
	cmd.PersistentFlags().StringVar(&params.DBURL, "db-url", "", "PostgreSQL connection string")
	cmd.PersistentFlags().StringVar(&params.MySQLURL, "mysql-url", "", "MySQL connection string")
	cmd.PersistentFlags().StringVar(&params.SQLitePath, "sqlite", "", "SQLite database file path")
	cmd.PersistentFlags().StringVar(&params.URL, "url", "", "Database URL: postgres://, mysql:// or sqlite://")

	saveCmd := &cobra.Command{
		Use:   "save <dtd location>...",
		Short: "Parse DTDs and store them in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return catalogSave(cmd, params, args)
		},
	}
	saveCmd.Flags().StringVar(&params.CacheDir, "cache-dir", "", "Directory caching remote sources")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the DTDs stored in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return catalogList(cmd, params)
		},
	}

	cmd.AddCommand(saveCmd, listCmd)
	return cmd
}

// target validates that exactly one database was named
func (p *catalogParams) target() (db.Target, error) {
	count := 0
	for _, v := range []string{p.DBURL, p.MySQLURL, p.SQLitePath, p.URL} {
		if v != "" {
			count++
		}
	}
	switch {
	case count == 0:
		return db.Target{}, db.ErrNoTarget
	case count > 1:
		return db.Target{}, errors.New("only one of --db-url, --mysql-url, --sqlite or --url can be specified")
	case p.URL != "":
		return db.ParseURL(p.URL)
	}
	return db.Target{SQLitePath: p.SQLitePath, PostgresURL: p.DBURL, MySQLURL: p.MySQLURL}, nil
}

func openCatalog(cmd *cobra.Command, params *catalogParams) (db.Catalog, error) {
	target, err := params.target()
	if err != nil {
		return nil, err
	}
	return db.Open(cmd.Context(), target)
}

func catalogSave(cmd *cobra.Command, params *catalogParams, locations []string) error {
	ctx := cmd.Context()

	catalog, err := openCatalog(cmd, params)
	if err != nil {
		return err
	}
	defer func() {
		if err := catalog.Close(ctx); err != nil {
			logger.Error("failed to close catalog connection:", err)
		}
	}()

	for _, location := range locations {
		dtd, err := xmldtd.ParseFile(ctx, location, &xmldtd.Options{CacheDir: params.CacheDir})
		if err != nil {
			return err
		}
		if err := catalog.Save(ctx, location, dtd); err != nil {
			return fmt.Errorf("failed to save %s: %w", location, err)
		}
		logger.Info(green("saved"), dtd.RootElement.Base().ElementName, "from", location)
	}
	return nil
}

func catalogList(cmd *cobra.Command, params *catalogParams) error {
	ctx := cmd.Context()

	catalog, err := openCatalog(cmd, params)
	if err != nil {
		return err
	}
	defer func() {
		if err := catalog.Close(ctx); err != nil {
			logger.Error("failed to close catalog connection:", err)
		}
	}()

	docs, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ROOT\tELEMENTS\tSOURCE")
	for _, doc := range docs {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", doc.RootName, doc.ElementCount, doc.Source)
	}
	return w.Flush()
}
