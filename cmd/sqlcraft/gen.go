package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlcraft/internal/cli"
)

func newGenCmd(a *app) *cobra.Command {
	var output, pkg string
	cmd := &cobra.Command{
		Use:   "gen [schema.yaml]",
		Short: "Generate Go constants for table and column names",
		Long: `Generate a Go file declaring a constant per table and column of a
schema file, plus a slice of the column names of each table.`,
		Example: `  # Print to stdout
  sqlcraft gen db/schema.yaml --package tables

  # Write to a file
  sqlcraft gen db/schema.yaml -o internal/tables/tables.go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.schemaPath(args)
			tables, err := a.loadTables(path)
			if err != nil {
				return err
			}
			gc := &cli.GenerateConfig{
				Package: resolveString(pkg, a.cfg.Package),
				Source:  filepath.Base(path),
			}
			var buf bytes.Buffer
			if err := cli.GenerateGo(&buf, tables, gc); err != nil {
				return cli.GeneralError("generating code", err)
			}

			dest := resolveString(output, a.cfg.Output)
			if dest == "" || dest == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return cli.GeneralError("creating output directory", err)
			}
			if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
				return cli.GeneralError("writing output", err)
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated %s from %s\n", dest, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "package name of the generated file")
	return cmd
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
