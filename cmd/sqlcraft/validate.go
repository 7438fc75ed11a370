package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlcraft/dialect/sql/schema"
	"github.com/syssam/sqlcraft/internal/cli"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [schema.yaml]",
		Short: "Validate a schema file",
		Long: `Validate the tables of a schema file: duplicate names, primary keys,
index and foreign key columns, and references between tables. When a
dialect is configured the schema is also rendered for it, reporting
clauses the dialect cannot express.`,
		Example: `  # Validate the configured schema
  sqlcraft validate

  # Validate and check that every dialect can render it
  sqlcraft validate db/schema.yaml --dialect all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.schemaPath(args)
			f, err := a.loadSchema(path)
			if err != nil {
				return err
			}
			tables, err := f.BuildTables()
			if err != nil {
				return cli.SchemaParseError("building schema", err)
			}
			r := schema.ValidateSchema(tables)

			var renderErrs []string
			if a.cfg.Dialect != "" || a.cfg.DSN != "" {
				ds, err := a.targetDialects()
				if err != nil {
					return err
				}
				stmts, err := f.Statements()
				if err != nil {
					return cli.SchemaParseError("building schema", err)
				}
				for _, d := range ds {
					if _, err := cli.Render(d, stmts); err != nil {
						renderErrs = append(renderErrs, fmt.Sprintf("%s: %v", d, err))
					}
				}
			}

			failed := r.HasErrors() || len(renderErrs) > 0
			if !a.quiet || failed {
				printResult(cmd.OutOrStdout(), r)
				if len(renderErrs) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Render errors:")
					for _, e := range renderErrs {
						fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", e)
					}
				}
			}
			if failed {
				return cli.ValidationError(fmt.Sprintf("schema %s is invalid", path), nil)
			}
			return nil
		},
	}
}

func printResult(w io.Writer, r *schema.ValidationResult) {
	fmt.Fprintln(w, strings.TrimRight(r.String(), "\n"))
}
