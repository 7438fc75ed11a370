package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlcraft/dialect/sql/schema"
	"github.com/syssam/sqlcraft/internal/cli"
)

type diffOptions struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowDropIndex     bool
	allowNullToNotNull bool
	plan               bool
}

func (o *diffOptions) validateOptions() []schema.ValidateOption {
	var opts []schema.ValidateOption
	if o.allowDropColumn {
		opts = append(opts, schema.AllowDropColumn())
	}
	if o.allowDropTable {
		opts = append(opts, schema.AllowDropTable())
	}
	if o.allowDropIndex {
		opts = append(opts, schema.AllowDropIndex())
	}
	if o.allowNullToNotNull {
		opts = append(opts, schema.AllowNullToNotNull())
	}
	return opts
}

func newDiffCmd(a *app) *cobra.Command {
	o := &diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <current.yaml> <desired.yaml>",
		Short: "Check the changes between two schema files",
		Long: `Compare two versions of a schema file and report changes that may
lose data or fail on existing rows. Dropping tables, columns or indexes
and making a column NOT NULL are errors unless explicitly allowed.

With --plan, the migration statements for the configured dialect are
printed as well.`,
		Example: `  # Report risky changes
  sqlcraft diff old.yaml new.yaml

  # Allow dropping columns and print the Postgres migration
  sqlcraft diff old.yaml new.yaml --allow-drop-column --plan -d postgres`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.loadTables(args[0])
			if err != nil {
				return err
			}
			desired, err := a.loadTables(args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			r := schema.ValidateDiff(current, desired, o.validateOptions()...)
			if !a.quiet || r.HasErrors() {
				printResult(out, r)
			}
			if r.HasErrors() {
				return cli.ValidationError("schema change is not safe", nil)
			}
			if !o.plan {
				return nil
			}
			ds, err := a.targetDialects()
			if err != nil {
				return err
			}
			for _, d := range ds {
				changes, err := schema.DiffSchema(d, current, desired)
				if err != nil {
					return cli.GeneralError("diffing schema for "+d, err)
				}
				fmt.Fprintf(out, "\n-- %s\n", d)
				if len(changes) == 0 {
					fmt.Fprintln(out, "-- no changes")
					continue
				}
				plan, err := schema.Plan(cmd.Context(), d, "sqlcraft", changes)
				if err != nil {
					return cli.GeneralError("planning migration for "+d, err)
				}
				a.log.Debug("migration planned", "dialect", d, "changes", len(plan.Changes))
				for _, c := range plan.Changes {
					fmt.Fprintf(out, "%s;\n", c.Cmd)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&o.allowDropColumn, "allow-drop-column", false, "allow dropping columns")
	cmd.Flags().BoolVar(&o.allowDropTable, "allow-drop-table", false, "allow dropping tables")
	cmd.Flags().BoolVar(&o.allowDropIndex, "allow-drop-index", false, "allow dropping indexes")
	cmd.Flags().BoolVar(&o.allowNullToNotNull, "allow-null-to-not-null", false, "allow making nullable columns NOT NULL")
	cmd.Flags().BoolVar(&o.plan, "plan", false, "print the migration statements")
	return cmd
}

// loadTables reads the schema file at path into table statements.
func (a *app) loadTables(path string) ([]*schema.TableCreateStatement, error) {
	f, err := a.loadSchema(path)
	if err != nil {
		return nil, err
	}
	tables, err := f.BuildTables()
	if err != nil {
		return nil, cli.SchemaParseError("building schema "+path, err)
	}
	return tables, nil
}
