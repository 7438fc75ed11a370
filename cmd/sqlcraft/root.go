package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlcraft/dialect"
	"github.com/syssam/sqlcraft/internal/cli"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	cfg        *cli.Config
	configPath string
	log        *slog.Logger

	// Persistent flags
	cfgFile string
	dialect string
	verbose int
	quiet   bool
}

// Command group IDs
const (
	groupSchema  = "schema"
	groupUtility = "utility"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "sqlcraft",
		Short: "Dialect-aware SQL schema builder",
		Long: `sqlcraft - dialect-aware SQL schema builder

sqlcraft renders YAML table definitions as MySQL, PostgreSQL or SQLite DDL,
validates them, and plans migrations between two versions of a schema.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: auto-discover sqlcraft.yaml)")
	root.PersistentFlags().StringVarP(&a.dialect, "dialect", "d", "", "target dialect: mysql, postgres or sqlite")
	root.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase verbosity (can be repeated)")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")

	root.AddGroup(
		&cobra.Group{ID: groupSchema, Title: "Schema:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)
	for _, c := range []*cobra.Command{newRenderCmd(a), newValidateCmd(a), newDiffCmd(a), newGenCmd(a)} {
		c.GroupID = groupSchema
		root.AddCommand(c)
	}
	cfgCmd := newConfigCmd(a)
	cfgCmd.GroupID = groupUtility
	root.AddCommand(cfgCmd)
	return root
}

// load reads the configuration and sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	var err error
	a.cfg, a.configPath, err = cli.LoadConfig(a.cfgFile)
	if err != nil {
		return cli.ConfigError("loading configuration", err)
	}
	if a.dialect != "" {
		a.cfg.Dialect = a.dialect
	}
	level, err := a.cfg.SlogLevel()
	if err != nil {
		return cli.ConfigError("loading configuration", err)
	}
	switch {
	case a.quiet:
		level = slog.LevelError
	case a.verbose > 0:
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.log.Debug("configuration loaded", "path", a.configPath, "dialect", a.cfg.Dialect)
	return nil
}

// targetDialects resolves the dialect setting. "all" expands to every
// supported dialect.
func (a *app) targetDialects() ([]string, error) {
	if a.cfg.Dialect == "all" {
		return dialect.Names(), nil
	}
	d, err := a.cfg.ResolvedDialect()
	if err != nil {
		return nil, cli.ConfigError("resolving dialect", err)
	}
	return []string{d}, nil
}

// schemaPath returns the schema file argument, falling back to the
// configured schema.
func (a *app) schemaPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Schema
}

// loadSchema reads and parses the schema file at path.
func (a *app) loadSchema(path string) (*cli.SchemaFile, error) {
	f, err := cli.LoadSchemaFile(path)
	if err != nil {
		return nil, cli.SchemaParseError("loading schema "+path, err)
	}
	a.log.Debug("schema loaded", "path", path, "tables", len(f.Tables))
	return f, nil
}
