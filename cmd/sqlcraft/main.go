// Command sqlcraft renders, validates and diffs YAML table definitions
// with the sqlcraft schema builder.
//
// Usage:
//
//	sqlcraft [flags] <command>
//
// Commands:
//   - render: print the DDL of a schema file for one dialect or all of them
//   - validate: check a schema file for structural problems
//   - diff: report risky changes between two schema files and plan the migration
//   - gen: generate Go constants for table and column names
//   - config show: print the effective configuration
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/sqlcraft/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		cli.ExitWithError(err)
	}
}
