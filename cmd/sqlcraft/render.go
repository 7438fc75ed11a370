package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/sqlcraft/internal/cli"
)

func newRenderCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "render [schema.yaml]",
		Short: "Render a schema file as DDL",
		Long: `Render the tables of a schema file as CREATE TABLE and CREATE INDEX
statements. With --dialect all, every dialect is rendered.`,
		Example: `  # Render for the configured dialect
  sqlcraft render

  # Render for every dialect
  sqlcraft render db/schema.yaml --dialect all

  # Re-render whenever the file changes
  sqlcraft render db/schema.yaml -d postgres --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.schemaPath(args)
			ds, err := a.targetDialects()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := a.render(cmd.Context(), out, path, ds); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return a.watch(cmd.Context(), path, func() {
				if err := a.render(cmd.Context(), out, path, ds); err != nil {
					a.log.Error("render failed", "path", path, "err", err)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when the schema file changes")
	return cmd
}

// render writes the DDL of the schema file at path for each dialect.
// Several dialects are rendered concurrently and printed under a
// "-- <dialect>" header each.
func (a *app) render(ctx context.Context, w io.Writer, path string, ds []string) error {
	f, err := a.loadSchema(path)
	if err != nil {
		return err
	}
	out, err := renderDialects(ctx, f, ds)
	if err != nil {
		return err
	}
	for i, d := range ds {
		if len(ds) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "-- %s\n", d)
		}
		fmt.Fprint(w, out[i])
	}
	a.log.Debug("schema rendered", "path", path, "dialects", ds)
	return nil
}

func renderDialects(ctx context.Context, f *cli.SchemaFile, ds []string) ([]string, error) {
	stmts, err := f.Statements()
	if err != nil {
		return nil, cli.SchemaParseError("building schema", err)
	}
	out := make([]string, len(ds))
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range ds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := cli.Render(d, stmts)
			if err != nil {
				return fmt.Errorf("%s: %w", d, err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, cli.GeneralError("rendering schema", err)
	}
	return out, nil
}

// watch calls fn whenever the file at path is written or replaced, until
// ctx is done. The parent directory is watched since editors often save
// by renaming a temporary file over the original.
func (a *app) watch(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return cli.GeneralError("starting watcher", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return cli.GeneralError("watching "+path, err)
	}
	target := filepath.Clean(path)
	a.log.Info("watching for changes", "path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.log.Debug("schema changed", "path", path, "op", ev.Op.String())
			fn()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Error("watch error", "err", err)
		}
	}
}
