package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlcraft/internal/cli"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return path
}

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// run executes the CLI with args from an empty repository directory, so
// no sqlcraft.yaml of the surrounding tree is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	oldCwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	defer func() { _ = os.Chdir(oldCwd) }()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender(t *testing.T) {
	schema := fixture(t, "blog.yaml")
	g := golden(t)

	out, err := run(t, "render", schema, "--dialect", "postgres")
	require.NoError(t, err)
	g.Assert(t, "render_postgres", []byte(out))

	out, err = run(t, "render", schema, "-d", "all")
	require.NoError(t, err)
	g.Assert(t, "render_all", []byte(out))
}

func TestRenderErrors(t *testing.T) {
	_, err := run(t, "render", fixture(t, "blog.yaml"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfig, cli.ExitCode(err), "no dialect configured")

	_, err = run(t, "render", fixture(t, "missing.yaml"), "-d", "mysql")
	require.Error(t, err)
	assert.Equal(t, cli.ExitSchemaParse, cli.ExitCode(err))

	_, err = run(t, "render", fixture(t, "invalid.yaml"), "-d", "postgres")
	require.Error(t, err)
	assert.Equal(t, cli.ExitGeneral, cli.ExitCode(err), "column without type")
	assert.Contains(t, err.Error(), "postgres")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", fixture(t, "blog.yaml"), "-d", "all")
	require.NoError(t, err)
	assert.Equal(t, "No issues found\n", out)

	out, err = run(t, "validate", fixture(t, "invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	golden(t).Assert(t, "validate_invalid", []byte(out))

	out, err = run(t, "validate", fixture(t, "invalid.yaml"), "-d", "postgres", "-q")
	require.Error(t, err)
	assert.Contains(t, out, "Render errors:\n  - postgres: ")
}

func TestDiff(t *testing.T) {
	current, desired := fixture(t, "blog.yaml"), fixture(t, "blog_v2.yaml")

	out, err := run(t, "diff", current, desired)
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))
	golden(t).Assert(t, "diff", []byte(out))

	out, err = run(t, "diff", current, desired,
		"--allow-drop-column", "--allow-drop-index", "--allow-null-to-not-null",
		"--plan", "-d", "postgres")
	require.NoError(t, err)
	assert.Contains(t, out, "Warnings:\n  - users.name: column changing from NULL to NOT NULL")
	assert.Contains(t, out, "\n-- postgres\n")
	assert.Contains(t, out, `DROP INDEX "idx_users_name"`)
	assert.Contains(t, out, `DROP COLUMN "body"`)

	out, err = run(t, "diff", current, current, "--plan", "-d", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "No issues found\n\n-- postgres\n-- no changes\n", out)
}

func TestGen(t *testing.T) {
	out, err := run(t, "gen", fixture(t, "blog.yaml"), "-p", "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "// Code generated by sqlcraft from blog.yaml. DO NOT EDIT.")
	assert.Contains(t, out, "package tables")
	assert.Contains(t, out, "var PostsColumns = []string{PostsID, PostsUserID, PostsTitle, PostsBody, PostsPublishedAt}")

	dest := filepath.Join(t.TempDir(), "tables", "tables.go")
	out, err = run(t, "gen", fixture(t, "blog.yaml"), "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated "+dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package schema", "default package from config")
}

func TestConfigShow(t *testing.T) {
	t.Setenv("SQLCRAFT_DSN", "postgres://localhost/app")
	out, err := run(t, "config", "show", "--source", "-d", "sqlite")
	require.NoError(t, err)
	assert.Equal(t, `Config file: (none, using defaults)

dialect: sqlite
dsn: postgres://localhost/app
schema: schema.yaml
output: ""
package: schema
log_level: info
`, out)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tables: []"), 0o644))
	a := &app{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- a.watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case <-changed:
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("tables: []\n"), 0o644))
		case <-timeout:
			t.Fatal("no change observed")
		}
	}
}
