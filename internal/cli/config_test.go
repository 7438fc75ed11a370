package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlcraft/dialect"
)

// gitRoot creates a temp directory marked as a repository root and
// changes into it for the duration of the test.
func gitRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	chdir(t, root)
	return root
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldCwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })
}

func samePath(t *testing.T, want, got string) {
	t.Helper()
	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expected, _ := filepath.EvalSymlinks(want)
	actual, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, expected, actual)
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("dialect: mysql"), 0o644))

	path, err := findConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, tmpFile, path)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	configPath := filepath.Join(root, "sqlcraft.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("dialect: mysql"), 0o644))
	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	path, err := findConfigFile("")
	require.NoError(t, err)
	samePath(t, configPath, path)
}

func TestFindConfigFile_PrefersYamlOverYml(t *testing.T) {
	root := gitRoot(t)
	yamlPath := filepath.Join(root, "sqlcraft.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("dialect: mysql"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlcraft.yml"), []byte("dialect: sqlite"), 0o644))

	path, err := findConfigFile("")
	require.NoError(t, err)
	samePath(t, yamlPath, path)
}

func TestFindConfigFile_StopsAtGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlcraft.yaml"), []byte("dialect: mysql"), 0o644))
	project := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".git"), 0o755))
	chdir(t, project)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	gitRoot(t)

	cfg, configPath, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, configPath)
	assert.Equal(t, "schema.yaml", cfg.Schema)
	assert.Equal(t, "schema", cfg.Package)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Dialect)
	assert.Empty(t, cfg.DSN)
}

func TestLoadConfig_FromFile(t *testing.T) {
	root := gitRoot(t)
	configPath := filepath.Join(root, "sqlcraft.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
dialect: postgres
schema: db/schema.yaml
output: internal/tables/tables.go
package: tables
`), 0o644))

	cfg, foundPath, err := LoadConfig("")
	require.NoError(t, err)
	samePath(t, configPath, foundPath)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "db/schema.yaml", cfg.Schema)
	assert.Equal(t, "internal/tables/tables.go", cfg.Output)
	assert.Equal(t, "tables", cfg.Package)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	root := gitRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlcraft.yaml"), []byte("dialect: postgres\nlog_level: warn"), 0o644))
	t.Setenv("SQLCRAFT_DIALECT", "sqlite")
	t.Setenv("SQLCRAFT_LOG_LEVEL", "debug")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	root := gitRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlcraft.yaml"), []byte("dialect: [unterminated"), 0o644))

	_, _, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestResolvedDialect(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "explicit", cfg: Config{Dialect: "postgresql"}, want: dialect.Postgres},
		{name: "explicit wins over dsn", cfg: Config{Dialect: "mysql", DSN: "app.db"}, want: dialect.MySQL},
		{name: "from dsn", cfg: Config{DSN: "postgres://localhost/app"}, want: dialect.Postgres},
		{name: "unknown dialect", cfg: Config{Dialect: "oracle"}, wantErr: true},
		{name: "nothing", cfg: Config{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResolvedDialect()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := (&Config{LogLevel: in}).SlogLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := (&Config{LogLevel: "loud"}).SlogLevel()
	require.Error(t, err)
}
