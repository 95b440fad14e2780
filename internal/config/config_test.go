package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{".md", ".mdx", ".markdown"}, cfg.Content.Extensions)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, LogFormatText, cfg.Lint.Format)
	assert.Empty(t, cfg.History.Database)
	assert.Zero(t, cfg.History.Keep)
	assert.Empty(t, cfg.Path())
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
content:
  paths: [posts]
  extensions: [.mdx]
  ignore: [drafts]
components:
  registry: components.yaml
lint:
  workers: 4
  format: JSON
logging:
  level: Debug
  format: json
metrics:
  textfile: /var/lib/node_exporter/mdxcheck.prom
history:
  database: .mdxcheck/history.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, []string{filepath.Join(dir, "posts")}, cfg.Content.Paths)
	assert.Equal(t, []string{".mdx"}, cfg.Content.Extensions)
	assert.Equal(t, []string{"drafts"}, cfg.Content.Ignore)
	assert.Equal(t, filepath.Join(dir, "components.yaml"), cfg.Components.Registry)
	assert.Equal(t, 4, cfg.Lint.Workers)
	assert.Equal(t, LogFormatJSON, cfg.Lint.Format)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, "/var/lib/node_exporter/mdxcheck.prom", cfg.Metrics.Textfile)
	assert.Equal(t, filepath.Join(dir, ".mdxcheck", "history.db"), cfg.History.Database)
	assert.Equal(t, 500, cfg.History.Keep)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("MDXCHECK_TEST_REGISTRY", "/srv/site/components.yaml")
	path := writeConfig(t, "components:\n  registry: ${MDXCHECK_TEST_REGISTRY}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/components.yaml", cfg.Components.Registry)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category errors.ErrorCategory
	}{
		{name: "unknown key", content: "lint:\n  wrkers: 2\n", category: errors.CategoryConfig},
		{name: "bad yaml", content: "lint: [\n", category: errors.CategoryConfig},
		{name: "bad level", content: "logging:\n  level: loud\n", category: errors.CategoryConfig},
		{name: "bad lint format", content: "lint:\n  format: xml\n", category: errors.CategoryConfig},
		{name: "negative workers", content: "lint:\n  workers: -1\n", category: errors.CategoryConfig},
		{name: "bad extension", content: "content:\n  extensions: [md]\n", category: errors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.category), err.Error())
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultPath)

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())

	_, err = LoadOrDefault(missing, true)
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(filepath.Dir(path), "content")}, cfg.Content.Paths)
	assert.Equal(t, 500, cfg.History.Keep)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, Init(path, true))
}

func TestLogLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", NormalizeLogLevel("debug").SlogLevel().String())
	assert.Equal(t, "WARN", NormalizeLogLevel("WARNING").SlogLevel().String())
	assert.Equal(t, "INFO", NormalizeLogLevel("nonsense").SlogLevel().String())
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" json "))
}
