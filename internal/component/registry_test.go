package component

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	require.Equal(t, []string{"Callout"}, r.Names())
	spec, ok := r.Lookup("Callout")
	require.True(t, ok)
	assert.True(t, spec.RequireChildren)

	param, ok := spec.Param("type")
	require.True(t, ok)
	assert.True(t, param.Required)
	assert.Equal(t, []any{"info", "warning", "error"}, param.Enum)

	_, ok = r.Lookup("callout")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestLoadRegistry(t *testing.T) {
	r, err := LoadRegistry(filepath.Join("testdata", "registry.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Callout", "Tabs.Item", "YouTube"}, r.Names())
	assert.Equal(t, 3, r.Len())

	yt, ok := r.Lookup("YouTube")
	require.True(t, ok)
	assert.True(t, yt.Strict)
	assert.Len(t, yt.Params, 2)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryRegistry, ce.Category())
}

func TestParseRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "components: [\n"},
		{"lowercase name", "components:\n  - name: callout\n"},
		{"duplicate component", "components:\n  - name: A\n  - name: A\n"},
		{"duplicate param", "components:\n  - name: A\n    params:\n      - name: x\n      - name: x\n"},
		{"unnamed param", "components:\n  - name: A\n    params:\n      - type: string\n"},
		{"bad type", "components:\n  - name: A\n    params:\n      - name: x\n        type: date\n"},
		{"bad pattern", "components:\n  - name: A\n    params:\n      - name: x\n        pattern: \"(\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryRegistry))
		})
	}
}

func TestParseRegistry_Empty(t *testing.T) {
	r, err := ParseRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestLoadRegistry_AddsPathContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components.yaml")
	require.NoError(t, os.WriteFile(path, []byte("components:\n  - name: x\n"), 0o600))

	_, err := LoadRegistry(path)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	got, ok := ce.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, path, got)
}
