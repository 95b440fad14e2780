package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyLines_TopLevelNestedAndSequence(t *testing.T) {
	raw := []byte("title: ESM\ntags:\n  - ESM\n  - Node\nimage:\n  url: https://example.com/a.png\n  alt: diagram\n")

	lines := KeyLines(raw)
	require.Equal(t, 1, lines["title"])
	require.Equal(t, 2, lines["tags"])
	require.Equal(t, 3, lines["tags[0]"])
	require.Equal(t, 4, lines["tags[1]"])
	require.Equal(t, 5, lines["image"])
	require.Equal(t, 6, lines["image.url"])
	require.Equal(t, 7, lines["image.alt"])
}

func TestKeyLines_InvalidYAML_ReturnsEmpty(t *testing.T) {
	require.Empty(t, KeyLines([]byte(": nope")))
}
