package lint

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxcheck/internal/docmodel"
	"git.home.luguber.info/inful/mdxcheck/internal/frontmatterops"
)

func newTestFixer(dryRun bool, now time.Time) *Fixer {
	f := NewFixer(NewLinter(nil), dryRun)
	f.now = func() time.Time { return now }
	return f
}

func readFields(t *testing.T, path string) map[string]any {
	t.Helper()
	doc, err := docmodel.ParseFile(path)
	require.NoError(t, err)
	fields, err := doc.Fields()
	require.NoError(t, err)
	return fields
}

func TestFixer_StampsFingerprintOnly_WhenNoneStored(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.mdx", validArticle)

	result, err := newTestFixer(false, time.UnixMilli(1800000000000)).Fix(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, result.Stamped, 1)
	assert.Nil(t, result.Stamped[0].Updated)

	fields := readFields(t, path)
	assert.Equal(t, result.Stamped[0].Fingerprint, fields[frontmatterops.FingerprintField])
	assert.NotContains(t, fields, "updated")
	assert.Equal(t, 1662221036776, fields["published"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\ntitle: Understanding ESM\n"), "key order is kept")
	assert.True(t, strings.HasSuffix(string(data), "</Callout>\n"), "body is kept")
}

func TestFixer_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.mdx", validArticle)
	fixer := newTestFixer(false, time.UnixMilli(1800000000000))

	_, err := fixer.Fix(context.Background(), path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err := fixer.Fix(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, result.Stamped)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestFixer_BumpsUpdated_WhenContentChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.mdx", validArticle)
	now := time.UnixMilli(1800000000000)
	fixer := newTestFixer(false, now)

	_, err := fixer.Fix(context.Background(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, []byte("\nA new paragraph.\n")...), 0o600))

	result, err := fixer.Fix(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, result.Stamped, 1)
	require.NotNil(t, result.Stamped[0].Updated)
	assert.Equal(t, now.UnixMilli(), *result.Stamped[0].Updated)

	fields := readFields(t, path)
	assert.Equal(t, 1800000000000, fields["updated"])
	assert.Equal(t, 1662221036776, fields["published"], "published is never modified")
}

func TestFixer_UpdatedNeverBeforePublished(t *testing.T) {
	doc := strings.Replace(validArticle, "published: 1662221036776", "published: 1900000000000\nfingerprint: stale", 1)
	dir := t.TempDir()
	path := writeFile(t, dir, "post.mdx", doc)

	result, err := newTestFixer(false, time.UnixMilli(1800000000000)).Fix(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, result.Stamped, 1)
	require.NotNil(t, result.Stamped[0].Updated)
	assert.Equal(t, int64(1900000000000), *result.Stamped[0].Updated)
}

func TestFixer_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.mdx", validArticle)

	result, err := newTestFixer(true, time.Now()).Fix(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, result.Stamped, 1)
	assert.Contains(t, result.Summary(true), "Would stamp: 1 file\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, validArticle, string(data))
}

func TestFixer_SkipsUnreadableFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "unterminated.md", "---\ntitle: X\n# body\n")
	writeFile(t, dir, "no-frontmatter.md", "# body\n")
	writeFile(t, dir, "bad-yaml.md", "---\ntags: [a\n---\n# body\n")
	writeFile(t, dir, "list.md", "---\n- a\n- b\n---\n# body\n")

	result, err := newTestFixer(false, time.Now()).Fix(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, result.Stamped)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Skipped, 4)
}

func TestFixer_PreservesCRLFAndMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	crlf := strings.ReplaceAll(validArticle, "\n", "\r\n")
	require.NoError(t, os.WriteFile(path, []byte(crlf), 0o640))

	_, err := newTestFixer(false, time.Now()).Fix(context.Background(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, strings.ReplaceAll(string(data), "\r\n", ""), "\n")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestFixer_Canceled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.mdx", validArticle)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFixer(false, time.Now()).FixFiles(ctx, []string{path})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFixer_FixFilesSelectsDocuments(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "post.md", validArticle)
	other := writeFile(t, dir, "main.go", "package main\n")

	result, err := newTestFixer(false, time.Now()).FixFiles(context.Background(),
		[]string{doc, other, filepath.Join(dir, "gone.md")})
	require.NoError(t, err)
	require.Len(t, result.Stamped, 1)
	assert.Equal(t, doc, result.Stamped[0].Path)
	assert.Empty(t, result.Skipped)
}
