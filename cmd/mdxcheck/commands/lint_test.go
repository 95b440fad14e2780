package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/lint"
)

func TestLint_Clean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "posts/understanding-esm.mdx", validArticle)

	out, err := execute(t, "lint", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 file scanned")
	assert.Contains(t, out, "All content passes linting!")
}

func TestLint_ErrorsExitWithIssuesCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "posts/understanding-esm.mdx", validArticle)
	writeFile(t, dir, "posts/broken.mdx", brokenArticle)

	out, err := execute(t, "lint", dir)
	require.Error(t, err)
	assert.Equal(t, errors.ExitCodeIssues, exitCode(err))
	assert.Contains(t, err.Error(), "3 errors")
	assert.Contains(t, out, "InvalidParameterValue")
	assert.Contains(t, out, "UnknownComponent")
	assert.Contains(t, out, "DuplicateTag")
}

func TestLint_WarningsExitOneUnlessQuiet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Understanding ESM.md", validArticle)

	_, err := execute(t, "lint", dir)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	out, err := execute(t, "lint", "--quiet", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "uppercase")
}

func TestLint_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.md", brokenArticle)

	out, err := execute(t, "lint", "--format", "json", dir)
	require.Error(t, err)

	var report lint.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.FilesTotal)
	assert.Len(t, report.Issues, 3)
}

func TestLint_RejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "lint", "--format", "xml", dir)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestLint_DryRunRequiresFix(t *testing.T) {
	_, err := execute(t, "lint", "--dry-run", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dry-run requires --fix")
}

func TestLint_MissingPath(t *testing.T) {
	_, err := execute(t, "lint", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
}

func TestLint_RegistryFlag(t *testing.T) {
	dir := t.TempDir()
	registry := writeFile(t, dir, "components.yaml", `components:
  - name: Callout
    params:
      - name: type
        type: string
        enum: [info, warning, danger]
  - name: Alert
`)
	writeFile(t, dir, "content/post.md", `---
title: Registry
description: Custom components
author: ana
tags: [go]
published: 1700000000000
---
<Callout type="danger">Careful.</Callout>

<Alert />
`)

	_, err := execute(t, "lint", "--registry", registry, filepath.Join(dir, "content"))
	require.NoError(t, err)
}

func TestLint_Fix(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", validArticle)

	out, err := execute(t, "lint", "--fix", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "Would stamp: 1 file")

	out, err = execute(t, "lint", "--fix", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully stamped 1 document")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fingerprint: ")
	assert.Contains(t, string(data), "published: 1662221036776")
}

func TestLint_ConfigPathsHistoryAndMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "content/good.md", validArticle)
	writeFile(t, dir, "content/drafts/broken.md", brokenArticle)
	cfgPath := writeFile(t, dir, ".mdxcheck.yaml", `content:
  paths: [content]
  ignore: [drafts]
metrics:
  textfile: metrics/mdxcheck.prom
history:
  database: state/history.db
  keep: 1
`)

	_, err := execute(t, "-c", cfgPath, "lint")
	require.NoError(t, err)

	metrics, err := os.ReadFile(filepath.Join(dir, "metrics", "mdxcheck.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "mdxcheck_")

	_, err = execute(t, "-c", cfgPath, "lint", filepath.Join(dir, "content", "drafts", "broken.md"))
	require.Error(t, err)

	out, err := execute(t, "-c", cfgPath, "history", "--format", "json")
	require.NoError(t, err)

	var runs []struct {
		ID      string         `json:"id"`
		Outcome string         `json:"outcome"`
		Errors  int            `json:"errors"`
		Codes   map[string]int `json:"codes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1, "keep: 1 prunes older runs")
	assert.Equal(t, "errors", runs[0].Outcome)
	assert.Equal(t, 3, runs[0].Errors)
	assert.Equal(t, 1, runs[0].Codes["UnknownComponent"])

	out, err = execute(t, "-c", cfgPath, "history", runs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].ID)
	assert.Contains(t, out, "Issues by code:")
}

func TestLint_OverlappingConfigPaths(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "content/a/broken.md", brokenArticle)
	second := writeFile(t, dir, "content/b/broken.md", brokenArticle)
	cfgPath := writeFile(t, dir, ".mdxcheck.yaml", `content:
  paths: [content/b, content]
`)

	out, err := execute(t, "-c", cfgPath, "lint", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	var report lint.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.FilesTotal)
	require.Len(t, report.Issues, 6)
	for i, issue := range report.Issues {
		want := first
		if i >= 3 {
			want = second
		}
		assert.Equal(t, want, issue.FilePath)
	}
}

func TestLint_Changed(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	writeFile(t, root, "content/committed.md", brokenArticle)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("content")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	root, err = filepath.EvalSymlinks(root)
	require.NoError(t, err)
	writeFile(t, root, "content/new.md", validArticle)
	writeFile(t, root, "notes.txt", "not a document\n")

	out, err := execute(t, "lint", "--changed", "--format", "json", filepath.Join(root, "content"))
	require.NoError(t, err, "the committed broken document is not linted")

	var report lint.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.FilesTotal)

	_, err = execute(t, "lint", "--changed", "--staged", root)
	require.Error(t, err)
}

func TestLint_ChangedOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post.md", validArticle)

	_, err := execute(t, "lint", "--staged", dir)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
}
