package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxcheck/internal/docmodel"
)

// validArticle has a five-line front-matter block, so body line N is file line N+7.
const validArticle = `---
title: Understanding ESM
description: How Node resolves modules
author: ana
tags: [ESM, Node]
published: 1662221036776
---
# Understanding ESM

<Callout type="info">
Node looks at the nearest package.json.
</Callout>
`

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// newDocument builds a rule input the way the linter does.
func newDocument(t *testing.T, path, content string) *Document {
	t.Helper()
	parsed, err := docmodel.Parse([]byte(content))
	if err != nil {
		return &Document{Path: path, ParseErr: err}
	}
	return &Document{Path: path, Parsed: parsed}
}

func codes(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, string(issue.Code))
	}
	return out
}
