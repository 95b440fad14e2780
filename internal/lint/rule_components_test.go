package lint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxcheck/internal/component"
	"git.home.luguber.info/inful/mdxcheck/internal/content"
)

const articleHeader = `---
title: Understanding ESM
description: How Node resolves modules
author: ana
tags: [ESM, Node]
published: 1662221036776
---
`

func TestComponentsRule_Valid(t *testing.T) {
	rule := NewComponentsRule(nil)
	issues, err := rule.Check(newDocument(t, "post.mdx", validArticle))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestComponentsRule_FileLines(t *testing.T) {
	body := "# Title\n\n<Callout type=\"danger\">\nCareful\n</Callout>\n\n<Alert />\n"
	rule := NewComponentsRule(nil)

	issues, err := rule.Check(newDocument(t, "post.mdx", articleHeader+body))
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, content.InvalidParameterValue, issues[0].Code)
	assert.Equal(t, "Callout.type", issues[0].Field)
	assert.Equal(t, 10, issues[0].Line)
	assert.Equal(t, "components", issues[0].Rule)

	assert.Equal(t, content.UnknownComponent, issues[1].Code)
	assert.Equal(t, 14, issues[1].Line)
}

func TestComponentsRule_CodeSamplesIgnored(t *testing.T) {
	body := "Use it like this:\n\n```mdx\n<Callout type=\"danger\" />\n```\n\nOr inline `<Missing />`.\n"
	rule := NewComponentsRule(nil)

	issues, err := rule.Check(newDocument(t, "post.mdx", articleHeader+body))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestComponentsRule_CustomRegistry(t *testing.T) {
	registry, err := component.LoadRegistry(filepath.Join("..", "component", "testdata", "registry.yaml"))
	require.NoError(t, err)

	body := "<YouTube id=\"dQw4w9WgXcQ\" autoplay />\n"
	rule := NewComponentsRule(registry)

	issues, err := rule.Check(newDocument(t, "post.mdx", articleHeader+body))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, content.UnknownParameter, issues[0].Code)
	assert.Equal(t, "Remove the `autoplay` attribute", issues[0].Fix)
}

func TestComponentsRule_SkipsUnsplittableDocuments(t *testing.T) {
	rule := NewComponentsRule(nil)
	issues, err := rule.Check(newDocument(t, "post.mdx", "---\ntitle: X\n<Alert />\n"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}
