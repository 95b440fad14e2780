package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

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

const brokenArticle = `---
title: Broken
description: How not to write a post
author: ana
tags: [go, go]
published: 1700000000000
---
<Callout type="danger">
Careful.
</Callout>

<Alert />
`

// execute parses args like the binary does and runs the selected command.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	var cli CLI
	g := NewGlobal(&out)

	parser, err := kong.New(&cli,
		kong.Name("mdxcheck"),
		kong.Vars{"version": "test"},
		kong.Bind(g),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	err = ctx.Run(g, &cli)
	return out.String(), err
}

// exitCode reports the process exit code the binary would use for err.
func exitCode(err error) int {
	return errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err)
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
