package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/git"
)

// InstallHookCmd implements the 'lint install-hook' command.
type InstallHookCmd struct {
	Force bool `help:"Overwrite existing hook without backup"`
}

// Run executes the install-hook command.
//
//nolint:forbidigo // fmt is used for user-facing messages
func (cmd *InstallHookCmd) Run(g *Global, _ *CLI) error {
	repo, err := git.Open(".")
	if err != nil {
		return err
	}
	gitDir, err := findGitDir(repo.Root())
	if err != nil {
		return err
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	hookPath := filepath.Join(hooksDir, "pre-commit")

	if err := os.MkdirAll(hooksDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create hooks directory").
			WithContext("path", hooksDir).
			Build()
	}

	// Backup existing hook unless --force
	if _, err := os.Stat(hookPath); err == nil && !cmd.Force {
		backupPath := fmt.Sprintf("%s.backup-%s", hookPath, time.Now().Format("20060102-150405"))
		_, _ = fmt.Fprintf(g.Out, "📦 Backing up existing hook to: %s\n", backupPath)

		// #nosec G304 -- hook path is derived from the repository layout.
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to read existing hook").Build()
		}
		// #nosec G306 -- hooks must stay executable.
		if err := os.WriteFile(backupPath, content, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create backup").Build()
		}
	}

	// #nosec G306 -- hooks must be executable.
	if err := os.WriteFile(hookPath, []byte(preCommitHook), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write hook file").
			WithContext("path", hookPath).
			Build()
	}

	out := g.Out
	_, _ = fmt.Fprintln(out, "✅ Pre-commit hook installed successfully")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "The hook will:")
	_, _ = fmt.Fprintln(out, "  • Run automatically on 'git commit'")
	_, _ = fmt.Fprintln(out, "  • Lint only staged content documents")
	_, _ = fmt.Fprintln(out, "  • Prevent commits with front-matter or component errors")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "To uninstall:")
	_, _ = fmt.Fprintf(out, "  rm %s\n", hookPath)
	return nil
}

// findGitDir resolves the git directory of a working tree, following the
// "gitdir:" pointer file used by linked worktrees and submodules.
func findGitDir(root string) (string, error) {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryGit, "not in a git repository").
			WithContext("path", root).
			Build()
	}
	if info.IsDir() {
		return dotGit, nil
	}

	// #nosec G304 -- .git pointer file inside the repository.
	content, err := os.ReadFile(dotGit)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryGit, "failed to read .git file").Build()
	}
	line := strings.TrimSpace(string(content))
	gitDir, ok := strings.CutPrefix(line, "gitdir: ")
	if !ok {
		return "", errors.GitError("unrecognized .git file").WithContext("path", dotGit).Build()
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}
	return gitDir, nil
}

// preCommitHook lints the staged version of each document, not the working
// tree copy, by exporting the index into a temporary directory.
const preCommitHook = `#!/usr/bin/env bash
# mdxcheck pre-commit hook - lint staged content documents
set -e

if ! command -v mdxcheck &> /dev/null; then
    echo "⚠️  mdxcheck not found in PATH"
    echo "   Install: go install git.home.luguber.info/inful/mdxcheck/cmd/mdxcheck@latest"
    echo "   Skipping content linting..."
    exit 0
fi

STAGED_DOCS=$(git diff --cached --name-only --diff-filter=ACM | grep -E '\.(md|mdx|markdown)$' || true)

if [ -z "$STAGED_DOCS" ]; then
    exit 0
fi

echo "🔍 Linting staged content documents..."

TEMP_DIR=$(mktemp -d)
trap "rm -rf ${TEMP_DIR}" EXIT

for file in $STAGED_DOCS; do
    mkdir -p "${TEMP_DIR}/$(dirname "$file")"
    git show ":$file" > "${TEMP_DIR}/${file}"
done

if mdxcheck lint --quiet "${TEMP_DIR}"; then
    echo "✅ Content linting passed"
    exit 0
else
    EXIT_CODE=$?
    echo ""
    echo "❌ Content linting failed"
    echo ""
    echo "To bypass this check (not recommended):"
    echo "  git commit --no-verify"
    echo ""
    exit $EXIT_CODE
fi
`
