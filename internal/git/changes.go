package git

import (
	stderrors "errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

// ErrNotRepository is returned when no repository encloses the given path.
var ErrNotRepository = git.ErrRepositoryNotExists

// Scope selects which changes count.
type Scope int

const (
	// ScopeWorktree includes staged, unstaged and untracked files.
	ScopeWorktree Scope = iota
	// ScopeStaged includes only files staged for the next commit.
	ScopeStaged
)

// Repo is an opened working tree.
type Repo struct {
	repo *git.Repository
	root string
}

// Open finds the repository enclosing path.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").
			WithContext("path", path).
			Build()
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.WrapError(err, errors.CategoryGit, "not inside a git repository").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to open repository").
			WithContext("path", path).
			Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "repository has no working tree").
			WithContext("path", path).
			Build()
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the absolute working tree root.
func (r *Repo) Root() string { return r.root }

// ChangedFiles returns absolute paths of files that differ from HEAD within
// scope, sorted. Deleted files are never returned since there is nothing to lint.
func (r *Repo) ChangedFiles(scope Scope) ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "repository has no working tree").Build()
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to read working tree status").
			WithContext("root", r.root).
			Build()
	}

	var files []string
	for rel, st := range status {
		if !included(st, scope) {
			continue
		}
		files = append(files, filepath.Join(r.root, filepath.FromSlash(rel)))
	}
	sort.Strings(files)
	return files, nil
}

func included(st *git.FileStatus, scope Scope) bool {
	switch scope {
	case ScopeStaged:
		return st.Staging != git.Unmodified && st.Staging != git.Untracked && st.Staging != git.Deleted
	default:
		if st.Worktree == git.Deleted || (st.Staging == git.Deleted && st.Worktree != git.Untracked) {
			return false
		}
		return st.Staging != git.Unmodified || st.Worktree != git.Unmodified
	}
}

// Under filters files to those inside dir (both absolute or both relative to
// the same base).
func Under(files []string, dir string) []string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(abs, f)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, f)
	}
	return out
}
