// Package git finds documents touched in a git working tree so lint runs and
// pre-commit hooks can be limited to what an author is editing.
package git
