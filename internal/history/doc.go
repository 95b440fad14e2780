// Package history records lint runs in a SQLite database so trends in
// content quality can be inspected with `mdxcheck history`.
package history
