// Package content defines the content document model (front-matter metadata
// plus body) and the front-matter schema validator.
//
// Validation never stops at the first problem: every violated invariant is
// reported as an Issue inside a single *ValidationError so authors can fix a
// document in one editing pass.
package content
