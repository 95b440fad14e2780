package lint

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdxcheck/internal/content"
	"git.home.luguber.info/inful/mdxcheck/internal/docmodel"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but don't block publishing.
	SeverityWarning
	// SeverityError indicates issues the site generator would reject or render wrongly.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a file.
type Issue struct {
	FilePath string   // Path as given on the command line or found by discovery
	Severity Severity // Issue severity level
	Rule     string   // Rule identifier (e.g., "frontmatter-schema")
	// Code is the validation taxonomy code; empty for rules outside it.
	Code        content.IssueCode
	Field       string // Offending front-matter key or component parameter
	Message     string // Brief description of the issue
	Explanation string // Detailed explanation with context
	Fix         string // Suggested fix or command to resolve
	Line        int    // File line number (0 if file-level issue)
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int // Total files scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

// InfoCount returns the number of informational issues.
func (r *Result) InfoCount() int {
	return r.count(SeverityInfo)
}

func (r *Result) count(sev Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			count++
		}
	}
	return count
}

// FilesWithIssues returns the distinct files that have at least one issue,
// in result order.
func (r *Result) FilesWithIssues() []string {
	var files []string
	seen := make(map[string]bool)
	for _, issue := range r.Issues {
		if !seen[issue.FilePath] {
			seen[issue.FilePath] = true
			files = append(files, issue.FilePath)
		}
	}
	return files
}

// Document is a file handed to the rules.
type Document struct {
	Path string
	// Parsed is nil when the file could not be split into front-matter and
	// body; ParseErr then holds the reason.
	Parsed   *docmodel.ParsedDoc
	ParseErr error
}

// Rule defines a linting rule that can be applied to files.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check validates a document and returns any issues found. An error is
	// returned only when checking itself failed, never for content problems.
	Check(doc *Document) ([]Issue, error)

	// AppliesTo returns true if this rule should be checked for the given file.
	AppliesTo(filePath string) bool
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings, only showing errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string

	// Fix enables automatic fixing of issues where possible.
	Fix bool

	// DryRun shows what would be fixed without applying changes.
	DryRun bool

	// Workers bounds how many documents are validated concurrently.
	// Zero means one per CPU.
	Workers int

	// Extensions lists the document file extensions (default .md, .mdx, .markdown).
	Extensions []string

	// Ignore holds glob patterns matched against paths relative to the lint
	// root and against base names.
	Ignore []string
}

// DefaultExtensions are the document extensions linted when none are configured.
var DefaultExtensions = []string{".md", ".mdx", ".markdown"}

// IsDocFile returns true if the file has one of the default document extensions.
func IsDocFile(path string) bool {
	return hasExtension(path, DefaultExtensions)
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
