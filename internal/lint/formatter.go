package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/mdxcheck/internal/content"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, detectedPath string, wasAutoDetected bool) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format outputs results in human-readable text format. Issues keep result
// order, which the linter sorts by path and line.
func (f *TextFormatter) Format(w io.Writer, result *Result, detectedPath string, wasAutoDetected bool) error {
	p := &printer{w: w}

	if wasAutoDetected {
		p.printf("Detected content directory: %s\n", detectedPath)
	}
	p.printf("Linting content in: %s\n", detectedPath)
	p.println(strings.Repeat("━", 60))
	p.println()

	for _, issue := range result.Issues {
		f.formatIssue(p, issue)
		p.println()
	}

	p.println(strings.Repeat("━", 60))
	p.printf("Results:\n")
	p.printf("  %d file%s scanned\n", result.FilesTotal, pluralize(result.FilesTotal))

	if n := result.ErrorCount(); n > 0 {
		p.printf("  %d error%s (blocks publishing)\n", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		p.printf("  %d warning%s (should fix)\n", n, pluralize(n))
	}
	if n := result.InfoCount(); n > 0 {
		p.printf("  %d info\n", n)
	}
	p.println()

	switch {
	case result.HasErrors():
		p.println("❌ Content has errors the site generator would reject.")
		p.println("   See the fixes above; `mdxcheck lint --fix` only restamps timestamps.")
	case result.HasWarnings():
		p.println("⚠️  Content has warnings. Consider fixing before commit.")
	case len(result.Issues) > 0:
		p.println("ℹ️  All issues are informational.")
	default:
		p.println("✨ All content passes linting!")
	}
	p.println()

	return p.err
}

// formatIssue formats a single issue.
func (f *TextFormatter) formatIssue(p *printer, issue Issue) {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	case SeverityInfo:
		icon = "ℹ"
	}

	location := issue.FilePath
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", issue.FilePath, issue.Line)
	}
	p.printf("%s %s\n", icon, location)

	label := issue.Rule
	if issue.Code != "" {
		label = string(issue.Code)
	}
	if issue.Field != "" {
		label += " (" + issue.Field + ")"
	}
	p.printf("  %s [%s]: %s\n", issue.Severity, label, issue.Message)

	if issue.Explanation != "" {
		for line := range strings.SplitSeq(strings.TrimSpace(issue.Explanation), "\n") {
			p.printf("  %s\n", line)
		}
	}

	if issue.Fix != "" {
		p.println()
		p.printf("  Fix: %s\n", issue.Fix)
	}
}

// printer remembers the first write error so formatting code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, args...)
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Path            string      `json:"path"`
	WasAutoDetected bool        `json:"was_auto_detected"`
	FilesTotal      int         `json:"files_total"`
	ErrorCount      int         `json:"error_count"`
	WarningCount    int         `json:"warning_count"`
	InfoCount       int         `json:"info_count"`
	Issues          []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath    string            `json:"file_path"`
	Severity    string            `json:"severity"`
	Rule        string            `json:"rule"`
	Code        content.IssueCode `json:"code,omitempty"`
	Field       string            `json:"field,omitempty"`
	Message     string            `json:"message"`
	Explanation string            `json:"explanation,omitempty"`
	Fix         string            `json:"fix,omitempty"`
	Line        int               `json:"line,omitempty"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result, detectedPath string, wasAutoDetected bool) error {
	output := JSONOutput{
		Path:            detectedPath,
		WasAutoDetected: wasAutoDetected,
		FilesTotal:      result.FilesTotal,
		ErrorCount:      result.ErrorCount(),
		WarningCount:    result.WarningCount(),
		InfoCount:       result.InfoCount(),
		Issues:          make([]JSONIssue, 0, len(result.Issues)),
	}

	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			FilePath:    issue.FilePath,
			Severity:    issue.Severity.String(),
			Rule:        issue.Rule,
			Code:        issue.Code,
			Field:       issue.Field,
			Message:     issue.Message,
			Explanation: issue.Explanation,
			Fix:         issue.Fix,
			Line:        issue.Line,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter()
	}
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
