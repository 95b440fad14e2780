package content

import (
	"errors"
	"fmt"
	"strings"
)

// IssueCode identifies the kind of validation failure.
type IssueCode string

const (
	MissingRequiredField     IssueCode = "MissingRequiredField"
	InvalidTimestamp         IssueCode = "InvalidTimestamp"
	DuplicateTag             IssueCode = "DuplicateTag"
	EmptyTag                 IssueCode = "EmptyTag"
	IncompleteImageMetadata  IssueCode = "IncompleteImageMetadata"
	InvalidImageURI          IssueCode = "InvalidImageUri"
	UnknownComponent         IssueCode = "UnknownComponent"
	MissingRequiredParameter IssueCode = "MissingRequiredParameter"
	InvalidParameterValue    IssueCode = "InvalidParameterValue"

	// MalformedFrontmatter is reported when the metadata block cannot be
	// decoded at all (unterminated block, invalid YAML, not a mapping).
	MalformedFrontmatter IssueCode = "MalformedFrontmatter"
	// InvalidFieldType is reported when a field is present with the wrong shape,
	// e.g. a numeric title or a scalar where a tag list is expected.
	InvalidFieldType    IssueCode = "InvalidFieldType"
	UnknownParameter    IssueCode = "UnknownParameter"
	UnbalancedComponent IssueCode = "UnbalancedComponent"
)

// Issue is a single, field-specific validation failure.
type Issue struct {
	Code IssueCode `json:"code"`
	// Field names the offending front-matter key ("title", "tags[1]",
	// "image.url") or component parameter ("Callout.type").
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
	// Line is 1-based; 0 when no position is known.
	Line int `json:"line,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", i.Line)
	}
	b.WriteString(string(i.Code))
	if i.Field != "" {
		b.WriteString(" (")
		b.WriteString(i.Field)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	return b.String()
}

// ValidationError is a batch of issues found in one document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "validation failed"
	case 1:
		return e.Issues[0].String()
	}

	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%d validation issues: %s", len(e.Issues), strings.Join(parts, "; "))
}

// Count returns how many issues carry code.
func (e *ValidationError) Count(code IssueCode) int {
	n := 0
	for _, issue := range e.Issues {
		if issue.Code == code {
			n++
		}
	}
	return n
}

// Issues extracts the issue batch from err, or nil if err carries none.
func Issues(err error) []Issue {
	var verr *ValidationError
	if errors.As(err, &verr) && verr != nil {
		return verr.Issues
	}
	return nil
}

// Merge combines issue batches into one error, or returns nil if there are none.
func Merge(errs ...error) error {
	var all []Issue
	for _, err := range errs {
		if err == nil {
			continue
		}
		issues := Issues(err)
		if issues == nil {
			return err
		}
		all = append(all, issues...)
	}
	if len(all) == 0 {
		return nil
	}
	return &ValidationError{Issues: all}
}
