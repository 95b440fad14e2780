package lint

import (
	stderrors "errors"
	"regexp"
	"strconv"

	"git.home.luguber.info/inful/mdxcheck/internal/content"
	"git.home.luguber.info/inful/mdxcheck/internal/frontmatter"
)

// yamlErrorLine extracts the line from yaml.v3 messages like "yaml: line 3: ...".
var yamlErrorLine = regexp.MustCompile(`line (\d+)`)

// FrontmatterSchemaRule validates the front-matter block against the content
// document schema.
type FrontmatterSchemaRule struct{}

// Name returns the rule identifier.
func (r *FrontmatterSchemaRule) Name() string { return "frontmatter-schema" }

// AppliesTo returns true for every document handed to the linter.
func (r *FrontmatterSchemaRule) AppliesTo(string) bool { return true }

// Check reports every schema violation in the document's front-matter.
func (r *FrontmatterSchemaRule) Check(doc *Document) ([]Issue, error) {
	if doc.Parsed == nil {
		message := "front-matter could not be split from the body"
		if stderrors.Is(doc.ParseErr, frontmatter.ErrMissingClosingDelimiter) {
			message = "front-matter is missing its closing --- delimiter"
		}
		return []Issue{r.issue(doc.Path, content.Issue{
			Code:    content.MalformedFrontmatter,
			Message: message,
			Line:    1,
		})}, nil
	}

	if _, err := doc.Parsed.Fields(); err != nil {
		return []Issue{r.issue(doc.Path, content.Issue{
			Code:    content.MalformedFrontmatter,
			Message: "front-matter is not valid YAML: " + err.Error(),
			Line:    yamlLine(err),
		})}, nil
	}

	_, err := doc.Parsed.Metadata()
	if err == nil {
		return nil, nil
	}
	found := content.Issues(err)
	if found == nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(found))
	for _, ci := range found {
		issues = append(issues, r.issue(doc.Path, ci))
	}
	return issues, nil
}

func (r *FrontmatterSchemaRule) issue(path string, ci content.Issue) Issue {
	return newIssue(path, r.Name(), ci)
}

// yamlLine converts a YAML error position to a file line. The decoder counts
// from the first line after the opening delimiter.
func yamlLine(err error) int {
	m := yamlErrorLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 1
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 1
	}
	return n + 1
}

// newIssue lifts a content issue into a lint issue with its explanation.
func newIssue(path, rule string, ci content.Issue) Issue {
	explanation, fix := explain(ci)
	return Issue{
		FilePath:    path,
		Severity:    SeverityError,
		Rule:        rule,
		Code:        ci.Code,
		Field:       ci.Field,
		Message:     ci.Message,
		Explanation: explanation,
		Fix:         fix,
		Line:        ci.Line,
	}
}
