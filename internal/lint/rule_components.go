package lint

import (
	"git.home.luguber.info/inful/mdxcheck/internal/component"
	"git.home.luguber.info/inful/mdxcheck/internal/content"
)

// ComponentsRule resolves embedded component invocations against the registry.
type ComponentsRule struct {
	resolver *component.Resolver
}

// NewComponentsRule creates the rule for registry (nil means the default registry).
func NewComponentsRule(registry *component.Registry) *ComponentsRule {
	return &ComponentsRule{resolver: component.NewResolver(registry)}
}

// Name returns the rule identifier.
func (r *ComponentsRule) Name() string { return "components" }

// AppliesTo returns true for every document handed to the linter.
func (r *ComponentsRule) AppliesTo(string) bool { return true }

// Check reports unknown components, bad parameters and unbalanced tags. Lines
// are translated from body positions to file positions.
func (r *ComponentsRule) Check(doc *Document) ([]Issue, error) {
	// The schema rule reports documents that cannot be split.
	if doc.Parsed == nil {
		return nil, nil
	}

	_, err := r.resolver.Resolve(doc.Parsed.Body())
	if err == nil {
		return nil, nil
	}
	found := content.Issues(err)
	if found == nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(found))
	for _, ci := range found {
		ci.Line = doc.Parsed.FileLine(ci.Line)
		issues = append(issues, newIssue(doc.Path, r.Name(), ci))
	}
	return issues, nil
}
