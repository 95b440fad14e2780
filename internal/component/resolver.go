package component

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/mdxcheck/internal/content"
	"git.home.luguber.info/inful/mdxcheck/internal/markdown"
)

// ChildrenParam is the pseudo-parameter reported when required content is missing.
const ChildrenParam = "children"

// Expression is an attribute value that is only known at render time.
type Expression string

// Invocation is a component use bound to its parameters.
type Invocation struct {
	Name string
	// Params holds statically known values (string, bool, json.Number, nil)
	// and Expression for everything else.
	Params map[string]any
	// Spread is set when a {...props} attribute may supply further parameters.
	Spread      bool
	SelfClosing bool
	// Children is the raw body text between the open and close tags.
	Children string
	// Line is 1-based and relative to the body.
	Line int
}

// Resolver binds component invocations against a Registry.
type Resolver struct {
	registry *Registry
}

// NewResolver returns a resolver for registry. A nil registry means DefaultRegistry.
func NewResolver(registry *Registry) *Resolver {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Resolver{registry: registry}
}

// Registry returns the registry the resolver checks against.
func (r *Resolver) Registry() *Registry { return r.registry }

type pending struct {
	tag markdown.Tag
	inv Invocation
	// closed is false for an open tag that never found its closing tag.
	closed bool
}

// Resolve scans body and returns every component invocation in source order.
//
// On failure it returns a *content.ValidationError listing every problem in
// the body; no invocations are returned in that case. Issue lines are relative
// to body.
func (r *Resolver) Resolve(body []byte) ([]Invocation, error) {
	var issues []content.Issue

	tags, err := markdown.ScanComponents(body)
	if err != nil {
		scanErr, ok := err.(*markdown.ScanError)
		if !ok {
			return nil, err
		}
		for _, p := range scanErr.Problems {
			issues = append(issues, content.Issue{
				Code:    content.UnbalancedComponent,
				Field:   p.Name,
				Message: p.Message,
				Line:    p.Line,
			})
		}
	}

	found, balanceIssues := pair(body, tags)
	issues = append(issues, balanceIssues...)

	invocations := make([]Invocation, 0, len(found))
	for _, p := range found {
		issues = append(issues, r.check(p)...)
		invocations = append(invocations, p.inv)
	}

	if len(issues) > 0 {
		sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
		return nil, &content.ValidationError{Issues: issues}
	}
	return invocations, nil
}

// pair matches open and close tags and returns the invocations in source order.
func pair(body []byte, tags []markdown.Tag) ([]*pending, []content.Issue) {
	var (
		all    []*pending
		stack  []*pending
		issues []content.Issue
	)

	unclosed := func(p *pending) {
		issues = append(issues, content.Issue{
			Code:    content.UnbalancedComponent,
			Field:   p.tag.Name,
			Message: fmt.Sprintf("<%s> is never closed; add </%s> or write <%s />", p.tag.Name, p.tag.Name, p.tag.Name),
			Line:    p.tag.Line,
		})
	}

	for _, tag := range tags {
		switch tag.Kind {
		case markdown.TagSelfClosing:
			all = append(all, &pending{tag: tag, inv: newInvocation(tag), closed: true})
		case markdown.TagOpen:
			p := &pending{tag: tag, inv: newInvocation(tag)}
			all = append(all, p)
			stack = append(stack, p)
		case markdown.TagClose:
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].tag.Name == tag.Name {
					idx = i
					break
				}
			}
			if idx < 0 {
				issues = append(issues, content.Issue{
					Code:    content.UnbalancedComponent,
					Field:   tag.Name,
					Message: fmt.Sprintf("</%s> has no matching opening tag", tag.Name),
					Line:    tag.Line,
				})
				continue
			}
			for _, inner := range stack[idx+1:] {
				unclosed(inner)
			}
			open := stack[idx]
			open.closed = true
			open.inv.Children = string(body[open.tag.End:tag.Start])
			stack = stack[:idx]
		}
	}
	for _, p := range stack {
		unclosed(p)
	}

	return all, issues
}

func newInvocation(tag markdown.Tag) Invocation {
	inv := Invocation{
		Name:        tag.Name,
		Params:      make(map[string]any, len(tag.Attrs)),
		SelfClosing: tag.Kind == markdown.TagSelfClosing,
		Line:        tag.Line,
	}
	for _, a := range tag.Attrs {
		switch {
		case a.Kind == markdown.AttrSpread:
			inv.Spread = true
		case a.Static:
			inv.Params[a.Name] = a.Value
		default:
			inv.Params[a.Name] = Expression(a.Raw)
		}
	}
	return inv
}

func (r *Resolver) check(p *pending) []content.Issue {
	inv := p.inv
	spec, ok := r.registry.Lookup(inv.Name)
	if !ok {
		return []content.Issue{{
			Code:    content.UnknownComponent,
			Field:   inv.Name,
			Value:   inv.Name,
			Message: unknownMessage(inv.Name, r.registry),
			Line:    inv.Line,
		}}
	}

	var issues []content.Issue
	add := func(code content.IssueCode, param, value, msg string) {
		issues = append(issues, content.Issue{
			Code:    code,
			Field:   inv.Name + "." + param,
			Value:   value,
			Message: msg,
			Line:    inv.Line,
		})
	}

	// Attribute order is lost in the map; report in a stable order.
	names := make([]string, 0, len(inv.Params))
	for name := range inv.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := inv.Params[name]
		if _, declared := spec.Param(name); !declared {
			if spec.Strict {
				add(content.UnknownParameter, name, "", fmt.Sprintf("<%s> does not accept parameter %q", inv.Name, name))
			}
			continue
		}
		if _, dynamic := value.(Expression); dynamic {
			continue
		}
		if err := r.registry.schema(inv.Name, name).Validate(value); err != nil {
			add(content.InvalidParameterValue, name, fmt.Sprint(value),
				fmt.Sprintf("<%s> parameter %q: %s", inv.Name, name, strings.Join(schemaMessages(err), "; ")))
		}
	}

	if !inv.Spread {
		for _, param := range spec.Params {
			if _, set := inv.Params[param.Name]; param.Required && !set {
				add(content.MissingRequiredParameter, param.Name, "",
					fmt.Sprintf("<%s> requires parameter %q", inv.Name, param.Name))
			}
		}
	}

	if spec.RequireChildren {
		switch {
		case inv.SelfClosing:
			add(content.MissingRequiredParameter, ChildrenParam, "",
				fmt.Sprintf("<%s> must wrap content; use <%s ...>text</%s>", inv.Name, inv.Name, inv.Name))
		case p.closed && strings.TrimSpace(inv.Children) == "":
			add(content.MissingRequiredParameter, ChildrenParam, "",
				fmt.Sprintf("<%s> has no content", inv.Name))
		}
	}

	return issues
}

func unknownMessage(name string, registry *Registry) string {
	msg := fmt.Sprintf("unknown component <%s>", name)
	for _, known := range registry.Names() {
		if strings.EqualFold(known, name) {
			return msg + fmt.Sprintf("; did you mean <%s>?", known)
		}
	}
	if registry.Len() > 0 {
		msg += "; known components: " + strings.Join(registry.Names(), ", ")
	}
	return msg
}
