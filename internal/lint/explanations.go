package lint

import (
	"strings"

	"git.home.luguber.info/inful/mdxcheck/internal/component"
	"git.home.luguber.info/inful/mdxcheck/internal/content"
)

// explain returns the long-form explanation and fix suggestion for an issue.
func explain(ci content.Issue) (explanation, fix string) {
	field := ci.Field
	switch ci.Code {
	case content.MissingRequiredField:
		return `Every article needs title, description, author, tags and published.
The site generator uses them for listings, feeds and social cards.`,
			"Add a non-empty `" + field + "` key to the front-matter"
	case content.InvalidFieldType:
		return `The key is present but its value has the wrong shape. Titles,
descriptions and authors are text, tags is a list of text, published and
updated are epoch milliseconds, image is a mapping with url and alt.`,
			"Change the type of `" + field + "`"
	case content.InvalidTimestamp:
		return `Timestamps are non-negative integers counting milliseconds since the
Unix epoch. updated records the last edit and can never be earlier than
published.`,
			"Use epoch milliseconds (e.g. 1700000000000); run `mdxcheck lint --fix` to restamp `updated`"
	case content.DuplicateTag:
		return `Each tag may appear once. Tags are compared exactly after Unicode
normalisation, so "Go" and "go" are different tags.`,
			"Remove the repeated tag " + quote(ci.Value)
	case content.EmptyTag:
		return `An empty tag renders as a blank chip and produces an empty tag page.`,
			"Remove or fill in `" + field + "`"
	case content.IncompleteImageMetadata:
		return `A cover image needs both url and alt. Alt text is required for
accessibility; a url without alt (or alt without url) is rejected.`,
			"Set `" + field + "` or remove the image block"
	case content.InvalidImageURI:
		return `image.url must be an absolute URI with a scheme and host, such as
https://example.com/cover.png.`,
			"Use an absolute URL for `image.url`"
	case content.MalformedFrontmatter:
		return `The metadata block between the --- delimiters could not be read.
Nothing else in the front-matter was checked.`,
			"Fix the YAML syntax and make sure the block is closed with ---"
	case content.UnknownComponent:
		return `The body uses a component the site does not register. It would fail
to render.`,
			"Check the spelling or run `mdxcheck components` to list available components"
	case content.MissingRequiredParameter:
		if strings.HasSuffix(field, "."+component.ChildrenParam) {
			return `This component wraps content and must not be empty or self-closing.`,
				"Put content between the opening and closing tags"
		}
		return `The component cannot render without this parameter.`,
			"Add the `" + paramName(field) + "` attribute"
	case content.InvalidParameterValue:
		return `The attribute value does not match the parameter definition in the
component registry.`,
			"Run `mdxcheck components` to see allowed values"
	case content.UnknownParameter:
		return `This component only accepts the parameters it declares.`,
			"Remove the `" + paramName(field) + "` attribute"
	case content.UnbalancedComponent:
		return `Every opening component tag needs a matching closing tag, or must be
self-closing (<Name />).`,
			"Close the tag or remove the stray closing tag"
	}
	return "", ""
}

func paramName(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[i+1:]
	}
	return field
}

func quote(s string) string {
	return `"` + s + `"`
}
