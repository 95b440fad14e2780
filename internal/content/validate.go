package content

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/text/unicode/norm"
)

// Option configures ParseMetadata.
type Option func(*options)

type options struct {
	keyLines   map[string]int
	lineOffset int
}

// WithKeyLines attaches source positions to issues. lines maps field paths to
// their 1-based line inside the front-matter block (see frontmatter.KeyLines);
// offset is added to each so the reported line is relative to the file.
func WithKeyLines(lines map[string]int, offset int) Option {
	return func(o *options) {
		o.keyLines = lines
		o.lineOffset = offset
	}
}

// ParseMetadata converts a decoded front-matter mapping into Metadata.
//
// It performs no I/O. On failure it returns a *ValidationError holding every
// violation found; the returned Metadata is then the zero value.
func ParseMetadata(fields map[string]any, opts ...Option) (Metadata, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := &collector{opts: o}
	var meta Metadata

	meta.Title = c.requiredText(fields, FieldTitle)
	meta.Description = c.requiredText(fields, FieldDescription)
	meta.Author = c.requiredText(fields, FieldAuthor)
	meta.Tags = c.tags(fields)

	published, hasPublished := c.timestamp(fields, FieldPublished, true)
	updated, hasUpdated := c.timestamp(fields, FieldUpdated, false)
	meta.Published = published
	if hasUpdated {
		meta.Updated = &updated
	}
	if hasPublished && hasUpdated && updated < published {
		c.add(InvalidTimestamp, FieldUpdated, fmt.Sprint(updated),
			fmt.Sprintf("updated (%d) precedes published (%d)", updated, published))
	}

	meta.Image = c.image(fields)

	if len(c.issues) > 0 {
		return Metadata{}, &ValidationError{Issues: c.issues}
	}
	return meta, nil
}

type collector struct {
	opts   *options
	issues []Issue
}

func (c *collector) add(code IssueCode, field, value, message string) {
	c.issues = append(c.issues, Issue{
		Code:    code,
		Field:   field,
		Value:   value,
		Message: message,
		Line:    c.line(field),
	})
}

// line resolves field to a file line, walking up to the parent key when the
// exact path is unknown (e.g. a missing "image.alt" reports on "image").
func (c *collector) line(field string) int {
	if c.opts.keyLines == nil {
		return 0
	}
	for field != "" {
		if l, ok := c.opts.keyLines[field]; ok {
			return l + c.opts.lineOffset
		}
		idx := strings.LastIndexAny(field, ".[")
		if idx < 0 {
			break
		}
		field = field[:idx]
	}
	// Missing top-level keys are reported at the opening delimiter.
	return c.opts.lineOffset
}

func (c *collector) requiredText(fields map[string]any, key string) string {
	raw, ok := fields[key]
	if !ok || raw == nil {
		c.add(MissingRequiredField, key, "", fmt.Sprintf("required field %q is missing", key))
		return ""
	}

	s, ok := raw.(string)
	if !ok {
		c.add(InvalidFieldType, key, fmt.Sprint(raw), fmt.Sprintf("field %q must be text, got %T", key, raw))
		return ""
	}

	s = strings.TrimSpace(s)
	if err := validation.Validate(s, validation.Required); err != nil {
		c.add(MissingRequiredField, key, "", fmt.Sprintf("required field %q is empty", key))
		return ""
	}
	return s
}

func (c *collector) tags(fields map[string]any) []string {
	raw, ok := fields[FieldTags]
	if !ok || raw == nil {
		c.add(MissingRequiredField, FieldTags, "", `required field "tags" is missing`)
		return nil
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		c.add(InvalidFieldType, FieldTags, fmt.Sprint(raw), fmt.Sprintf(`field "tags" must be a list, got %T`, raw))
		return nil
	}

	if len(items) == 0 {
		c.add(MissingRequiredField, FieldTags, "", `required field "tags" must contain at least one tag`)
		return nil
	}

	tags := make([]string, 0, len(items))
	firstSeen := make(map[string]int, len(items))
	reported := make(map[string]bool)

	for i, item := range items {
		field := fmt.Sprintf("%s[%d]", FieldTags, i)

		tag, ok := item.(string)
		if !ok {
			c.add(InvalidFieldType, field, fmt.Sprint(item), fmt.Sprintf("tag %d must be text, got %T", i+1, item))
			continue
		}
		if strings.TrimSpace(tag) == "" {
			c.add(EmptyTag, field, tag, fmt.Sprintf("tag %d is empty", i+1))
			continue
		}

		// Canonically equivalent spellings render identically, so compare in NFC.
		key := norm.NFC.String(tag)
		if first, seen := firstSeen[key]; seen {
			if !reported[key] {
				reported[key] = true
				c.add(DuplicateTag, field, tag, fmt.Sprintf("tag %q duplicates tag %d", tag, first+1))
			}
			continue
		}
		firstSeen[key] = i
		tags = append(tags, tag)
	}
	return tags
}

// timestamp reads an epoch-milliseconds field. The boolean reports whether a
// valid value was found.
func (c *collector) timestamp(fields map[string]any, key string, required bool) (int64, bool) {
	raw, ok := fields[key]
	if !ok || raw == nil || raw == "" {
		if required {
			c.add(MissingRequiredField, key, "", fmt.Sprintf("required field %q is missing", key))
		}
		return 0, false
	}

	ms, err := EpochMillis(raw)
	if err != nil {
		c.add(InvalidTimestamp, key, fmt.Sprint(raw), fmt.Sprintf("field %q %v", key, err))
		return 0, false
	}
	return ms, true
}

func (c *collector) image(fields map[string]any) *Image {
	raw, ok := fields[FieldImage]
	if !ok || raw == nil {
		return nil
	}

	m, ok := asStringMap(raw)
	if !ok {
		c.add(InvalidFieldType, FieldImage, fmt.Sprint(raw), fmt.Sprintf(`field "image" must be a mapping with url and alt, got %T`, raw))
		return nil
	}

	imageURL, urlOK := c.optionalText(m, "url", FieldImageURL)
	alt, altOK := c.optionalText(m, "alt", FieldImageAlt)
	if !urlOK || !altOK {
		return nil
	}

	hasURL, hasAlt := imageURL != "", alt != ""
	switch {
	case hasURL && !hasAlt:
		c.add(IncompleteImageMetadata, FieldImageAlt, "", "image.url is set but image.alt is missing; both are required together")
	case hasAlt && !hasURL:
		c.add(IncompleteImageMetadata, FieldImageURL, "", "image.alt is set but image.url is missing; both are required together")
	}

	if hasURL {
		if err := validation.Validate(imageURL, is.RequestURL, validation.By(requireHost)); err != nil {
			c.add(InvalidImageURI, FieldImageURL, imageURL, fmt.Sprintf("image.url %q is not an absolute URI: %v", imageURL, err))
			return nil
		}
	}

	if !hasURL || !hasAlt {
		return nil
	}
	return &Image{URL: imageURL, Alt: alt}
}

// optionalText reads a text sub-field; ok is false when the value has the wrong type.
func (c *collector) optionalText(m map[string]any, key, field string) (string, bool) {
	raw, present := m[key]
	if !present || raw == nil {
		return "", true
	}
	s, isString := raw.(string)
	if !isString {
		c.add(InvalidFieldType, field, fmt.Sprint(raw), fmt.Sprintf("field %q must be text, got %T", field, raw))
		return "", false
	}
	return strings.TrimSpace(s), true
}

var errMissingHost = errors.New("missing host")

func requireHost(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return errMissingHost
	}
	return nil
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	case Image:
		return map[string]any{"url": m.URL, "alt": m.Alt}, true
	default:
		return nil, false
	}
}
