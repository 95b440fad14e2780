// Package frontmatter splits `---` delimited YAML front-matter from a
// document body and provides the small amount of YAML handling the validator
// and fixer need: decoding into a map, locating keys by line, and rewriting
// individual keys without disturbing the rest of the block.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a front-matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front-matter start delimiter found but closing delimiter is missing")

// Style captures the newline convention of the source so rewrites match it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Block is a document split at its front-matter boundary.
type Block struct {
	// Raw is the YAML between the delimiters, including its final newline.
	Raw []byte
	// Body is everything after the closing delimiter.
	Body []byte
	// Present reports whether the document opened with a delimiter.
	Present bool
	Style   Style
}

// Split separates YAML front-matter from the body.
//
// A document that does not start with `---` has no front-matter; Body is then
// the full input. A closing delimiter on the last line without a trailing
// newline is accepted.
func Split(content []byte) (Block, error) {
	style := detectStyle(content)
	nl := style.Newline

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Block{Body: content, Style: style}, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return Block{Raw: []byte{}, Body: rest[len(open):], Present: true, Style: style}, nil
	}
	if bytes.Equal(rest, []byte("---")) {
		return Block{Raw: []byte{}, Body: []byte{}, Present: true, Style: style}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return Block{
			Raw:     rest[:idx+len(nl)],
			Body:    rest[idx+len(closeSeq):],
			Present: true,
			Style:   style,
		}, nil
	}

	closeAtEOF := []byte(nl + "---")
	if bytes.HasSuffix(rest, closeAtEOF) {
		return Block{
			Raw:     rest[:len(rest)-len("---")],
			Body:    []byte{},
			Present: true,
			Style:   style,
		}, nil
	}

	return Block{Style: style}, ErrMissingClosingDelimiter
}

// Bytes reassembles the document.
func (b Block) Bytes() []byte {
	return Join(b.Raw, b.Body, b.Present, b.Style)
}

// Join reassembles a document from raw front-matter and body.
//
// If present is false, Join returns body unchanged.
func Join(raw []byte, body []byte, present bool, style Style) []byte {
	if !present {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(raw)+len(body))
	out = append(out, delim...)
	out = append(out, raw...)
	if len(raw) > 0 && !bytes.HasSuffix(raw, []byte("\n")) {
		out = append(out, nl...)
	}
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseYAML decodes raw front-matter (without delimiters) into a map.
// An empty block yields an empty map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if idx := bytes.IndexByte(content, '\n'); idx > 0 && content[idx-1] == '\r' {
		newline = "\r\n"
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
