// Package docmodel is the parsed form of a content document shared by the
// lint rules and the fixer: split once, decoded once, with the line mapping
// needed to report body and front-matter issues at file positions.
package docmodel

import (
	"os"
	"sync"

	"git.home.luguber.info/inful/mdxcheck/internal/content"
	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxcheck/internal/frontmatter"
)

// ParsedDoc is a document split into YAML front-matter and body.
//
// The YAML is decoded lazily and at most once; a ParsedDoc is safe to share
// between rules running concurrently.
type ParsedDoc struct {
	path  string
	block frontmatter.Block

	decodeOnce sync.Once
	fields     map[string]any
	fieldsErr  error

	// keyLines are relative to the YAML block.
	keyLines map[string]int
}

// Parse parses raw file content. A front-matter block that opens but never
// closes is returned as a validation error wrapping
// frontmatter.ErrMissingClosingDelimiter.
func Parse(data []byte) (*ParsedDoc, error) {
	block, err := frontmatter.Split(append([]byte(nil), data...))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to split front-matter").Build()
	}
	return &ParsedDoc{block: block}, nil
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*ParsedDoc, error) {
	// #nosec G304 -- path comes from directory discovery or the command line.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(data)
	if err != nil {
		classified, ok := errors.AsClassified(err)
		if ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	doc.path = path
	return doc, nil
}

// Path returns the file the document was read from, if any.
func (d *ParsedDoc) Path() string { return d.path }

// HadFrontmatter reports whether the document opened with a `---` block.
func (d *ParsedDoc) HadFrontmatter() bool { return d.block.Present }

// FrontmatterRaw returns a copy of the YAML between the delimiters, or nil.
func (d *ParsedDoc) FrontmatterRaw() []byte {
	if !d.block.Present {
		return nil
	}
	return append([]byte{}, d.block.Raw...)
}

// Body returns a copy of everything after the front-matter.
func (d *ParsedDoc) Body() []byte {
	return append([]byte{}, d.block.Body...)
}

// Style returns the newline style detected in the source.
func (d *ParsedDoc) Style() frontmatter.Style { return d.block.Style }

// Bytes re-joins front-matter and body.
func (d *ParsedDoc) Bytes() []byte { return d.block.Bytes() }

// Fields decodes the front-matter YAML. A document without front-matter has
// no fields. A decoding failure is returned on every call.
func (d *ParsedDoc) Fields() (map[string]any, error) {
	d.decode()
	if d.fieldsErr != nil {
		return nil, d.fieldsErr
	}
	return d.fields, nil
}

// KeyLines maps front-matter key paths to file line numbers.
func (d *ParsedDoc) KeyLines() map[string]int {
	d.decode()
	out := make(map[string]int, len(d.keyLines))
	for key, line := range d.keyLines {
		// +1 for the opening delimiter.
		out[key] = line + 1
	}
	return out
}

func (d *ParsedDoc) decode() {
	d.decodeOnce.Do(func() {
		d.fields, d.fieldsErr = frontmatter.ParseYAML(d.block.Raw)
		if d.fieldsErr != nil {
			return
		}
		d.keyLines = frontmatter.KeyLines(d.block.Raw)
	})
}

// Metadata validates the front-matter. Issue lines are file lines.
func (d *ParsedDoc) Metadata() (content.Metadata, error) {
	fields, err := d.Fields()
	if err != nil {
		return content.Metadata{}, err
	}
	return content.ParseMetadata(fields, content.WithKeyLines(d.keyLines, 1))
}

// Document returns the validated content document.
func (d *ParsedDoc) Document() (content.Document, error) {
	meta, err := d.Metadata()
	if err != nil {
		return content.Document{}, err
	}
	return content.Document{Path: d.path, Metadata: meta, Body: d.Body()}, nil
}
