// Package markdown scans MDX-style document bodies for embedded component
// invocations. Goldmark locates the regions that never contain live markup
// (code blocks, code spans, HTML comments); those are blanked out before the
// JSX tag lexer runs so examples inside code samples are not validated.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Mask returns a copy of body in which every code block, code span and HTML
// comment is replaced by spaces. Newlines are preserved, so byte offsets and
// line numbers in the result match body.
func Mask(body []byte) []byte {
	out := append([]byte(nil), body...)

	root := goldmark.New().Parser().Parse(text.NewReader(body))
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.FencedCodeBlock:
			if node.Info != nil {
				blank(out, node.Info.Segment.Start, node.Info.Segment.Stop)
			}
			blankLines(out, node.Lines())
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeBlock:
			blankLines(out, node.Lines())
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					blank(out, t.Segment.Start, t.Segment.Stop)
				}
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.HTMLBlock:
			if node.HTMLBlockType == gmast.HTMLBlockType2 {
				blankLines(out, node.Lines())
				if node.HasClosure() {
					blank(out, node.ClosureLine.Start, node.ClosureLine.Stop)
				}
			}
		case *gmast.RawHTML:
			segs := node.Segments
			if segs.Len() == 0 {
				break
			}
			first := segs.At(0)
			if bytes.HasPrefix(first.Value(body), []byte("<!--")) {
				for i := 0; i < segs.Len(); i++ {
					s := segs.At(i)
					blank(out, s.Start, s.Stop)
				}
			}
		}
		return gmast.WalkContinue, nil
	})

	maskFences(out)
	return out
}

func blankLines(buf []byte, lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		s := lines.At(i)
		blank(buf, s.Start, s.Stop)
	}
}

func blank(buf []byte, start, stop int) {
	if start < 0 {
		start = 0
	}
	if stop > len(buf) {
		stop = len(buf)
	}
	for i := start; i < stop; i++ {
		if buf[i] != '\n' && buf[i] != '\r' {
			buf[i] = ' '
		}
	}
}

// LineAt returns the 1-based line containing byte offset off.
func LineAt(body []byte, off int) int {
	if off > len(body) {
		off = len(body)
	}
	return bytes.Count(body[:off], []byte("\n")) + 1
}
