package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// TagKind distinguishes the three shapes of a component tag.
type TagKind int

const (
	TagOpen TagKind = iota
	TagClose
	TagSelfClosing
)

func (k TagKind) String() string {
	switch k {
	case TagOpen:
		return "open"
	case TagClose:
		return "close"
	case TagSelfClosing:
		return "self-closing"
	default:
		return "unknown"
	}
}

// AttrKind describes how an attribute value was written.
type AttrKind int

const (
	// AttrString is a quoted literal: type="info".
	AttrString AttrKind = iota
	// AttrExpression is a braced expression: count={3}.
	AttrExpression
	// AttrBoolean is a bare attribute name: open.
	AttrBoolean
	// AttrSpread is {...props}; it may supply any parameter.
	AttrSpread
)

// Attr is one attribute of a component tag.
type Attr struct {
	Name string
	Kind AttrKind
	// Raw is the source text of the value (without quotes or braces).
	Raw string
	// Value holds the statically known value: string, bool, json.Number or
	// nil for null. It is only meaningful when Static is true.
	Value  any
	Static bool
}

// Tag is a component tag found in a body. Start and End are byte offsets of
// the whole tag, End exclusive.
type Tag struct {
	Name  string
	Kind  TagKind
	Attrs []Attr
	Line  int
	Start int
	End   int
}

// Problem is a lexical error in a component tag.
type Problem struct {
	Line    int
	Name    string
	Message string
}

// ScanError lists every malformed tag found while scanning.
type ScanError struct {
	Problems []Problem
}

func (e *ScanError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", p.Line, p.Message))
	}
	return strings.Join(msgs, "; ")
}

// ScanComponents returns the component tags in body in source order.
//
// A component is any JSX element whose name starts with an uppercase letter,
// including member names such as Tabs.Item. Lowercase elements are plain HTML
// and are ignored. Malformed tags are reported through a *ScanError; the
// well-formed tags are still returned alongside it.
func ScanComponents(body []byte) ([]Tag, error) {
	s := &scanner{src: Mask(body)}
	s.run()

	if len(s.problems) > 0 {
		return s.tags, &ScanError{Problems: s.problems}
	}
	return s.tags, nil
}

type scanner struct {
	src      []byte
	pos      int
	tags     []Tag
	problems []Problem
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		lt := bytes.IndexByte(s.src[s.pos:], '<')
		if lt < 0 {
			return
		}
		s.pos += lt
		start := s.pos

		closing := s.peekAt(1) == '/'
		nameStart := start + 1
		if closing {
			nameStart++
		}
		if nameStart >= len(s.src) || !isUpper(s.src[nameStart]) {
			s.pos++
			continue
		}

		s.pos = nameStart
		name := s.readName()
		if closing {
			s.closeTag(start, name)
		} else {
			s.openTag(start, name)
		}
	}
}

func (s *scanner) closeTag(start int, name string) {
	s.skipSpace()
	if s.peekAt(0) != '>' {
		s.fail(start, name, fmt.Sprintf("unterminated closing tag </%s>", name))
		return
	}
	s.pos++
	s.emit(Tag{Name: name, Kind: TagClose, Start: start, End: s.pos})
}

func (s *scanner) openTag(start int, name string) {
	tag := Tag{Name: name, Kind: TagOpen, Start: start}

	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			s.fail(start, name, fmt.Sprintf("unterminated tag <%s>: reached end of document", name))
			return
		}

		c := s.src[s.pos]
		switch {
		case c == '>':
			s.pos++
			tag.End = s.pos
			s.emit(tag)
			return
		case c == '/' && s.peekAt(1) == '>':
			s.pos += 2
			tag.Kind = TagSelfClosing
			tag.End = s.pos
			s.emit(tag)
			return
		case c == '{':
			expr, ok := s.readBraced()
			if !ok {
				s.fail(start, name, fmt.Sprintf("unterminated expression in <%s>", name))
				return
			}
			trimmed := strings.TrimSpace(expr)
			if !strings.HasPrefix(trimmed, "...") {
				s.fail(start, name, fmt.Sprintf("unexpected expression {%s} in <%s>", trimmed, name))
				return
			}
			tag.Attrs = append(tag.Attrs, Attr{Kind: AttrSpread, Raw: strings.TrimSpace(trimmed[3:])})
		case isAttrStart(c):
			attr, ok := s.readAttr(name, start)
			if !ok {
				return
			}
			tag.Attrs = append(tag.Attrs, attr)
		default:
			s.fail(start, name, fmt.Sprintf("unexpected %q in <%s>", c, name))
			return
		}
	}
}

func (s *scanner) readAttr(tagName string, tagStart int) (Attr, bool) {
	from := s.pos
	for s.pos < len(s.src) && isAttrChar(s.src[s.pos]) {
		s.pos++
	}
	attr := Attr{Name: string(s.src[from:s.pos])}

	s.skipSpace()
	if s.peekAt(0) != '=' {
		attr.Kind = AttrBoolean
		attr.Raw = ""
		attr.Value = true
		attr.Static = true
		return attr, true
	}
	s.pos++
	s.skipSpace()

	switch q := s.peekAt(0); q {
	case '"', '\'':
		end := bytes.IndexByte(s.src[s.pos+1:], q)
		if end < 0 {
			s.fail(tagStart, tagName, fmt.Sprintf("unterminated value for %s in <%s>", attr.Name, tagName))
			return Attr{}, false
		}
		raw := string(s.src[s.pos+1 : s.pos+1+end])
		s.pos += end + 2
		attr.Kind = AttrString
		attr.Raw = raw
		attr.Value = html.UnescapeString(raw)
		attr.Static = true
	case '{':
		expr, ok := s.readBraced()
		if !ok {
			s.fail(tagStart, tagName, fmt.Sprintf("unterminated expression for %s in <%s>", attr.Name, tagName))
			return Attr{}, false
		}
		attr.Kind = AttrExpression
		attr.Raw = strings.TrimSpace(expr)
		attr.Value, attr.Static = evalLiteral(attr.Raw)
	default:
		s.fail(tagStart, tagName, fmt.Sprintf("missing value for %s in <%s>", attr.Name, tagName))
		return Attr{}, false
	}
	return attr, true
}

// readBraced consumes a {...} group, honouring nested braces and string
// literals, and returns its inner text.
func (s *scanner) readBraced() (string, bool) {
	open := s.pos
	depth := 0
	for i := s.pos; i < len(s.src); i++ {
		switch c := s.src[i]; c {
		case '"', '\'', '`':
			end := skipString(s.src, i)
			if end < 0 {
				return "", false
			}
			i = end
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s.pos = i + 1
				return string(s.src[open+1 : i]), true
			}
		}
	}
	return "", false
}

// skipString returns the index of the quote closing the literal opened at i.
func skipString(src []byte, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return -1
}

var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// evalLiteral evaluates expressions whose value is known without running
// code: string, number, boolean and null literals.
func evalLiteral(expr string) (any, bool) {
	switch expr {
	case "true":
		return true, true
	case "false":
		return false, true
	case "null":
		return nil, true
	}
	if len(expr) >= 2 {
		first, last := expr[0], expr[len(expr)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return unquote(expr)
		}
	}
	if numberLiteral.MatchString(expr) {
		return json.Number(expr), true
	}
	return nil, false
}

func unquote(lit string) (any, bool) {
	q := lit[0]
	inner := lit[1 : len(lit)-1]
	if skipString([]byte(lit), 0) != len(lit)-1 {
		// e.g. "a" + "b"
		return nil, false
	}
	switch q {
	case '`':
		if strings.Contains(inner, "${") {
			return nil, false
		}
		return inner, true
	case '\'':
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
	}
	v, err := strconv.Unquote(`"` + inner + `"`)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (s *scanner) emit(t Tag) {
	t.Line = LineAt(s.src, t.Start)
	s.tags = append(s.tags, t)
}

func (s *scanner) fail(start int, name, msg string) {
	s.problems = append(s.problems, Problem{Line: LineAt(s.src, start), Name: name, Message: msg})
	// Resume right after the tag name so later tags are still found.
	if s.pos <= start {
		s.pos = start + 1
	}
}

func (s *scanner) readName() string {
	from := s.pos
	for s.pos < len(s.src) && isNameChar(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[from:s.pos])
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isNameChar(c byte) bool {
	return isUpper(c) || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '.'
}

func isAttrStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || isUpper(c) || c == '_' || c == '$'
}

func isAttrChar(c byte) bool {
	return isNameChar(c) || c == '-' || c == ':' || c == '$'
}
