package markdown

import "bytes"

// maskFences is a line-based second pass over fenced code. CommonMark ends an
// HTML block only at a blank line, so a fence written directly below an
// opening component tag is swallowed by that block and goldmark never reports
// it as code. MDX treats it as code, and so do we.
func maskFences(buf []byte) {
	var open fence

	start := 0
	for start < len(buf) {
		end := bytes.IndexByte(buf[start:], '\n')
		if end < 0 {
			end = len(buf)
		} else {
			end += start
		}
		line := buf[start:end]

		switch {
		case open.size > 0:
			if open.closedBy(line) {
				open = fence{}
			}
			blank(buf, start, end)
		default:
			if f, ok := openingFence(line); ok {
				open = f
				blank(buf, start, end)
			}
		}

		start = end + 1
	}
}

// fence is an open code fence: its marker character and run length.
type fence struct {
	char byte
	size int
}

// openingFence reports whether line opens a fenced code block: at most three
// spaces of indentation, a run of at least three backticks or tildes, and for
// backtick fences an info string free of backticks.
func openingFence(line []byte) (fence, bool) {
	rest, ok := fenceIndent(line)
	if !ok || len(rest) == 0 || (rest[0] != '`' && rest[0] != '~') {
		return fence{}, false
	}

	char := rest[0]
	size := markerRun(rest, char)
	if size < 3 {
		return fence{}, false
	}
	if char == '`' && bytes.IndexByte(rest[size:], '`') >= 0 {
		return fence{}, false
	}
	return fence{char: char, size: size}, true
}

// closedBy reports whether line closes f: the same marker, at least as long,
// followed only by whitespace.
func (f fence) closedBy(line []byte) bool {
	rest, ok := fenceIndent(line)
	if !ok {
		return false
	}
	size := markerRun(rest, f.char)
	if size < f.size {
		return false
	}
	return len(bytes.TrimSpace(rest[size:])) == 0
}

func fenceIndent(line []byte) ([]byte, bool) {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	if indent > 3 {
		return nil, false
	}
	return line[indent:], true
}

func markerRun(b []byte, char byte) int {
	n := 0
	for n < len(b) && b[n] == char {
		n++
	}
	return n
}
