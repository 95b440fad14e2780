package docmodel

import "bytes"

// LineOffset translates body lines into file lines: fileLine = LineOffset() + bodyLine.
//
// With front-matter it covers both delimiter lines and every raw YAML line.
func (d *ParsedDoc) LineOffset() int {
	if !d.block.Present {
		return 0
	}
	return 2 + bytes.Count(d.block.Raw, []byte("\n"))
}

// FileLine converts a 1-based body line to a 1-based file line. Zero stays
// zero so unknown positions remain unknown.
func (d *ParsedDoc) FileLine(bodyLine int) int {
	if bodyLine <= 0 {
		return 0
	}
	return d.LineOffset() + bodyLine
}
