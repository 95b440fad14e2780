package frontmatter

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// KeyLines maps front-matter keys to their 1-based line within raw.
//
// Nested mapping keys use dotted paths ("image.url") and sequence items use
// indexes ("tags[1]"). Unparseable YAML yields an empty map; callers report
// the parse error separately.
func KeyLines(raw []byte) map[string]int {
	lines := map[string]int{}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil || len(doc.Content) == 0 {
		return lines
	}

	collectLines(doc.Content[0], "", lines)
	return lines
}

func collectLines(n *yaml.Node, prefix string, lines map[string]int) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			lines[key] = n.Content[i].Line
			collectLines(n.Content[i+1], key, lines)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			key := prefix + "[" + strconv.Itoa(i) + "]"
			lines[key] = item.Line
			collectLines(item, key, lines)
		}
	}
}
