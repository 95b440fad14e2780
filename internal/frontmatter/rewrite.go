package frontmatter

import (
	"bytes"
	"errors"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping is returned when front-matter is valid YAML but not a mapping.
var ErrNotMapping = errors.New("front-matter is not a YAML mapping")

// SetKeys rewrites raw front-matter so that each top-level key in values holds
// the given value. Existing keys keep their position and comments; new keys
// are appended in sorted order. The result uses style's newline.
func SetKeys(raw []byte, values map[string]any, style Style) ([]byte, error) {
	var doc yaml.Node
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var valNode yaml.Node
		if err := valNode.Encode(values[key]); err != nil {
			return nil, err
		}

		replaced := false
		for i := 0; i+1 < len(mapping.Content); i += 2 {
			if mapping.Content[i].Value == key {
				valNode.LineComment = mapping.Content[i+1].LineComment
				mapping.Content[i+1] = &valNode
				replaced = true
				break
			}
		}
		if !replaced {
			mapping.Content = append(mapping.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				&valNode)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if nl := style.Newline; nl != "" && nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}
