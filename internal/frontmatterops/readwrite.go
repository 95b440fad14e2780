package frontmatterops

import (
	"git.home.luguber.info/inful/mdxcheck/internal/frontmatter"
)

// Rewrite sets keys in the front-matter of data and returns the new document.
//
// Existing keys keep their position; new keys are appended. Everything else,
// including the body and the newline style, is left as is. A document without
// front-matter gets a new block.
func Rewrite(data []byte, values map[string]any) ([]byte, error) {
	block, err := frontmatter.Split(data)
	if err != nil {
		return nil, err
	}

	raw, err := frontmatter.SetKeys(block.Raw, values, block.Style)
	if err != nil {
		return nil, err
	}
	return frontmatter.Join(raw, block.Body, true, block.Style), nil
}
