package content

import "time"

// Front-matter keys.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAuthor      = "author"
	FieldTags        = "tags"
	FieldPublished   = "published"
	FieldUpdated     = "updated"
	FieldImage       = "image"
	FieldImageURL    = "image.url"
	FieldImageAlt    = "image.alt"
)

// RequiredFields lists the keys every document must carry, in report order.
var RequiredFields = []string{FieldTitle, FieldDescription, FieldAuthor, FieldTags, FieldPublished}

// Image is the optional cover image of a document.
type Image struct {
	URL string `json:"url" yaml:"url"`
	Alt string `json:"alt" yaml:"alt"`
}

// Metadata is the validated front-matter of a content document.
type Metadata struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Author      string   `json:"author" yaml:"author"`
	Tags        []string `json:"tags" yaml:"tags"`
	// Published and Updated are milliseconds since the Unix epoch.
	Published int64  `json:"published" yaml:"published"`
	Updated   *int64 `json:"updated,omitempty" yaml:"updated,omitempty"`
	Image     *Image `json:"image,omitempty" yaml:"image,omitempty"`
}

// PublishedAt returns the first publication time.
func (m Metadata) PublishedAt() time.Time {
	return time.UnixMilli(m.Published).UTC()
}

// UpdatedAt returns the last edit time, falling back to PublishedAt.
func (m Metadata) UpdatedAt() time.Time {
	if m.Updated == nil {
		return m.PublishedAt()
	}
	return time.UnixMilli(*m.Updated).UTC()
}

// Document is one article: metadata plus the free-form body.
type Document struct {
	Path     string
	Metadata Metadata
	Body     []byte
}
