package domain

import (
	"context"
	"regexp"
	"strings"
)

const (
	// PostExt is the extension every post file carries on disk.
	PostExt = ".md"

	DefaultTitle  = "Untitled"
	DefaultAuthor = "Anonymous"

	// DateLayout is the zero-padded ISO form dates are defaulted to and compared in.
	DateLayout = "2006-01-02"
)

// Frontmatter is the typed metadata block of a post.
// Every Post returned by a repository has all fields populated with defaults.
type Frontmatter struct {
	Title      string   `json:"title" yaml:"title"`
	Date       string   `json:"date" yaml:"date"`
	Author     string   `json:"author" yaml:"author"`
	Excerpt    string   `json:"excerpt" yaml:"excerpt"`
	Categories []string `json:"categories" yaml:"categories"`
	Tags       []string `json:"tags" yaml:"tags"`
	CoverImage string   `json:"coverImage" yaml:"coverImage"`
	Draft      bool     `json:"draft" yaml:"draft"`
}

// Post represents a blog post
// A post is a markdown file whose name (minus PostExt) is the slug. Content is
// the raw markdown body; it is only rendered to HTML for full page views.
type Post struct {
	Slug        string      `json:"slug"`
	Frontmatter Frontmatter `json:"frontmatter"`
	Content     string      `json:"content"`
}

// HasCategory reports whether the post lists name as a category (exact match).
func (p *Post) HasCategory(name string) bool {
	for _, c := range p.Frontmatter.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// HasTag reports whether the post lists name as a tag (exact match).
func (p *Post) HasTag(name string) bool {
	for _, t := range p.Frontmatter.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// Metadata flattens the frontmatter into the loosely typed mapping written to disk.
func (f Frontmatter) Metadata() map[string]any {
	categories := f.Categories
	if categories == nil {
		categories = []string{}
	}
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}

	return map[string]any{
		"title":      f.Title,
		"date":       f.Date,
		"author":     f.Author,
		"excerpt":    f.Excerpt,
		"categories": categories,
		"tags":       tags,
		"coverImage": f.CoverImage,
		"draft":      f.Draft,
	}
}

type PostRepository interface {
	// ListSlugs returns every post filename in the storage directory, in directory order.
	ListSlugs(ctx context.Context) ([]string, error)

	// GetBySlug returns ErrNotFound for missing, unreadable, or hidden draft posts.
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*Post, error)

	// ListAll returns every readable post sorted by date descending.
	ListAll(ctx context.Context, includeDrafts bool) ([]*Post, error)

	// Save creates or fully overwrites the post file and returns the stored slug.
	Save(ctx context.Context, slug string, fm Frontmatter, content string) (string, error)

	// Delete removes the post file, or returns ErrNotFound.
	Delete(ctx context.Context, slug string) error
}

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// NewSlug derives the slug a new post is stored under from its title.
func NewSlug(title string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// TrimExt strips a trailing PostExt from a slug or filename.
func TrimExt(slug string) string {
	return strings.TrimSuffix(slug, PostExt)
}
