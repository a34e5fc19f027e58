package application

import (
	"context"
	"strings"

	"github.com/dfryer1193/markblog/blog/domain"
)

// Search returns the published posts containing query, case-insensitively, in
// their title, excerpt, content, a category or a tag. Order follows List.
// A blank query matches nothing.
func (s *PostService) Search(ctx context.Context, query string) ([]*domain.Post, error) {
	if strings.TrimSpace(query) == "" {
		return []*domain.Post{}, nil
	}

	needle := strings.ToLower(query)
	return s.filter(ctx, func(p *domain.Post) bool {
		return matches(p, needle)
	})
}

func matches(p *domain.Post, needle string) bool {
	fm := p.Frontmatter
	if containsFold(fm.Title, needle) ||
		containsFold(fm.Excerpt, needle) ||
		containsFold(p.Content, needle) {
		return true
	}

	for _, c := range fm.Categories {
		if containsFold(c, needle) {
			return true
		}
	}
	for _, t := range fm.Tags {
		if containsFold(t, needle) {
			return true
		}
	}

	return false
}

// containsFold reports whether the lower-cased haystack contains needle, which must already be lower case.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
