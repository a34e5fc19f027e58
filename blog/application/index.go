package application

import (
	"context"
	"sort"

	"github.com/dfryer1193/markblog/blog/domain"
)

// AllCategories returns every distinct category of the published posts, sorted ascending.
func (s *PostService) AllCategories(ctx context.Context) ([]string, error) {
	posts, err := s.repo.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}

	return distinctSorted(posts, func(p *domain.Post) []string {
		return p.Frontmatter.Categories
	}), nil
}

// AllTags returns every distinct tag of the published posts, sorted ascending.
func (s *PostService) AllTags(ctx context.Context) ([]string, error) {
	posts, err := s.repo.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}

	return distinctSorted(posts, func(p *domain.Post) []string {
		return p.Frontmatter.Tags
	}), nil
}

// ByCategory returns the published posts listing name as a category (case-sensitive).
func (s *PostService) ByCategory(ctx context.Context, name string) ([]*domain.Post, error) {
	return s.filter(ctx, func(p *domain.Post) bool {
		return p.HasCategory(name)
	})
}

// ByTag returns the published posts listing name as a tag (case-sensitive).
func (s *PostService) ByTag(ctx context.Context, name string) ([]*domain.Post, error) {
	return s.filter(ctx, func(p *domain.Post) bool {
		return p.HasTag(name)
	})
}

func (s *PostService) filter(ctx context.Context, keep func(*domain.Post) bool) ([]*domain.Post, error) {
	posts, err := s.repo.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if keep(p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func distinctSorted(posts []*domain.Post, values func(*domain.Post) []string) []string {
	seen := make(map[string]struct{})
	for _, p := range posts {
		for _, v := range values(p) {
			seen[v] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)

	return out
}
