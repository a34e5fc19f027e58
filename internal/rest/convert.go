package rest

import (
	"github.com/dfryer1193/markblog/api"
	"github.com/dfryer1193/markblog/blog/domain"
)

func toAPIPost(p *domain.Post) api.Post {
	fm := p.Frontmatter
	return api.Post{
		Slug: p.Slug,
		Frontmatter: api.Frontmatter{
			Title:      fm.Title,
			Date:       fm.Date,
			Author:     fm.Author,
			Excerpt:    fm.Excerpt,
			Categories: nonNil(fm.Categories),
			Tags:       nonNil(fm.Tags),
			CoverImage: fm.CoverImage,
			Draft:      fm.Draft,
		},
		Content: p.Content,
	}
}

func toAPIPosts(posts []*domain.Post) []api.Post {
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, toAPIPost(p))
	}
	return out
}

func toDomainFrontmatter(fm *api.Frontmatter) domain.Frontmatter {
	return domain.Frontmatter{
		Title:      fm.Title,
		Date:       fm.Date,
		Author:     fm.Author,
		Excerpt:    fm.Excerpt,
		Categories: nonNil(fm.Categories),
		Tags:       nonNil(fm.Tags),
		CoverImage: fm.CoverImage,
		Draft:      fm.Draft,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
