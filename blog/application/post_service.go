package application

import (
	"context"
	"fmt"

	"github.com/dfryer1193/markblog/blog/domain"
	"github.com/rs/zerolog/log"
)

// RenderedPost is a post together with its body rendered to HTML.
type RenderedPost struct {
	Post    *domain.Post
	HTML    string
	Snippet string
}

// PostService is the entry point the HTTP layer uses for everything post related.
// It holds no state of its own; every call goes through to the repository.
type PostService struct {
	repo     domain.PostRepository
	markdown MarkdownRenderer
}

func NewPostService(repo domain.PostRepository, markdown MarkdownRenderer) *PostService {
	return &PostService{
		repo:     repo,
		markdown: markdown,
	}
}

// List returns every visible post, newest first.
func (s *PostService) List(ctx context.Context, includeDrafts bool) ([]*domain.Post, error) {
	return s.repo.ListAll(ctx, includeDrafts)
}

// Get returns a single post or domain.ErrNotFound.
func (s *PostService) Get(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	return s.repo.GetBySlug(ctx, slug, includeDrafts)
}

// RenderPost loads a post and renders its content for a full page view.
func (s *PostService) RenderPost(ctx context.Context, slug string, includeDrafts bool) (*RenderedPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug, includeDrafts)
	if err != nil {
		return nil, err
	}

	result, err := s.markdown.Render(ctx, []byte(post.Content))
	if err != nil {
		log.Error().Err(err).Str("slug", post.Slug).Msg("Failed to render post")
		return nil, fmt.Errorf("failed to render post %s: %w", post.Slug, err)
	}

	return &RenderedPost{
		Post:    post,
		HTML:    result.HTML,
		Snippet: result.Snippet,
	}, nil
}

// Save creates or overwrites a post. When slug is empty one is derived from the title.
func (s *PostService) Save(ctx context.Context, slug string, fm domain.Frontmatter, content string) (string, error) {
	if slug == "" {
		slug = domain.NewSlug(fm.Title)
	}
	if slug == "" {
		return "", &domain.ValidationError{Field: "slug", Message: "a slug or a title containing letters or digits is required"}
	}

	saved, err := s.repo.Save(ctx, slug, fm, content)
	if err != nil {
		return "", err
	}

	log.Info().Str("slug", saved).Bool("draft", fm.Draft).Msg("Saved post")
	return saved, nil
}

// Delete removes a post, returning domain.ErrNotFound if it does not exist.
func (s *PostService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.Delete(ctx, slug); err != nil {
		return err
	}

	log.Info().Str("slug", slug).Msg("Deleted post")
	return nil
}
