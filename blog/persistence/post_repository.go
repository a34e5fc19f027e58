package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dfryer1193/markblog/blog/domain"
	"github.com/dfryer1193/markblog/shared/frontmatter"
	"github.com/rs/zerolog/log"
)

var _ domain.PostRepository = (*FilePostRepository)(nil)

const defaultPostDir = "./content/posts"

// FilePostRepository implements domain.PostRepository on a directory of markdown files
// Every method goes back to disk; nothing is cached between calls. Concurrent
// saves to one slug are last-write-wins.
type FilePostRepository struct {
	dir string
	now func() time.Time
}

// NewPostRepository creates a FilePostRepository rooted at dir.
// If dir is empty it defaults to "./content/posts".
func NewPostRepository(dir string) *FilePostRepository {
	if dir == "" {
		dir = defaultPostDir
	}

	return &FilePostRepository{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the storage directory.
func (r *FilePostRepository) Dir() string {
	return r.dir
}

// ensureDir creates the storage directory if it is missing.
func (r *FilePostRepository) ensureDir() error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create post directory: %w", err)
	}
	return nil
}

// resolvePath maps a slug to its file path, refusing anything that would leave r.dir.
func (r *FilePostRepository) resolvePath(slug string) (string, string, error) {
	realSlug := domain.TrimExt(slug)

	if realSlug == "" || realSlug == "." || realSlug == ".." ||
		strings.ContainsAny(realSlug, `/\`) ||
		strings.ContainsRune(realSlug, 0) ||
		!filepath.IsLocal(realSlug) {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidSlug, slug)
	}

	return realSlug, filepath.Join(r.dir, realSlug+domain.PostExt), nil
}

// ListSlugs returns every *.md filename in the storage directory
func (r *FilePostRepository) ListSlugs(ctx context.Context) ([]string, error) {
	if err := r.ensureDir(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read post directory: %w", err)
	}
	defer f.Close()

	// Readdirnames keeps directory order, unlike os.ReadDir which sorts.
	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read post directory: %w", err)
	}

	slugs := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasSuffix(name, domain.PostExt) {
			slugs = append(slugs, name)
		}
	}

	return slugs, nil
}

// GetBySlug reads and normalizes a single post
// Missing files, malformed front matter and drafts (unless includeDrafts) all
// report domain.ErrNotFound; malformed files are logged.
func (r *FilePostRepository) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	realSlug, path, err := r.resolvePath(slug)
	if err != nil {
		log.Debug().Err(err).Str("slug", slug).Msg("Rejected post slug")
		return nil, domain.ErrNotFound
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "read", Slug: realSlug, Err: err}
	}

	meta, body, err := frontmatter.Parse(string(raw))
	if err != nil {
		log.Warn().Err(err).Str("slug", realSlug).Msg("Skipping post with malformed front matter")
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, domain.ErrMalformedContent)
	}

	fm := r.normalize(meta)
	if fm.Draft && !includeDrafts {
		return nil, domain.ErrNotFound
	}

	return &domain.Post{
		Slug:        realSlug,
		Frontmatter: fm,
		Content:     body,
	}, nil
}

// ListAll returns all readable posts, newest first
// Dates are compared as strings, so ordering is only chronological for
// zero-padded YYYY-MM-DD dates. Files that fail to load are logged and skipped.
func (r *FilePostRepository) ListAll(ctx context.Context, includeDrafts bool) ([]*domain.Post, error) {
	slugs, err := r.ListSlugs(ctx)
	if err != nil {
		log.Error().Err(err).Str("dir", r.dir).Msg("Failed to list posts")
		return []*domain.Post{}, nil
	}

	posts := make([]*domain.Post, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		post, err := r.GetBySlug(ctx, slug, includeDrafts)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Warn().Err(err).Str("slug", slug).Msg("Skipping unreadable post")
			}
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Frontmatter.Date > posts[j].Frontmatter.Date
	})

	return posts, nil
}

// Save serializes the frontmatter and content and overwrites the post file
// There is no existence check; creating and updating are the same operation.
func (r *FilePostRepository) Save(ctx context.Context, slug string, fm domain.Frontmatter, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	realSlug, path, err := r.resolvePath(slug)
	if err != nil {
		return "", &domain.ValidationError{Field: "slug", Message: err.Error()}
	}

	if err := r.ensureDir(); err != nil {
		return "", &domain.StorageError{Op: "save", Slug: realSlug, Err: err}
	}

	raw, err := frontmatter.Serialize(content, fm.Metadata())
	if err != nil {
		return "", &domain.StorageError{Op: "save", Slug: realSlug, Err: err}
	}

	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		log.Error().Err(err).Str("slug", realSlug).Msg("Failed to save post")
		return "", &domain.StorageError{Op: "save", Slug: realSlug, Err: err}
	}

	return realSlug, nil
}

// Delete removes a post file
func (r *FilePostRepository) Delete(ctx context.Context, slug string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	realSlug, path, err := r.resolvePath(slug)
	if err != nil {
		return &domain.ValidationError{Field: "slug", Message: err.Error()}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return domain.ErrNotFound
	} else if err != nil {
		return &domain.StorageError{Op: "delete", Slug: realSlug, Err: err}
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		log.Error().Err(err).Str("slug", realSlug).Msg("Failed to delete post")
		return &domain.StorageError{Op: "delete", Slug: realSlug, Err: err}
	}

	return nil
}

// normalize coerces the loosely typed metadata into a Frontmatter with defaults applied.
func (r *FilePostRepository) normalize(meta map[string]any) domain.Frontmatter {
	return domain.Frontmatter{
		Title:      stringOr(meta["title"], domain.DefaultTitle),
		Date:       dateOr(meta["date"], r.now().UTC().Format(domain.DateLayout)),
		Author:     stringOr(meta["author"], domain.DefaultAuthor),
		Excerpt:    stringOr(meta["excerpt"], ""),
		Categories: stringSlice(meta["categories"]),
		Tags:       stringSlice(meta["tags"]),
		CoverImage: stringOr(meta["coverImage"], ""),
		Draft:      truthy(meta["draft"]),
	}
}

func stringOr(v any, def string) string {
	switch val := v.(type) {
	case nil:
		return def
	case string:
		if val == "" {
			return def
		}
		return val
	case bool:
		if !val {
			return def
		}
		return "true"
	default:
		// numeric zero reads as unset, like false and ""
		if reflect.ValueOf(val).IsZero() {
			return def
		}
		return fmt.Sprint(val)
	}
}

func dateOr(v any, def string) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(domain.DateLayout)
	}
	return stringOr(v, def)
}

func stringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string{}, val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{}
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	default:
		return false
	}
}
