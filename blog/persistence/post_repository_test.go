package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/dfryer1193/markblog/blog/domain"
)

// setupTestRepo creates a repository rooted in a fresh temp directory with a fixed clock
func setupTestRepo(t *testing.T) *FilePostRepository {
	t.Helper()

	repo := NewPostRepository(filepath.Join(t.TempDir(), "posts"))
	repo.now = func() time.Time {
		return time.Date(2024, 5, 20, 23, 30, 0, 0, time.UTC)
	}
	return repo
}

func writePostFile(t *testing.T, repo *FilePostRepository, name, raw string) {
	t.Helper()

	if err := os.MkdirAll(repo.Dir(), 0755); err != nil {
		t.Fatalf("failed to create post dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repo.Dir(), name), []byte(raw), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestNewPostRepository(t *testing.T) {
	repo := NewPostRepository("")
	if repo == nil {
		t.Fatal("NewPostRepository returned nil")
	}
	if repo.Dir() != defaultPostDir {
		t.Errorf("Dir() = %q, want %q", repo.Dir(), defaultPostDir)
	}
}

func TestListSlugs_CreatesDirectory(t *testing.T) {
	repo := setupTestRepo(t)

	slugs, err := repo.ListSlugs(context.Background())
	if err != nil {
		t.Fatalf("ListSlugs() error = %v", err)
	}
	if len(slugs) != 0 {
		t.Errorf("ListSlugs() = %v, want empty", slugs)
	}

	info, err := os.Stat(repo.Dir())
	if err != nil {
		t.Fatalf("post directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("post path is not a directory")
	}
}

func TestListSlugs_OnlyMarkdown(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "a.md", "# a")
	writePostFile(t, repo, "b.md", "# b")
	writePostFile(t, repo, "notes.txt", "ignored")
	writePostFile(t, repo, "draft.md.bak", "ignored")

	slugs, err := repo.ListSlugs(context.Background())
	if err != nil {
		t.Fatalf("ListSlugs() error = %v", err)
	}

	sort.Strings(slugs)
	want := []string{"a.md", "b.md"}
	if !reflect.DeepEqual(slugs, want) {
		t.Errorf("ListSlugs() = %v, want %v", slugs, want)
	}
}

func TestGetBySlug_Defaults(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "bare.md", "just a body\n")

	post, err := repo.GetBySlug(context.Background(), "bare", false)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}

	want := domain.Frontmatter{
		Title:      domain.DefaultTitle,
		Date:       "2024-05-20",
		Author:     domain.DefaultAuthor,
		Categories: []string{},
		Tags:       []string{},
	}
	if !reflect.DeepEqual(post.Frontmatter, want) {
		t.Errorf("Frontmatter = %+v, want %+v", post.Frontmatter, want)
	}
	if post.Slug != "bare" {
		t.Errorf("Slug = %q, want %q", post.Slug, "bare")
	}
	if post.Content != "just a body\n" {
		t.Errorf("Content = %q, want %q", post.Content, "just a body\n")
	}
}

func TestGetBySlug_FalsyScalarsUseDefaults(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "zero.md", "---\ntitle: 0\nexcerpt: 0\nauthor: false\ncoverImage: 0.0\n---\n")

	post, err := repo.GetBySlug(context.Background(), "zero", false)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}

	fm := post.Frontmatter
	if fm.Title != domain.DefaultTitle {
		t.Errorf("Title = %q, want %q", fm.Title, domain.DefaultTitle)
	}
	if fm.Author != domain.DefaultAuthor {
		t.Errorf("Author = %q, want %q", fm.Author, domain.DefaultAuthor)
	}
	if fm.Excerpt != "" {
		t.Errorf("Excerpt = %q, want empty", fm.Excerpt)
	}
	if fm.CoverImage != "" {
		t.Errorf("CoverImage = %q, want empty", fm.CoverImage)
	}
}

func TestGetBySlug_NonZeroScalarsAreStrings(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "num.md", "---\ntitle: 1984\nauthor: true\n---\n")

	post, err := repo.GetBySlug(context.Background(), "num", false)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if post.Frontmatter.Title != "1984" {
		t.Errorf("Title = %q, want %q", post.Frontmatter.Title, "1984")
	}
	if post.Frontmatter.Author != "true" {
		t.Errorf("Author = %q, want %q", post.Frontmatter.Author, "true")
	}
}

func TestGetBySlug_AcceptsExtension(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "hello.md", "---\ntitle: Hello\n---\nbody")

	post, err := repo.GetBySlug(context.Background(), "hello.md", false)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if post.Slug != "hello" {
		t.Errorf("Slug = %q, want %q", post.Slug, "hello")
	}
	if post.Frontmatter.Title != "Hello" {
		t.Errorf("Title = %q, want %q", post.Frontmatter.Title, "Hello")
	}
}

func TestGetBySlug_NonListValuesBecomeEmpty(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "odd.md", "---\ncategories: Tech\ntags:\n  - go\n  - 7\n---\n")

	post, err := repo.GetBySlug(context.Background(), "odd", false)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if len(post.Frontmatter.Categories) != 0 {
		t.Errorf("Categories = %v, want empty", post.Frontmatter.Categories)
	}
	if want := []string{"go", "7"}; !reflect.DeepEqual(post.Frontmatter.Tags, want) {
		t.Errorf("Tags = %v, want %v", post.Frontmatter.Tags, want)
	}
}

func TestGetBySlug_Drafts(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "wip.md", "---\ntitle: WIP\ndraft: true\n---\nsoon")

	tests := []struct {
		name          string
		includeDrafts bool
		wantErr       error
	}{
		{name: "Hidden by default", includeDrafts: false, wantErr: domain.ErrNotFound},
		{name: "Visible when requested", includeDrafts: true, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := repo.GetBySlug(context.Background(), "wip", tt.includeDrafts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetBySlug() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetBySlug() error = %v", err)
			}
			if !post.Frontmatter.Draft {
				t.Error("Draft = false, want true")
			}
		})
	}
}

func TestGetBySlug_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	tests := []string{"missing", "", "..", "../secret", `..\secret`, "a/b", "/etc/passwd"}
	for _, slug := range tests {
		t.Run(slug, func(t *testing.T) {
			_, err := repo.GetBySlug(context.Background(), slug, true)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("GetBySlug(%q) error = %v, want ErrNotFound", slug, err)
			}
		})
	}
}

func TestGetBySlug_Malformed(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "broken.md", "---\ntitle: [unclosed\n---\nbody")

	_, err := repo.GetBySlug(context.Background(), "broken", true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetBySlug() error = %v, want ErrNotFound", err)
	}
}

func TestListAll_OrderAndDrafts(t *testing.T) {
	repo := setupTestRepo(t)
	writePostFile(t, repo, "old.md", "---\ntitle: Old\ndate: \"2023-12-31\"\n---\n")
	writePostFile(t, repo, "new.md", "---\ntitle: New\ndate: \"2024-06-15\"\n---\n")
	writePostFile(t, repo, "mid.md", "---\ntitle: Mid\ndate: \"2024-01-01\"\n---\n")
	writePostFile(t, repo, "draft.md", "---\ntitle: Draft\ndate: \"2025-01-01\"\ndraft: true\n---\n")
	writePostFile(t, repo, "broken.md", "---\ntitle: [unclosed\n---\n")

	ctx := context.Background()

	posts, err := repo.ListAll(ctx, false)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if got, want := slugsOf(posts), []string{"new", "mid", "old"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListAll(false) = %v, want %v", got, want)
	}

	posts, err = repo.ListAll(ctx, true)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if got, want := slugsOf(posts), []string{"draft", "new", "mid", "old"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListAll(true) = %v, want %v", got, want)
	}
}

func TestListAll_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	posts, err := repo.ListAll(context.Background(), true)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("ListAll() = %v, want empty non-nil slice", posts)
	}
}

func TestSave_ThenGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	fm := domain.Frontmatter{
		Title:      "Hello World",
		Date:       "2024-03-01",
		Author:     "Jane",
		Excerpt:    "first: post",
		Categories: []string{"Tech"},
		Tags:       []string{"intro"},
		CoverImage: "/uploads/1-cover.png",
	}
	content := "# Hi\n\nWorld"

	slug, err := repo.Save(ctx, "hello-world", fm, content)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if slug != "hello-world" {
		t.Errorf("Save() slug = %q, want %q", slug, "hello-world")
	}

	post, err := repo.GetBySlug(ctx, slug, false)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if !reflect.DeepEqual(post.Frontmatter, fm) {
		t.Errorf("Frontmatter = %+v, want %+v", post.Frontmatter, fm)
	}
	if post.Content != content {
		t.Errorf("Content = %q, want %q", post.Content, content)
	}
}

func TestSave_Overwrites(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Save(ctx, "post", domain.Frontmatter{Title: "First"}, "one"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := repo.Save(ctx, "post", domain.Frontmatter{Title: "Second"}, "two"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	post, err := repo.GetBySlug(ctx, "post", false)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if post.Frontmatter.Title != "Second" || post.Content != "two" {
		t.Errorf("post = %q/%q, want Second/two", post.Frontmatter.Title, post.Content)
	}
}

func TestSave_RejectsTraversal(t *testing.T) {
	repo := setupTestRepo(t)

	for _, slug := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		t.Run(slug, func(t *testing.T) {
			_, err := repo.Save(context.Background(), slug, domain.Frontmatter{}, "x")
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Save(%q) error = %v, want ValidationError", slug, err)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(repo.Dir()), "escape.md")); !errors.Is(err, os.ErrNotExist) {
		t.Error("Save() wrote a file outside the post directory")
	}
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Save(ctx, "gone", domain.Frontmatter{Title: "Gone"}, "bye"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := repo.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetBySlug(ctx, "gone", true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetBySlug() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, "gone"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestDelete_RejectsTraversal(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Delete(context.Background(), "../outside")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Delete() error = %v, want ValidationError", err)
	}
}

func slugsOf(posts []*domain.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}
