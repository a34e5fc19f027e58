package application

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	maxSnippetRunes = 200
	highlightStyle  = "github"
)

// RenderResult contains the results of rendering a post body
type RenderResult struct {
	HTML    string
	Snippet string
}

// relativeLinkTransformer points bare image paths at the upload directory and
// links to sibling markdown files at their post page.
type relativeLinkTransformer struct {
	imagePrefix string
	postPrefix  string
}

func (t *relativeLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Image:
			dest := string(v.Destination)
			if t.imagePrefix != "" && isRelativeLink(dest) {
				v.Destination = []byte(path.Join(t.imagePrefix, path.Base(dest)))
			}
		case *ast.Link:
			dest := string(v.Destination)
			if t.postPrefix != "" && isRelativeLink(dest) && strings.HasSuffix(dest, ".md") {
				slug := strings.TrimSuffix(path.Base(dest), ".md")
				v.Destination = []byte(path.Join(t.postPrefix, slug))
			}
		}

		return ast.WalkContinue, nil
	})
}

// isRelativeLink reports whether dest is a path relative to the post itself.
// Site-absolute paths, protocol-relative URLs, URLs with a scheme and fragments are left alone.
func isRelativeLink(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") {
		return false
	}

	if strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}

	return !strings.Contains(dest, ":")
}

// MarkdownRenderer defines the interface for converting markdown to HTML.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown []byte) (*RenderResult, error)
}

// RendererOption configures a MarkdownRendererImpl.
type RendererOption func(*relativeLinkTransformer)

// WithImagePrefix rewrites relative image paths to live under prefix, e.g. "/uploads".
func WithImagePrefix(prefix string) RendererOption {
	return func(t *relativeLinkTransformer) {
		t.imagePrefix = prefix
	}
}

// WithPostPrefix rewrites relative links to other .md files to "<prefix>/<slug>".
func WithPostPrefix(prefix string) RendererOption {
	return func(t *relativeLinkTransformer) {
		t.postPrefix = prefix
	}
}

type MarkdownRendererImpl struct {
	renderer goldmark.Markdown
}

var _ MarkdownRenderer = (*MarkdownRendererImpl)(nil)

// NewMarkdownRenderer builds the goldmark pipeline: CommonMark parsing, GFM
// tables/strikethrough/autolinks/task lists, link rewriting, chroma highlighting
// of fenced code and HTML serialization. Raw HTML in the source is omitted.
func NewMarkdownRenderer(opts ...RendererOption) *MarkdownRendererImpl {
	links := &relativeLinkTransformer{}
	for _, opt := range opts {
		opt(links)
	}

	renderer := goldmark.New(
		goldmark.WithExtensions(
			// tables, strikethrough, autolinks and task lists
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithGuessLanguage(true),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(links, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	return &MarkdownRendererImpl{
		renderer: renderer,
	}
}

func (r *MarkdownRendererImpl) Render(ctx context.Context, markdown []byte) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.renderer.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return &RenderResult{
		HTML:    buf.String(),
		Snippet: extractSnippet(markdown),
	}, nil
}

// extractSnippet returns the first prose paragraph, cut to maxSnippetRunes on a word boundary.
func extractSnippet(markdown []byte) string {
	return truncateOnWord(firstParagraph(string(markdown)), maxSnippetRunes)
}

// Lines starting with one of these are headings, fences, rules, list items,
// table rows or images, never prose.
var nonProsePrefixes = []string{"#", "```", "---", "***", "- ", "* ", "+ ", "|", "!["}

// firstParagraph joins the lines of the first prose block. Anything that is
// not prose ends the block once it has started and is skipped before that.
func firstParagraph(markdown string) string {
	var lines []string
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !isProse(trimmed) {
			if len(lines) > 0 {
				break
			}
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.Join(lines, " ")
}

func isProse(line string) bool {
	for _, prefix := range nonProsePrefixes {
		if strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

// truncateOnWord shortens s to at most limit runes, backing off to the last
// whitespace when there is one, and marks the cut with "...".
func truncateOnWord(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	cut := string([]rune(s)[:limit])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
