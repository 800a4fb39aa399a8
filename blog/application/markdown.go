package application

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const maxExcerptLength = 200

// RenderResult contains the results of rendering a post's markdown content
type RenderResult struct {
	Title   string
	Excerpt string
	HTML    []byte
}

type relativeLinkTransformer struct {
	siteURL string
}

func (t *relativeLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	if t.siteURL == "" {
		return
	}

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Image:
			dest := string(v.Destination)
			if isRelativeLink(dest) {
				v.Destination = []byte(t.siteURL + "/images/" + path.Base(dest))
			}
		case *ast.Link:
			dest := string(v.Destination)
			if isRelativeLink(dest) && !strings.HasPrefix(dest, "#") {
				slug := strings.TrimSuffix(path.Base(dest), ".md")
				v.Destination = []byte(t.siteURL + "/posts/" + slug)
			}
		}

		return ast.WalkContinue, nil
	})
}

func isRelativeLink(dest string) bool {
	if strings.HasPrefix(dest, "//") {
		return false
	}
	if strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}
	return !strings.Contains(dest, ":")
}

// MarkdownRenderer converts post content to HTML.
type MarkdownRenderer interface {
	Render(markdown string) (*RenderResult, error)
}

type goldmarkRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdownRenderer returns a renderer that rewrites relative links against
// siteURL and sanitises the output. An empty siteURL leaves links untouched.
func NewMarkdownRenderer(siteURL string) MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&relativeLinkTransformer{siteURL: strings.TrimSuffix(siteURL, "/")}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)

	return &goldmarkRenderer{
		md:     md,
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *goldmarkRenderer) Render(markdown string) (*RenderResult, error) {
	src := []byte(markdown)

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	return &RenderResult{
		Title:   extractTitle(src),
		Excerpt: extractExcerpt(src),
		HTML:    r.policy.SanitizeBytes(buf.Bytes()),
	}, nil
}

// extractTitle returns the text of a leading "# " heading, or "".
func extractTitle(markdown []byte) string {
	firstLine, _, _ := strings.Cut(string(markdown), "\n")
	title, found := strings.CutPrefix(strings.TrimSpace(firstLine), "# ")
	if !found {
		return ""
	}
	return strings.TrimSpace(title)
}

// extractExcerpt returns the first prose paragraph, truncated on a word
// boundary to maxExcerptLength.
func extractExcerpt(markdown []byte) string {
	var paragraphLines []string

	for _, line := range strings.Split(string(markdown), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		if trimmed == "" {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		// code blocks, rules, lists, tables
		if strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "---") ||
			strings.HasPrefix(trimmed, "***") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") ||
			strings.HasPrefix(trimmed, "|") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		paragraphLines = append(paragraphLines, trimmed)
	}

	excerpt := strings.Join(paragraphLines, " ")
	if len(excerpt) > maxExcerptLength {
		excerpt = excerpt[:maxExcerptLength]
		if lastSpace := strings.LastIndexAny(excerpt, " \t"); lastSpace > 0 {
			excerpt = excerpt[:lastSpace]
		}
		excerpt += "..."
	}

	return excerpt
}
