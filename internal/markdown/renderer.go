package markdown

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Renderer converts markdown to HTML. A single instance is safe for
// concurrent use.
type Renderer struct {
	page  goldmark.Markdown
	plain goldmark.Markdown
}

// New constructs a Renderer. Page conversions route code blocks through
// highlighter and resolve relative image URLs.
func New(opts Options, highlighter interfaces.Highlighter) *Renderer {
	return &Renderer{
		page:  newGoldmarkEngine(opts, &pageExtension{highlighter: highlighter}),
		plain: newGoldmarkEngine(opts),
	}
}

// Render converts src, resolving relative image destinations against
// permalink.
func (r *Renderer) Render(src string, permalink *url.URL) (string, error) {
	pc := parser.NewContext()
	if permalink != nil {
		pc.Set(permalinkKey, permalink)
	}

	var buf bytes.Buffer
	if err := r.page.Convert([]byte(src), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// RenderPlain converts src without the page transforms.
func (r *Renderer) RenderPlain(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.plain.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// pageExtension installs the image resolver and, when a highlighter is
// configured, the code block renderer.
type pageExtension struct {
	highlighter interfaces.Highlighter
}

func (e *pageExtension) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(imageResolver{}, 100),
		),
	)
	if e.highlighter == nil {
		return
	}
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&codeBlockRenderer{highlighter: e.highlighter}, 100),
		),
	)
}
