package content

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-sitegen/internal/shortcode/parser"
)

// MarkdownRenderer converts one markdown span to HTML.
type MarkdownRenderer interface {
	Render(src string, permalink *url.URL) (string, error)
}

// Evaluator renders one parsed shortcode invocation.
type Evaluator interface {
	Evaluate(inv parser.Invocation, page map[string]any) (string, error)
}

// Pipeline renders page bodies.
type Pipeline struct {
	markdown  MarkdownRenderer
	shortcode Evaluator
}

// NewPipeline wires the markdown renderer and the shortcode evaluator.
func NewPipeline(markdown MarkdownRenderer, shortcodes Evaluator) *Pipeline {
	return &Pipeline{markdown: markdown, shortcode: shortcodes}
}

// Render scans body and concatenates the rendered ranges in source order.
func (p *Pipeline) Render(body string, partial PartialPage) (string, error) {
	if body == "" {
		return "", nil
	}

	ranges, err := Scan(body)
	if err != nil {
		return "", err
	}

	var values map[string]any
	var out strings.Builder
	for _, r := range ranges {
		text := r.Text(body)
		switch r.Kind {
		case KindMarkdown:
			html, err := p.markdown.Render(text, partial.Permalink)
			if err != nil {
				return "", err
			}
			out.WriteString(html)
		case KindShortCode:
			inv, err := parser.Parse(text)
			if err != nil {
				return "", fmt.Errorf("shortcode at offset %d: %w", r.Start, err)
			}
			if values == nil {
				values = partial.Values()
			}
			html, err := p.shortcode.Evaluate(inv, values)
			if err != nil {
				return "", err
			}
			out.WriteString(html)
		}
	}
	return out.String(), nil
}
