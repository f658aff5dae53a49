package pages

import (
	"fmt"
	"net/url"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/frontmatter"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// BodyRenderer renders a page body with its partial page bound.
type BodyRenderer interface {
	Render(body string, partial content.PartialPage) (string, error)
}

// Builder constructs pages from content files. It holds no per-file state
// and is safe for concurrent use.
type Builder struct {
	base     *url.URL
	renderer BodyRenderer
	logger   interfaces.Logger
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger sets the logger used for per-file diagnostics.
func WithBuilderLogger(logger interfaces.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder constructs a Builder that links pages under base.
func NewBuilder(base *url.URL, renderer BodyRenderer, opts ...BuilderOption) *Builder {
	b := &Builder{
		base:     base,
		renderer: renderer,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build constructs the page for the content file at rel. Errors carry rel.
func (b *Builder) Build(rel, text string) (*Page, error) {
	doc, err := frontmatter.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	if len(doc.Undecoded) > 0 {
		b.logger.Warn("pages.frontmatter.unknown_keys", "source_path", rel, "keys", doc.Undecoded)
	}

	meta := Resolve(rel, doc.FrontMatter)
	outputPath := OutputPath(rel, meta.Template)
	page := &Page{
		Name:        outputPath,
		OutputPath:  outputPath,
		Template:    meta.Template,
		Title:       meta.Title,
		Description: meta.Description,
		Date:        meta.Date,
		Permalink:   Permalink(b.base, outputPath),
		Taxonomies:  meta.Taxonomies,
	}
	partial := page.Partial()

	if cut, ok := FindSummaryCut(doc.Body); ok {
		summary, err := b.renderer.Render(doc.Body[:cut], partial)
		if err != nil {
			return nil, fmt.Errorf("%s: summary: %w", rel, err)
		}
		page.Summary = &summary
	}

	page.Content, err = b.renderer.Render(doc.Body, partial)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}

	logging.WithPageContext(b.logger, rel, page.Template, page.OutputPath).Debug("pages.build.completed")
	return page, nil
}

// NewTermPage synthesizes the page listing one taxonomy term. segment is
// the path-safe form of term.
func NewTermPage(base *url.URL, taxonomy, term, segment string) *Page {
	template := taxonomy + "/single.html"
	outputPath := OutputPath(taxonomy+"/"+segment+".md", template)
	return &Page{
		Name:       outputPath,
		OutputPath: outputPath,
		Template:   template,
		Title:      term,
		Permalink:  Permalink(base, outputPath),
		Taxonomies: map[string][]string{},
		Term:       &TermIdentity{Taxonomy: taxonomy, Term: term},
	}
}
