package templates

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/site"
)

// ErrUnknownTaxonomy is returned by taxonomy lookups for names missing from
// the site configuration.
var ErrUnknownTaxonomy = errors.New("templates: unknown taxonomy")

// Functions returns the site lookups exposed to templates for one build.
// idx must be frozen before any template calls them.
func Functions(idx *site.Index, base *url.URL, taxonomies []string) map[string]any {
	lookups := &siteLookups{idx: idx, base: base, taxonomies: taxonomies}
	return map[string]any{
		"get_url":          lookups.URL,
		"get_section":      lookups.Section,
		"get_taxonomy_url": lookups.TaxonomyURL,
		"get_taxonomy":     lookups.Taxonomy,
	}
}

type siteLookups struct {
	idx        *site.Index
	base       *url.URL
	taxonomies []string
}

func (l *siteLookups) URL(p string) string {
	ref := &url.URL{Path: strings.TrimPrefix(p, "/")}
	if l.base == nil {
		return ref.String()
	}
	return l.base.ResolveReference(ref).String()
}

func (l *siteLookups) Section(p string) map[string]any {
	return map[string]any{
		"pages": pages.ValuesOf(l.idx.Section(p)),
	}
}

func (l *siteLookups) TaxonomyURL(kind, name string) (string, error) {
	if !slices.Contains(l.taxonomies, kind) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTaxonomy, kind)
	}
	if page, ok := site.TermPage(l.idx, kind, name); ok {
		return page.PermalinkString(), nil
	}
	return pages.NewTermPage(l.base, kind, name, site.TermSegment(name)).PermalinkString(), nil
}

func (l *siteLookups) Taxonomy(kind, name string) ([]map[string]any, error) {
	if !slices.Contains(l.taxonomies, kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaxonomy, kind)
	}
	return pages.ValuesOf(l.idx.Tagged(kind, name)), nil
}

// MarkdownFilter renders its input as markdown without page transforms.
func MarkdownFilter(renderer *markdown.Renderer) func(input any, param any) (any, error) {
	return func(input any, _ any) (any, error) {
		var src string
		switch value := input.(type) {
		case nil:
		case string:
			src = value
		default:
			src = fmt.Sprint(value)
		}
		html, err := renderer.RenderPlain(src)
		if err != nil {
			return nil, err
		}
		return SafeHTML(html), nil
	}
}
