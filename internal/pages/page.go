// Package pages turns content files into rendered pages.
package pages

import (
	"net/url"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
)

// PartialPage is the page view visible to shortcodes while the body renders.
type PartialPage = content.PartialPage

// TermIdentity marks a page synthesized for one taxonomy term.
type TermIdentity struct {
	Taxonomy string
	Term     string
}

// Page is one rendered unit of the site. Pages are immutable once inserted
// into an index.
type Page struct {
	// Name is the index key: the output path in slash form.
	Name        string
	OutputPath  string
	Template    string
	Title       string
	Description string
	Date        *time.Time
	Permalink   *url.URL
	Content     string
	Summary     *string
	Taxonomies  map[string][]string
	Term        *TermIdentity
}

// PermalinkString returns the permalink or an empty string.
func (p *Page) PermalinkString() string {
	if p == nil || p.Permalink == nil {
		return ""
	}
	return p.Permalink.String()
}

// HasTerm reports whether the page is tagged with term under taxonomy.
func (p *Page) HasTerm(taxonomy, term string) bool {
	for _, candidate := range p.Taxonomies[taxonomy] {
		if candidate == term {
			return true
		}
	}
	return false
}

// Partial returns the subset of the page visible to shortcodes.
func (p *Page) Partial() PartialPage {
	return PartialPage{
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		Permalink:   p.Permalink,
	}
}

// Values exposes the page to templates.
func (p *Page) Values() map[string]any {
	values := p.Partial().Values()
	values["name"] = p.Name
	values["path"] = p.OutputPath
	values["template"] = p.Template
	values["content"] = p.Content
	values["summary"] = ""
	if p.Summary != nil {
		values["summary"] = *p.Summary
	}
	taxonomies := make(map[string]any, len(p.Taxonomies))
	for name, terms := range p.Taxonomies {
		taxonomies[name] = append([]string(nil), terms...)
	}
	values["taxonomies"] = taxonomies
	if p.Term != nil {
		values["taxonomy"] = p.Term.Taxonomy
		values["term"] = p.Term.Term
	}
	return values
}

// ValuesOf maps a page list to template values.
func ValuesOf(list []*Page) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, page := range list {
		out = append(out, page.Values())
	}
	return out
}
