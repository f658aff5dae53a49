package site

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// TaxonomyOptions configures BuildTaxonomies.
type TaxonomyOptions struct {
	Base   *url.URL
	Logger interfaces.Logger
}

// TermSegment returns the path segment for term. Terms that slug to nothing
// are used as-is.
func TermSegment(term string) string {
	candidate := strings.TrimSpace(term)
	if candidate == "" {
		return term
	}
	normalized, err := slug.Default().Normalize(candidate)
	if err != nil || normalized == "" {
		return term
	}
	return normalized
}

// TermSegments assigns every term a path segment that is unique within one
// taxonomy. Terms are visited in sorted order and a term whose slug is
// already taken gets the first free "-N" suffix, so "Go" and "go" keep
// separate pages.
func TermSegments(terms []string) map[string]string {
	sorted := append([]string(nil), terms...)
	sort.Strings(sorted)

	segments := make(map[string]string, len(sorted))
	taken := make(map[string]struct{}, len(sorted))
	for _, term := range sorted {
		if _, ok := segments[term]; ok {
			continue
		}
		base := TermSegment(term)
		segment := base
		for n := 2; ; n++ {
			if _, ok := taken[segment]; !ok {
				break
			}
			segment = fmt.Sprintf("%s-%d", base, n)
		}
		taken[segment] = struct{}{}
		segments[term] = segment
	}
	return segments
}

// Terms returns the distinct terms used under taxonomy, sorted.
func Terms(idx *Index, taxonomy string) []string {
	set := map[string]struct{}{}
	for _, page := range idx.collect(func(p *pages.Page) bool { return p.Term == nil }) {
		for _, term := range page.Taxonomies[taxonomy] {
			set[term] = struct{}{}
		}
	}
	terms := make([]string, 0, len(set))
	for term := range set {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// BuildTaxonomies synthesizes one page per distinct (taxonomy, term) pair
// and inserts it into idx. A term page whose key collides with an existing
// page replaces it; the replacement is logged. The returned pages are the
// ones the index holds once the pass completes.
func BuildTaxonomies(idx *Index, taxonomies []string, opts TaxonomyOptions) ([]*pages.Page, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	var created []*pages.Page
	for _, taxonomy := range taxonomies {
		terms := Terms(idx, taxonomy)
		segments := TermSegments(terms)
		for _, term := range terms {
			page := pages.NewTermPage(opts.Base, taxonomy, term, segments[term])
			replaced, err := idx.Insert(page)
			if err != nil {
				return created, fmt.Errorf("taxonomy %s: term %q: %w", taxonomy, term, err)
			}
			if replaced {
				logger.Warn("site.taxonomy.overwrite", "taxonomy", taxonomy, "term", term, "key", page.Name)
			}
			created = append(created, page)
		}
		logger.Debug("site.taxonomy.built", "taxonomy", taxonomy, "terms", len(terms))
	}

	held := created[:0]
	for _, page := range created {
		if current, ok := idx.Get(page.Name); ok && current == page {
			held = append(held, page)
		}
	}
	return held, nil
}

// TermPage returns the synthesized page for (taxonomy, term).
func TermPage(idx *Index, taxonomy, term string) (*pages.Page, bool) {
	found := idx.collect(func(p *pages.Page) bool {
		return p.Term != nil && p.Term.Taxonomy == taxonomy && p.Term.Term == term
	})
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}
