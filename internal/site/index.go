// Package site holds the site-wide page index and the taxonomy pass that
// extends it.
package site

import (
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/internal/pages"
)

// ErrFrozen is returned when inserting into a frozen index.
var ErrFrozen = errors.New("site: index is frozen")

// Index maps page keys to pages. Inserts are rejected after Freeze; reads
// are safe from any goroutine.
type Index struct {
	mu     sync.RWMutex
	pages  map[string]*pages.Page
	frozen bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{pages: make(map[string]*pages.Page)}
}

// Insert stores page under its name, overwriting any page with the same
// key. It reports whether a page was replaced.
func (idx *Index) Insert(page *pages.Page) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.frozen {
		return false, ErrFrozen
	}
	_, replaced := idx.pages[page.Name]
	idx.pages[page.Name] = page
	return replaced, nil
}

// Freeze rejects further inserts.
func (idx *Index) Freeze() {
	idx.mu.Lock()
	idx.frozen = true
	idx.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (idx *Index) Frozen() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.frozen
}

func (idx *Index) Get(key string) (*pages.Page, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	page, ok := idx.pages[key]
	return page, ok
}

func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.pages)
}

// All returns every page sorted by key.
func (idx *Index) All() []*pages.Page {
	out := idx.collect(func(*pages.Page) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dated returns pages that carry a date, newest first.
func (idx *Index) Dated() []*pages.Page {
	out := idx.collect(func(p *pages.Page) bool { return p.Date != nil })
	SortByDate(out)
	return out
}

// Section returns pages whose key starts with the parent directory of p,
// newest first with undated pages last.
func (idx *Index) Section(p string) []*pages.Page {
	prefix := path.Dir(strings.TrimPrefix(p, "/"))
	if prefix == "." || prefix == "/" {
		prefix = ""
	}
	out := idx.collect(func(page *pages.Page) bool {
		return strings.HasPrefix(page.Name, prefix)
	})
	SortByDate(out)
	return out
}

// Tagged returns pages tagged with term under taxonomy, newest first with
// undated pages last.
func (idx *Index) Tagged(taxonomy, term string) []*pages.Page {
	out := idx.collect(func(page *pages.Page) bool {
		return page.HasTerm(taxonomy, term)
	})
	SortByDate(out)
	return out
}

func (idx *Index) collect(keep func(*pages.Page) bool) []*pages.Page {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*pages.Page, 0, len(idx.pages))
	for _, page := range idx.pages {
		if keep(page) {
			out = append(out, page)
		}
	}
	return out
}

// FilterTagged keeps the pages of list tagged with term under taxonomy,
// preserving order.
func FilterTagged(list []*pages.Page, taxonomy, term string) []*pages.Page {
	out := make([]*pages.Page, 0, len(list))
	for _, page := range list {
		if page.HasTerm(taxonomy, term) {
			out = append(out, page)
		}
	}
	return out
}

// SortByDate orders list newest first. Undated pages sort last; ties fall
// back to the page key.
func SortByDate(list []*pages.Page) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.Date == nil && b.Date == nil:
			return a.Name < b.Name
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		case !a.Date.Equal(*b.Date):
			return a.Date.After(*b.Date)
		default:
			return a.Name < b.Name
		}
	})
}
