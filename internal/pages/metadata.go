package pages

import (
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/frontmatter"
)

// DefaultTemplate renders pages that do not name a template.
const DefaultTemplate = "page.html"

// Metadata is the fully defaulted view of a file's front matter.
type Metadata struct {
	Template    string
	Title       string
	Description string
	Date        *time.Time
	Taxonomies  map[string][]string
}

// Resolve applies defaults to fm for the source at rel.
func Resolve(rel string, fm frontmatter.FrontMatter) Metadata {
	meta := Metadata{
		Template:    strings.TrimSpace(fm.Template),
		Title:       fm.Title,
		Description: fm.Description,
		Date:        fm.Date,
		Taxonomies:  map[string][]string{},
	}
	if meta.Template == "" {
		meta.Template = DefaultTemplate
	}
	if meta.Title == "" {
		base := path.Base(filepathToSlash(rel))
		meta.Title = strings.TrimSuffix(base, path.Ext(base))
	}
	for name, terms := range fm.Taxonomies {
		meta.Taxonomies[name] = append([]string(nil), terms...)
	}
	return meta
}
