package content

import (
	"net/url"
	"time"
)

// DateLayout is the format used when dates are exposed to templates.
const DateLayout = "2006-01-02"

// PartialPage is the view of a page available while its own body is being
// rendered.
type PartialPage struct {
	Title       string
	Description string
	Date        *time.Time
	Permalink   *url.URL
}

// PermalinkString returns the permalink or an empty string.
func (p PartialPage) PermalinkString() string {
	if p.Permalink == nil {
		return ""
	}
	return p.Permalink.String()
}

// Values exposes the partial page to shortcode templates.
func (p PartialPage) Values() map[string]any {
	date := ""
	if p.Date != nil {
		date = p.Date.Format(DateLayout)
	}
	return map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"date":        date,
		"permalink":   p.PermalinkString(),
	}
}
