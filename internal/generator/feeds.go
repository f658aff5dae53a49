package generator

import (
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/goliatone/go-sitegen/internal/pages"
)

const (
	maxFeedItems = 100
	rssFileName  = "rss.xml"
	atomFileName = "atom.xml"
)

// buildFeed assembles a feed from dated pages, newest first.
func buildFeed(cfg Config, dated []*pages.Page, generatedAt time.Time) *feeds.Feed {
	limit := cfg.FeedLimit
	if limit <= 0 || limit > maxFeedItems {
		limit = maxFeedItems
	}

	feed := &feeds.Feed{
		Title:       siteTitle(cfg),
		Link:        &feeds.Link{Href: baseURLString(cfg)},
		Description: cfg.Description,
		Updated:     generatedAt.UTC(),
		Created:     generatedAt.UTC(),
	}
	if len(dated) > 0 {
		feed.Updated = dated[0].Date.UTC()
	}

	for _, page := range dated {
		if len(feed.Items) >= limit {
			break
		}
		if page.Term != nil || page.Date == nil {
			continue
		}
		link := page.PermalinkString()
		item := &feeds.Item{
			Title:   page.Title,
			Link:    &feeds.Link{Href: link},
			Id:      link,
			Created: page.Date.UTC(),
			Updated: page.Date.UTC(),
			Content: page.Content,
		}
		switch {
		case page.Summary != nil:
			item.Description = *page.Summary
		case page.Description != "":
			item.Description = page.Description
		}
		feed.Items = append(feed.Items, item)
	}
	return feed
}

func siteTitle(cfg Config) string {
	if title := strings.TrimSpace(cfg.Title); title != "" {
		return title
	}
	if base := baseURLString(cfg); base != "" {
		return base
	}
	return "Site Feed"
}

func baseURLString(cfg Config) string {
	if cfg.BaseURL == nil {
		return ""
	}
	return cfg.BaseURL.String()
}
