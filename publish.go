package blogkit

import (
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/blogkit/feed"
	"github.com/eringen/blogkit/markdown"
	"github.com/eringen/blogkit/search"
)

// FeedOptions maps the site configuration onto feed channel options.
func FeedOptions(cfg SiteConfig) feed.Options {
	return feed.Options{
		BaseURL:     cfg.Site.URL,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Image:       cfg.Site.CoverURL,
		Favicon:     cfg.Site.Favicon,
		Copyright:   Copyright(cfg, time.Now()),
		Generator:   cfg.Feed.Generator,
		AuthorName:  cfg.Site.Author,
		AuthorEmail: cfg.Social.Email,
		MaxItems:    cfg.Feed.MaxItems,
		Notice:      cfg.Feed.Notice,
		OutputPath:  cfg.Feed.Output,
	}
}

// FeedSources converts posts, keeping their order.
func FeedSources(posts []Post) []feed.Source {
	out := make([]feed.Source, len(posts))
	for i, p := range posts {
		out[i] = feed.Source{
			ID:       p.ID,
			Title:    p.Title,
			Summary:  p.Summary,
			Body:     p.Body,
			Date:     p.Date,
			Tags:     p.Tags,
			CoverURL: p.CoverURL,
		}
	}
	return out
}

// SearchDocuments converts posts into index documents.
func SearchDocuments(posts []Post) []search.Document {
	out := make([]search.Document, len(posts))
	for i, p := range posts {
		out[i] = search.Document{
			ID:      p.ID,
			Title:   p.Title,
			Summary: p.Summary,
			Body:    p.Body,
			Tags:    p.Tags,
			Date:    p.PublishDate,
		}
	}
	return out
}

// NewFeedRenderer returns a feed renderer for cfg that renders with md.
func NewFeedRenderer(cfg SiteConfig, md markdown.Renderer, logger *log.Logger) *feed.Renderer {
	return feed.New(FeedOptions(cfg), md, nil, logger)
}

// PublishFeed renders the newest posts of store and writes the feed file.
// Write failures are logged, not returned.
func PublishFeed(cfg SiteConfig, store *ContentStore, md markdown.Renderer, logger *log.Logger) error {
	return NewFeedRenderer(cfg, md, logger).Publish(FeedSources(store.Posts()))
}

// Build loads content and writes the static artifacts: the RSS feed (when
// enabled) and the sitemap. Feed rendering errors are returned; file write
// errors are logged.
func Build(cfg SiteConfig, md markdown.Renderer, logger *log.Logger) error {
	store, err := LoadContent(cfg.Content.Dir)
	if err != nil {
		return err
	}
	logger.Infof("loaded %d posts from %s", store.Len(), cfg.Content.Dir)
	if cfg.Feed.Enabled {
		if err := PublishFeed(cfg, store, md, logger); err != nil {
			return err
		}
	}
	sitemapPath := cfg.Server.PublicDir + "/sitemap.xml"
	if err := WriteSitemap(sitemapPath, cfg, store); err != nil {
		logger.Errorf("sitemap: write %s failed, skipping: %v", sitemapPath, err)
	}
	return nil
}
