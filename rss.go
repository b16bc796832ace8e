package blogkit

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogkit/feed"
)

// handleFeed serves the generated feed file. When the file is missing
// (feed generation disabled or a failed write), the feed is rendered from
// the current posts instead.
func (a *App) handleFeed(c echo.Context) error {
	if _, err := os.Stat(a.Config.Feed.Output); err == nil {
		c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
		return c.File(a.Config.Feed.Output)
	} else if !errors.Is(err, fs.ErrNotExist) {
		c.Logger().Warnf("feed: stat %s: %v", a.Config.Feed.Output, err)
	}
	store, err := a.Cache.Store()
	if err != nil {
		return err
	}
	doc, err := a.feedFor(store)
	if err != nil {
		return err
	}
	return a.renderRSS(c, doc)
}

// feedFor returns the feed for store, generating it at most once per
// loaded content set.
func (a *App) feedFor(store *ContentStore) (*feed.Document, error) {
	a.feedMu.Lock()
	defer a.feedMu.Unlock()
	if a.feedDoc != nil && a.feedStore == store {
		return a.feedDoc, nil
	}
	doc, err := a.feedRenderer().Generate(FeedSources(store.Posts()))
	if err != nil {
		return nil, err
	}
	a.feedDoc, a.feedStore = doc, store
	return doc, nil
}

func (a *App) feedRenderer() *feed.Renderer {
	return NewFeedRenderer(a.Config, a.Markdown, a.logger)
}

func (a *App) renderRSS(c echo.Context, doc *feed.Document) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return feed.Encode(c.Response(), doc)
}
