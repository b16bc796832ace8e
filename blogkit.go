// Package blogkit is a file-based personal blog engine built with Go, Echo,
// and templ. Posts are Markdown/MDX files with front matter; the engine serves
// them, indexes them for search, publishes an RSS feed, and answers payment
// webhooks for a single digital asset.
package blogkit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/blogkit/feed"
	"github.com/eringen/blogkit/markdown"
	"github.com/eringen/blogkit/search"
	"github.com/eringen/blogkit/webhook"
)

// App is the central blogkit application. It wires together the content
// cache, search index, handlers, and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Cache    *PostCache
	Index    *search.Index
	Markdown markdown.Renderer

	logger         *log.Logger
	deliverer      webhook.Deliverer
	customRoutes   []func(*App)
	staticDir      string
	months         MonthNames
	searchLimiter  *RateLimiter
	webhookLimiter *RateLimiter
	prepared       bool

	feedMu    sync.Mutex
	feedDoc   *feed.Document
	feedStore *ContentStore
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Markdown:  markdown.New(markdown.Options{}),
		staticDir: cfg.Server.PublicDir,
		months:    MonthsFor(cfg.Site.DateLocale),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = NewLogger("blogkit", cfg.Log.Level)
	}
	a.Echo.Logger = a.logger
	return a
}

// Logger returns the application logger.
func (a *App) Logger() *log.Logger {
	return a.logger
}

// Prepare loads content, builds the search index, publishes the feed when
// enabled, and registers middleware and routes. Start calls it; tests call
// it directly and drive a.Echo with httptest.
func (a *App) Prepare(ctx context.Context) error {
	if a.prepared {
		return nil
	}
	index, err := search.NewIndex()
	if err != nil {
		return fmt.Errorf("blogkit: init search: %w", err)
	}
	a.Index = index

	dir := a.Config.Content.Dir
	a.Cache = NewPostCache(func() (*ContentStore, error) { return LoadContent(dir) }, a.Config.Server.PostCacheTTL)
	a.Cache.OnLoad(func(store *ContentStore) {
		if err := a.Index.Rebuild(context.Background(), SearchDocuments(store.Posts())); err != nil {
			a.logger.Errorf("search: rebuild index: %v", err)
			return
		}
		a.logger.Debugf("search: indexed %d posts", store.Len())
	})

	store, err := a.Cache.Store()
	if err != nil {
		return fmt.Errorf("blogkit: load content: %w", err)
	}
	a.logger.Infof("loaded %d posts from %s", store.Len(), dir)

	if a.Config.Feed.Enabled {
		if err := PublishFeed(a.Config, store, a.Markdown, a.logger); err != nil {
			a.logger.Errorf("feed: %v", err)
		}
	}

	a.searchLimiter = NewRateLimiter(a.Config.Search.RatePerMinute, time.Minute)
	a.webhookLimiter = NewRateLimiter(30, time.Minute)

	if a.deliverer == nil && a.Config.Payment.Enabled {
		d, err := webhook.NewAWSDeliverer(ctx, webhook.AWSConfig{
			Region:   a.Config.Payment.Region,
			Bucket:   a.Config.Payment.Bucket,
			Key:      a.Config.Payment.Key,
			Sender:   a.Config.Payment.Sender,
			Subject:  a.Config.Payment.Subject,
			LinkTTL:  a.Config.Payment.LinkTTL,
			RetryFor: a.Config.Payment.RetryFor,
		}, a.logger)
		if err != nil {
			a.logger.Errorf("payment delivery disabled: %v", err)
		} else {
			a.deliverer = d
		}
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.prepared = true
	return nil
}

// Start prepares the app and runs the HTTP server until it is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Prepare(ctx); err != nil {
		return err
	}
	a.logger.Infof("listening on %s", a.Config.Server.Addr)
	if err := a.Echo.Start(a.Config.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework stylesheet, then the user's static assets.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/blogkit.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)
	e.GET("/favicon.ico", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/posts/", a.handlePosts)
	e.GET("/blog/", handleBlogRedirect)
	e.GET("/blog/:id/", a.handlePost)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/about/", a.handleAbout)
	e.GET("/search/", a.handleSearchPage)

	search.NewHandler(a.Index, search.HandlerOptions{
		MinQueryLength: a.Config.Search.MinQueryLength,
		MaxResults:     a.Config.Search.MaxResults,
		Limiter:        a.searchLimiter,
	}).RegisterRoutes(e)

	var deliverer webhook.Deliverer
	if a.Config.Payment.Enabled {
		deliverer = a.deliverer
	}
	webhook.NewHandler(deliverer, a.webhookLimiter).RegisterRoutes(e)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.searchLimiter != nil {
		a.searchLimiter.Close()
	}
	if a.webhookLimiter != nil {
		a.webhookLimiter.Close()
	}
	if a.Index != nil {
		return a.Index.Close()
	}
	return nil
}
