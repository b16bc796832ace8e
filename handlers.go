package blogkit

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogkit/search"
	"github.com/eringen/blogkit/views"
)

func (a *App) site() views.Site {
	return ViewSite(a.Config)
}

func (a *App) meta(title, description string, segments ...string) views.PageMeta {
	return views.PageMeta{
		Title:       title,
		Description: description,
		URL:         BuildURL(a.Config.Site.URL, segments...),
		OGType:      "website",
		Image:       a.absURL(a.Config.Site.CoverURL),
	}
}

func (a *App) absURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return raw
	}
	base, err := url.Parse(a.Config.Site.URL + "/")
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func (a *App) handleHome(c echo.Context) error {
	store, err := a.Cache.Store()
	if err != nil {
		return err
	}
	meta := a.meta(a.Config.Site.Title, a.Config.Site.Description)
	meta.JSONLD = WebsiteJSONLD(a.Config)
	return Render(c, views.Home(a.site(), meta,
		Summaries(store.Pinned(), a.months),
		Summaries(store.Latest(a.Config.Content.LatestCount), a.months)))
}

func (a *App) handlePosts(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return Render(c, views.Posts(a.site(), a.meta("Posts", "", "posts"), Summaries(posts, a.months), tags))
}

func (a *App) handleTag(c echo.Context) error {
	tag, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		tag = c.Param("tag")
	}
	tag = normalizeTag(tag)
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return Render(c, views.Tag(a.site(), a.meta("Tagged "+tag, "", "tags", tag), tag, Summaries(posts, a.months), tags))
}

func (a *App) handlePost(c echo.Context) error {
	id, err := url.PathUnescape(c.Param("id"))
	if err != nil {
		id = c.Param("id")
	}
	post, err := a.Cache.GetPost(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		}
		return err
	}
	store, err := a.Cache.Store()
	if err != nil {
		return err
	}
	meta := a.meta(post.Title, post.Summary, "blog", post.ID)
	meta.OGType = "article"
	if post.CoverURL != "" {
		meta.Image = a.absURL(post.CoverURL)
	}
	meta.JSONLD = BlogPostingJSONLD(post, a.Config)
	page := views.PostPage{
		Post:    Summary(post, a.months),
		Body:    post.Body,
		Related: Summaries(store.Related(post), a.months),
	}
	return Render(c, views.Post(a.site(), meta, page, a.Markdown))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, views.About(a.site(), a.meta("About", a.Config.Site.AboutText, "about")))
}

func (a *App) handleSearchPage(c echo.Context) error {
	q := c.QueryParam("q")
	var res search.Result
	if q != "" {
		res = search.Run(c.Request().Context(), a.Index, q, a.Config.Search.MinQueryLength, a.Config.Search.MaxResults)
		if res.Kind == search.Error {
			c.Logger().Errorf("search page %q: %v", q, res.Err)
		}
	}
	return Render(c, views.Search(a.site(), a.meta("Search", "", "search"), res))
}

func (a *App) handleSitemap(c echo.Context) error {
	store, err := a.Cache.Store()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, store)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/posts/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.ico")
}

func (a *App) handleRobots(c echo.Context) error {
	robots := a.staticDir + "/robots.txt"
	if err := c.File(robots); err == nil {
		return nil
	}
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: "+a.Config.Site.URL+"/sitemap.xml\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
