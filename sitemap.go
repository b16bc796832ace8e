package blogkit

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func buildSitemap(cfg SiteConfig, store *ContentStore) sitemapURLSet {
	base := cfg.Site.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "posts")},
		{Loc: BuildURL(base, "about")},
	}
	for _, p := range store.Posts() {
		u := sitemapURL{Loc: BuildURL(base, "blog", p.ID)}
		if !p.PublishDate.IsZero() {
			u.LastMod = p.PublishDate.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	for _, t := range store.Tags() {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags", t)})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func encodeSitemap(w io.Writer, cfg SiteConfig, store *ContentStore) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(buildSitemap(cfg, store))
}

// WriteSitemap writes the sitemap for store to path.
func WriteSitemap(path string, cfg SiteConfig, store *ContentStore) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("blogkit: create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("blogkit: create %s: %w", path, err)
	}
	if err := encodeSitemap(f, cfg, store); err != nil {
		f.Close()
		return fmt.Errorf("blogkit: encode sitemap: %w", err)
	}
	return f.Close()
}

func (a *App) renderSitemap(c echo.Context, store *ContentStore) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return encodeSitemap(c.Response(), a.Config, store)
}
