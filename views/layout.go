package views

import (
	"time"

	"github.com/a-h/templ"
)

// Layout wraps body in the full page shell: head metadata, navigation,
// and footer.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return component(func(h *html) {
		title := site.Title
		if meta.Title != "" && meta.Title != site.Title {
			title = meta.Title + " | " + site.Title
		}
		description := meta.Description
		if description == "" {
			description = site.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><meta name="description"`)
		h.attr("content", description)
		h.raw(`>`)
		if meta.URL != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.URL)
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(`>`)
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(`><meta property="og:description"`)
		h.attr("content", description)
		h.raw(`><meta property="og:type"`)
		h.attr("content", ogType)
		h.raw(`>`)
		if meta.Image != "" {
			h.raw(`<meta property="og:image"`)
			h.attr("content", meta.Image)
			h.raw(`>`)
		}
		h.raw(`<link rel="icon"`)
		h.attr("href", site.Favicon)
		h.raw(`><link rel="alternate" type="application/rss+xml"`)
		h.attr("title", site.Title)
		h.raw(` href="/rss.xml"><link rel="stylesheet" href="/public/blogkit.css">`)
		if meta.JSONLD != "" {
			// JSON from encoding/json escapes <, > and &.
			h.raw(`<script type="application/ld+json">`)
			h.raw(meta.JSONLD)
			h.raw(`</script>`)
		}
		h.raw(`</head><body>`)

		h.raw(`<header class="site-header"><a class="site-title" href="/">`)
		h.text(site.Title)
		h.raw(`</a><nav><a href="/posts/">Posts</a><a href="/search/">Search</a><a href="/about/">About</a><a href="/rss.xml">RSS</a></nav></header>`)

		h.raw(`<main>`)
		h.component(body)
		h.raw(`</main>`)

		h.raw(`<footer class="site-footer"><p>`)
		if site.Copyright != "" {
			h.text(site.Copyright)
		} else {
			h.text("© " + time.Now().Format("2006") + " " + site.Nickname)
		}
		h.raw(`</p></footer></body></html>`)
	})
}
