package views

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/blogkit/markdown"
	"github.com/eringen/blogkit/search"
)

func postList(h *html, posts []PostSummary, empty string) {
	if len(posts) == 0 {
		h.raw(`<p class="empty">`)
		h.text(empty)
		h.raw(`</p>`)
		return
	}
	h.raw(`<ul class="post-list">`)
	for _, p := range posts {
		h.raw(`<li class="post-item"><a class="post-link"`)
		h.href(p.Link)
		h.raw(`>`)
		h.text(p.Title)
		h.raw(`</a>`)
		if p.DisplayDate != "" {
			h.raw(`<time>`)
			h.text(p.DisplayDate)
			h.raw(`</time>`)
		}
		if p.Summary != "" {
			h.raw(`<p class="post-summary">`)
			h.text(p.Summary)
			h.raw(`</p>`)
		}
		tagList(h, p.Tags, "")
		h.raw(`</li>`)
	}
	h.raw(`</ul>`)
}

func tagList(h *html, tags []string, active string) {
	if len(tags) == 0 {
		return
	}
	h.raw(`<ul class="tags">`)
	for _, t := range tags {
		h.raw(`<li><a`)
		h.attr("class", TagClass(t == active))
		h.href(tagLink(t))
		h.raw(`>`)
		h.text(t)
		h.raw(`</a></li>`)
	}
	h.raw(`</ul>`)
}

func socialIcons(h *html, links []SocialLink) {
	if len(links) == 0 {
		return
	}
	h.raw(`<ul class="social">`)
	for _, l := range links {
		h.raw(`<li><a rel="me noopener" target="_blank"`)
		h.href(l.URL)
		h.attr("class", "icon icon-"+l.Icon)
		h.attr("aria-label", l.Name)
		h.raw(`>`)
		h.text(l.Name)
		h.raw(`</a></li>`)
	}
	h.raw(`</ul>`)
}

// Home renders the cover, pinned posts, and the latest posts.
func Home(site Site, meta PageMeta, pinned, latest []PostSummary) templ.Component {
	return Layout(site, meta, component(func(h *html) {
		h.raw(`<section class="cover">`)
		if site.CoverURL != "" {
			h.raw(`<img class="cover-image" alt=""`)
			h.attr("src", site.CoverURL)
			h.raw(`>`)
		}
		if site.AvatarURL != "" {
			h.raw(`<img class="avatar"`)
			h.attr("src", site.AvatarURL)
			h.attr("alt", site.Nickname)
			h.raw(`>`)
		}
		h.raw(`<h1>`)
		h.text(site.Nickname)
		h.raw(`</h1>`)
		if site.Description != "" {
			h.raw(`<p class="sentence">`)
			h.text(site.Description)
			h.raw(`</p>`)
		}
		socialIcons(h, site.Social)
		h.raw(`</section>`)

		if len(pinned) > 0 {
			h.raw(`<section class="pinned"><h2>Pinned</h2>`)
			postList(h, pinned, "")
			h.raw(`</section>`)
		}
		h.raw(`<section class="latest"><h2>Latest</h2>`)
		postList(h, latest, "No posts yet.")
		h.raw(`<p class="more"><a href="/posts/">All posts</a></p></section>`)
	}))
}

// Posts renders every post with the full tag list on top.
func Posts(site Site, meta PageMeta, posts []PostSummary, tags []string) templ.Component {
	return Layout(site, meta, component(func(h *html) {
		h.raw(`<h1>Posts</h1>`)
		tagList(h, tags, "")
		postList(h, posts, "No posts yet.")
	}))
}

// Tag renders the posts carrying tag.
func Tag(site Site, meta PageMeta, tag string, posts []PostSummary, tags []string) templ.Component {
	return Layout(site, meta, component(func(h *html) {
		h.raw(`<h1>Tagged `)
		h.text(tag)
		h.raw(`</h1>`)
		tagList(h, tags, tag)
		postList(h, posts, "No posts with this tag.")
	}))
}

// Post renders one post, its markdown body through r, and related posts.
func Post(site Site, meta PageMeta, page PostPage, r markdown.Renderer) templ.Component {
	return Layout(site, meta, component(func(h *html) {
		p := page.Post
		h.raw(`<article class="post"><header><h1>`)
		h.text(p.Title)
		h.raw(`</h1>`)
		if p.DisplayDate != "" {
			h.raw(`<time>`)
			h.text(p.DisplayDate)
			h.raw(`</time>`)
		}
		tagList(h, p.Tags, "")
		h.raw(`</header>`)
		if p.CoverURL != "" {
			h.raw(`<img class="post-cover" alt=""`)
			h.attr("src", p.CoverURL)
			h.raw(`>`)
		}
		h.raw(`<div class="prose">`)
		h.component(markdown.Markdown(r, page.Body))
		h.raw(`</div></article>`)
		if len(page.Related) > 0 {
			h.raw(`<aside class="related"><h2>Related posts</h2>`)
			postList(h, page.Related, "")
			h.raw(`</aside>`)
		}
	}))
}

// About renders the profile, social links and sponsor block.
func About(site Site, meta PageMeta) templ.Component {
	return Layout(site, meta, component(func(h *html) {
		h.raw(`<section class="about"><h1>About</h1>`)
		if site.AvatarURL != "" {
			h.raw(`<img class="avatar"`)
			h.attr("src", site.AvatarURL)
			h.attr("alt", site.Nickname)
			h.raw(`>`)
		}
		h.raw(`<h2>`)
		h.text(site.Nickname)
		h.raw(`</h2>`)
		if site.Location != "" {
			h.raw(`<p class="location">`)
			h.text(site.Location)
			h.raw(`</p>`)
		}
		if site.AboutText != "" {
			h.raw(`<p>`)
			h.text(site.AboutText)
			h.raw(`</p>`)
		}
		socialIcons(h, site.Social)
		h.raw(`</section>`)

		if site.PaymentURL != "" {
			h.raw(`<section class="purchase"><a class="button"`)
			h.href(site.PaymentURL)
			h.raw(`>Buy the ebook</a></section>`)
		}
		sponsor(h, site.Sponsor)
	}))
}

func sponsor(h *html, s Sponsor) {
	if s.PaypalURL == "" && s.PatreonURL == "" && s.GitHubURL == "" && len(s.Crypto) == 0 {
		return
	}
	h.raw(`<section class="sponsor"><h2>Support</h2><ul>`)
	for _, l := range []struct{ name, url string }{
		{"PayPal", s.PaypalURL},
		{"Patreon", s.PatreonURL},
		{"GitHub Sponsors", s.GitHubURL},
	} {
		if l.url == "" {
			continue
		}
		h.raw(`<li><a target="_blank" rel="noopener"`)
		h.href(l.url)
		h.raw(`>`)
		h.text(l.name)
		h.raw(`</a></li>`)
	}
	h.raw(`</ul>`)
	if len(s.Crypto) > 0 {
		h.raw(`<dl class="wallets">`)
		for _, w := range s.Crypto {
			h.raw(`<dt>`)
			h.text(w.Name)
			if w.Blockchain != "" {
				h.text(" (" + w.Blockchain + ")")
			}
			h.raw(`</dt><dd><code>`)
			h.text(w.Address)
			h.raw(`</code></dd>`)
		}
		h.raw(`</dl>`)
	}
	h.raw(`</section>`)
}

// Search renders the search form and the outcome of a query.
func Search(site Site, meta PageMeta, res search.Result) templ.Component {
	return Layout(site, meta, component(func(h *html) {
		h.raw(`<h1>Search</h1><form class="search" method="get" action="/search/"><input type="search" name="q" required`)
		h.attr("minlength", fmt.Sprint(site.MinSearch))
		h.attr("value", res.Query)
		h.raw(` placeholder="Search posts"><button type="submit">Search</button></form>`)
		if res.Query == "" && res.Kind != search.TooShort {
			return
		}
		h.raw(`<div class="search-results">`)
		switch res.Kind {
		case search.Success:
			h.raw(`<ul class="post-list">`)
			for _, hit := range res.Hits {
				h.raw(`<li class="post-item"><a class="post-link"`)
				h.href(postLink(hit.ID))
				h.raw(`>`)
				h.text(hit.Title)
				h.raw(`</a>`)
				tagList(h, hit.Tags, "")
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		case search.Empty:
			h.raw(`<p class="empty">No posts match your search.</p>`)
		case search.TooShort:
			h.raw(`<p class="notice">Please enter at least `)
			h.text(fmt.Sprint(site.MinSearch))
			h.raw(` characters.</p>`)
		case search.Error:
			h.raw(`<p class="error">Search is unavailable right now. Please try again later.</p>`)
		}
		h.raw(`</div>`)
	}))
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return Layout(site, PageMeta{Title: "Not found"}, component(func(h *html) {
		h.raw(`<section class="error-page"><h1>404</h1><p>This page could not be found.</p><p><a href="/">Back home</a></p></section>`)
	}))
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return Layout(site, PageMeta{Title: "Error"}, component(func(h *html) {
		h.raw(`<section class="error-page"><h1>Something went wrong</h1><p>Please try again later.</p><p><a href="/">Back home</a></p></section>`)
	}))
}
