package blogkit

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// BuildURL joins path segments onto base. Any URL with segments ends in a
// slash, matching the site's routes.
func BuildURL(base string, segments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if len(segments) == 0 {
		return u.String()
	}
	joined := path.Join(append([]string{u.Path}, segments...)...)
	u.Path = strings.TrimSuffix(joined, "/") + "/"
	u.RawPath = ""
	return u.String()
}

const schemaContext = "https://schema.org"

type ldRef struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type ldWebSite struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Author      *ldRef `json:"author,omitempty"`
}

type ldBlogPosting struct {
	Context       string `json:"@context"`
	Type          string `json:"@type"`
	Headline      string `json:"headline"`
	Description   string `json:"description,omitempty"`
	DatePublished string `json:"datePublished,omitempty"`
	URL           string `json:"url"`
	Image         string `json:"image,omitempty"`
	MainEntity    ldRef  `json:"mainEntityOfPage"`
	Author        *ldRef `json:"author,omitempty"`
	Publisher     *ldRef `json:"publisher,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
}

func ldRefOf(typ, name string) *ldRef {
	if name == "" {
		return nil
	}
	return &ldRef{Type: typ, Name: name}
}

func marshalLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// WebsiteJSONLD describes the site as a schema.org WebSite.
func WebsiteJSONLD(cfg SiteConfig) string {
	return marshalLD(ldWebSite{
		Context:     schemaContext,
		Type:        "WebSite",
		Name:        cfg.Site.Title,
		URL:         BuildURL(cfg.Site.URL),
		Description: cfg.Site.Description,
		Author:      ldRefOf("Person", cfg.Site.Author),
	})
}

// BlogPostingJSONLD describes post as a schema.org BlogPosting.
func BlogPostingJSONLD(post Post, cfg SiteConfig) string {
	postURL := BuildURL(cfg.Site.URL, "blog", post.ID)
	published := post.Date
	if !post.PublishDate.IsZero() {
		published = post.PublishDate.Format("2006-01-02")
	}
	image := ""
	if post.CoverURL != "" {
		if base, err := url.Parse(cfg.Site.URL + "/"); err == nil {
			if ref, err := url.Parse(post.CoverURL); err == nil {
				image = base.ResolveReference(ref).String()
			}
		}
	}
	return marshalLD(ldBlogPosting{
		Context:       schemaContext,
		Type:          "BlogPosting",
		Headline:      post.Title,
		Description:   post.Summary,
		DatePublished: published,
		URL:           postURL,
		Image:         image,
		MainEntity:    ldRef{Type: "WebPage", ID: postURL},
		Author:        ldRefOf("Person", cfg.Site.Author),
		Publisher:     ldRefOf("Organization", cfg.Site.Title),
		Keywords:      strings.Join(post.Tags, ", "),
	})
}
