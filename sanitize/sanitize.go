// Package sanitize cleans rendered post HTML before it goes into the feed.
package sanitize

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Error is returned when a document cannot be parsed or serialized.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sanitize: %s: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Sanitizer.
type Options struct {
	// BaseURL identifies the site's own host. Absolute links to any other
	// host are marked external. Empty disables link rewriting.
	BaseURL string
	// Minify collapses whitespace and drops redundant markup after cleaning.
	Minify bool
}

// Sanitizer removes presentation and script content from HTML fragments.
// A Sanitizer is safe for concurrent use.
type Sanitizer struct {
	host     string
	minify   bool
	minifier *minify.M
}

// New builds a Sanitizer from opts.
func New(opts Options) *Sanitizer {
	s := &Sanitizer{minify: opts.Minify, minifier: newMinifier()}
	if opts.BaseURL != "" {
		if u, err := url.Parse(opts.BaseURL); err == nil {
			s.host = strings.ToLower(u.Hostname())
		}
	}
	return s
}

func newMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDocumentTags:    true,
		KeepDefaultAttrVals: true,
	})
	return m
}

// Sanitize cleans fragment and, when enabled, minifies the result.
func (s *Sanitizer) Sanitize(fragment string) (string, error) {
	out, err := s.clean(fragment)
	if err != nil {
		return "", err
	}
	if !s.minify {
		return out, nil
	}
	return s.Minify(out)
}

// Clean removes every script and style element with its subtree and every
// class attribute, and marks external links when a base URL is configured.
func (s *Sanitizer) Clean(fragment string) (string, error) {
	return s.clean(fragment)
}

func (s *Sanitizer) clean(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", &Error{Op: "parse", Cause: err}
	}
	doc.Find("script, style").Remove()
	doc.Find("[class]").RemoveAttr("class")
	if s.host != "" {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if s.isExternal(href) {
				a.SetAttr("target", "_blank")
				a.SetAttr("rel", "nofollow noopener noreferrer")
			}
		})
	}
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", &Error{Op: "serialize", Cause: err}
	}
	return out, nil
}

func (s *Sanitizer) isExternal(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.ToLower(u.Hostname()) != s.host
}

// Minify minifies an HTML fragment.
func (s *Sanitizer) Minify(fragment string) (string, error) {
	out, err := s.minifier.String("text/html", fragment)
	if err != nil {
		return "", &Error{Op: "minify", Cause: err}
	}
	return out, nil
}

// Clean sanitizes fragment with default options and no minification.
func Clean(fragment string) (string, error) {
	return New(Options{}).Clean(fragment)
}
