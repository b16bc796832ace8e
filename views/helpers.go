package views

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/eringen/blogkit/markdown"
)

// html accumulates writes and remembers the first error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes an href attribute, dropping unsafe URLs.
func (h *html) href(raw string) {
	h.raw(` href="` + markdown.SafeURL(raw) + `"`)
}

func (h *html) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		fn(h)
		return h.err
	})
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}

func tagLink(tag string) string {
	return "/tags/" + url.PathEscape(tag) + "/"
}

func postLink(id string) string {
	return "/blog/" + url.PathEscape(id) + "/"
}
