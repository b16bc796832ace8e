// Package markdown renders post bodies to HTML with goldmark and exposes the
// result as a templ component.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown source to an HTML fragment.
type Renderer interface {
	Render(src []byte) ([]byte, error)
}

// Options selects the goldmark pipeline.
type Options struct {
	// Extensions by name: gfm, table, strikethrough, linkify, tasklist,
	// definition, footnote, typographer. Empty means gfm + footnote.
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the source instead of passing it through.
	SafeMode bool
}

// Goldmark is a Renderer backed by a single goldmark instance. It holds no
// per-call state and is safe for concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// New builds a Goldmark renderer. Headings get auto-generated ids.
func New(opts Options) *Goldmark {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(collectExtensions(opts.Extensions)...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Footnote}
	}
	var exts []goldmark.Extender
	seen := map[string]bool{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionRegistry[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		exts = append(exts, ext)
	}
	return exts
}

// reESM matches an MDX import/export line, which has no HTML meaning.
var reESM = regexp.MustCompile(`^(import|export)\s`)

// stripESM drops MDX import/export lines outside fenced code blocks.
func stripESM(src []byte) []byte {
	var out bytes.Buffer
	var fence string
	for _, line := range bytes.SplitAfter(src, []byte("\n")) {
		if marker := fenceMarker(line); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case marker[0] == fence[0] && len(marker) >= len(fence):
				fence = ""
			}
		} else if fence == "" && reESM.Match(line) {
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}

// fenceMarker returns the run of ` or ~ opening line, or "" when line is not
// a code fence. Up to three spaces of indentation are allowed.
func fenceMarker(line []byte) string {
	trimmed := bytes.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return ""
	}
	return string(trimmed[:n])
}

// Render converts src to HTML. MDX import/export statements are dropped first.
func (g *Goldmark) Render(src []byte) ([]byte, error) {
	src = stripESM(src)
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown returns a templ.Component that renders content as HTML with r.
func Markdown(r Renderer, content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := r.Render([]byte(content))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	})
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
