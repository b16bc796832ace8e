// Package feed turns posts into an RSS 2.0 document with the full rendered
// body of each post, and writes it where the web server can serve it.
package feed

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/blogkit/markdown"
	"github.com/eringen/blogkit/sanitize"
)

// DateLayout is the layout of post dates in front matter.
const DateLayout = "2006-01-02"

// Source is the part of a post the feed needs.
type Source struct {
	ID       string
	Title    string
	Summary  string
	Body     string // raw markdown
	Date     string // YYYY-MM-DD
	Tags     []string
	CoverURL string
}

// Options describes the channel and how many posts it carries.
type Options struct {
	BaseURL     string
	Title       string
	Description string
	Image       string // channel image, relative or absolute
	Favicon     string
	Copyright   string
	Generator   string
	AuthorName  string
	AuthorEmail string
	MaxItems    int
	Notice      string // appended to each post body before rendering
	OutputPath  string
}

// Person identifies an author.
type Person struct {
	Name  string
	Email string
	Link  string
}

// Item is one rendered post. HTML never contains script or style elements
// or class attributes.
type Item struct {
	URL       string
	Title     string
	Summary   string
	HTML      string
	Published time.Time
	Author    Person
	Tags      []string
	Image     string // absolute, or empty
}

// Document is a complete feed, items in the order they were given.
type Document struct {
	Title       string
	Description string
	Link        string
	ID          string
	Image       string
	Favicon     string
	Copyright   string
	Generator   string
	Author      Person
	Updated     time.Time
	Items       []Item
}

// Renderer builds feed documents. Posts are rendered one at a time.
type Renderer struct {
	Options   Options
	Markdown  markdown.Renderer
	Sanitizer *sanitize.Sanitizer
	Logger    *log.Logger
	Now       func() time.Time
}

// New returns a Renderer for opts. A nil sanitizer gets one that marks
// external links and minifies; a nil logger gets a "feed" logger.
func New(opts Options, md markdown.Renderer, s *sanitize.Sanitizer, logger *log.Logger) *Renderer {
	if s == nil {
		s = sanitize.New(sanitize.Options{BaseURL: opts.BaseURL, Minify: true})
	}
	if logger == nil {
		logger = log.New("feed")
	}
	return &Renderer{
		Options:   opts,
		Markdown:  md,
		Sanitizer: s,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Generate renders the first MaxItems posts into a Document. posts must
// already be newest first. A render or sanitize failure aborts the run.
func (r *Renderer) Generate(posts []Source) (*Document, error) {
	base := r.Options.BaseURL
	author := Person{
		Name:  r.Options.AuthorName,
		Email: r.Options.AuthorEmail,
		Link:  ResolveURL(base, "/about"),
	}
	doc := &Document{
		Title:       r.Options.Title,
		Description: r.Options.Description,
		Link:        ResolveURL(base, "/"),
		ID:          ResolveURL(base, "/"),
		Image:       ResolveURL(base, r.Options.Image),
		Favicon:     ResolveURL(base, r.Options.Favicon),
		Copyright:   r.Options.Copyright,
		Generator:   r.Options.Generator,
		Author:      Person{Name: author.Name, Email: author.Email, Link: ResolveURL(base, "/")},
		Updated:     r.Now().UTC(),
	}
	if doc.Link == "" {
		r.Logger.Warnf("feed: base URL %q is not absolute; channel link omitted", base)
	}

	n := min(max(r.Options.MaxItems, 0), len(posts))
	doc.Items = make([]Item, 0, n)
	for _, p := range posts[:n] {
		item, err := r.item(p, author)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, item)
	}
	return doc, nil
}

func (r *Renderer) item(p Source, author Person) (Item, error) {
	out, err := r.Markdown.Render([]byte(p.Body + r.Options.Notice))
	if err != nil {
		return Item{}, fmt.Errorf("feed: render %s: %w", p.ID, err)
	}
	html, err := r.Sanitizer.Sanitize(string(out))
	if err != nil {
		return Item{}, fmt.Errorf("feed: render %s: %w", p.ID, err)
	}
	postURL := ResolveURL(r.Options.BaseURL, "/blog/"+url.PathEscape(p.ID)+"/")
	image := ResolveURL(r.Options.BaseURL, p.CoverURL)
	if image == "" && strings.TrimSpace(p.CoverURL) != "" {
		r.Logger.Warnf("feed: %s: cover URL %q cannot be resolved; omitted", p.ID, p.CoverURL)
	}
	return Item{
		URL:       postURL,
		Title:     p.Title,
		Summary:   p.Summary,
		HTML:      html,
		Published: r.published(p),
		Author:    author,
		Tags:      p.Tags,
		Image:     image,
	}, nil
}

// published parses the post date as midnight UTC. An unparseable date
// becomes today at midnight UTC.
func (r *Renderer) published(p Source) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(p.Date))
	if err == nil {
		return t
	}
	r.Logger.Warnf("feed: %s: malformed date %q; using today", p.ID, p.Date)
	return r.Now().UTC().Truncate(24 * time.Hour)
}

// Publish generates the document and writes it to Options.OutputPath.
// Write failures are logged and otherwise ignored.
func (r *Renderer) Publish(posts []Source) error {
	doc, err := r.Generate(posts)
	if err != nil {
		return err
	}
	if err := Write(r.Options.OutputPath, doc); err != nil {
		r.Logger.Errorf("feed: write %s failed, skipping: %v", r.Options.OutputPath, err)
		return nil
	}
	r.Logger.Infof("feed: wrote %d items to %s", len(doc.Items), r.Options.OutputPath)
	return nil
}
