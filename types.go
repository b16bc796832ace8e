package blogkit

import (
	"net/url"
	"time"
)

// Post is a single article loaded from the content directory. Posts are
// immutable once loaded; a reload builds a fresh set.
type Post struct {
	ID          string // filename without extension, unique
	Title       string
	Summary     string
	Body        string // markdown without front matter
	Date        string // date as written in front matter
	PublishDate time.Time
	Tags        []string
	CoverURL    string // empty when absent
	Pinned      bool
	NoPrompt    bool // hidden from the homepage latest list
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + url.PathEscape(p.ID) + "/"
}

// FrontMatter is the YAML block at the top of a post file.
type FrontMatter struct {
	Title    string   `yaml:"title"`
	Summary  string   `yaml:"summary"`
	Time     string   `yaml:"time"`
	Date     string   `yaml:"date"`
	Tags     []string `yaml:"tags"`
	CoverURL string   `yaml:"coverURL"`
	Pin      bool     `yaml:"pin"`
	NoPrompt bool     `yaml:"noPrompt"`
}
