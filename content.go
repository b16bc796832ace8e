package blogkit

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("blogkit: post not found")

var postExtensions = map[string]bool{".md": true, ".mdx": true}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// ContentStore is the ordered, read-only set of posts found in a content
// directory. Posts are sorted newest first; posts without a usable date sort last.
type ContentStore struct {
	posts []Post
	byID  map[string]int
}

// LoadContent scans dir recursively for .md and .mdx files and builds a store.
// A missing directory yields an empty store.
func LoadContent(dir string) (*ContentStore, error) {
	var posts []Post
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !postExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("blogkit: read %s: %w", path, err)
		}
		id := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		post, err := ParsePost(id, data)
		if err != nil {
			return fmt.Errorf("blogkit: %s: %w", path, err)
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewContentStore(posts)
}

// NewContentStore sorts posts and indexes them by ID. Duplicate IDs are an error.
func NewContentStore(posts []Post) (*ContentStore, error) {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PublishDate, sorted[j].PublishDate
		if !a.Equal(b) {
			return a.After(b)
		}
		return sorted[i].ID < sorted[j].ID
	})
	byID := make(map[string]int, len(sorted))
	for i, p := range sorted {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("blogkit: duplicate post id %q", p.ID)
		}
		byID[p.ID] = i
	}
	return &ContentStore{posts: sorted, byID: byID}, nil
}

// ParsePost builds a Post from a file's raw bytes.
func ParsePost(id string, data []byte) (Post, error) {
	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return Post{}, fmt.Errorf("parse front matter: %w", err)
	}
	date := strings.TrimSpace(fm.Time)
	if date == "" {
		date = strings.TrimSpace(fm.Date)
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = titleFromID(id)
	}
	return Post{
		ID:          id,
		Title:       title,
		Summary:     strings.TrimSpace(fm.Summary),
		Body:        string(body),
		Date:        date,
		PublishDate: parsePostDate(date),
		Tags:        normalizeTags(fm.Tags),
		CoverURL:    strings.TrimSpace(fm.CoverURL),
		Pinned:      fm.Pin,
		NoPrompt:    fm.NoPrompt,
	}, nil
}

func parsePostDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func titleFromID(id string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return cases.Title(language.English).String(words)
}

// normalizeTags trims tags, drops empties and duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	trimmed := lo.Map(tags, func(t string, _ int) string { return strings.TrimSpace(t) })
	return lo.Uniq(lo.Compact(trimmed))
}

// Posts returns every post, newest first.
func (s *ContentStore) Posts() []Post {
	return s.posts
}

// Len returns the number of posts.
func (s *ContentStore) Len() int {
	return len(s.posts)
}

// Pinned returns pinned posts in store order.
func (s *ContentStore) Pinned() []Post {
	return lo.Filter(s.posts, func(p Post, _ int) bool { return p.Pinned })
}

// Latest returns up to n posts in store order, skipping posts marked noPrompt.
func (s *ContentStore) Latest(n int) []Post {
	var out []Post
	for _, p := range s.posts {
		if len(out) >= n {
			break
		}
		if !p.NoPrompt {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the post with the given ID.
func (s *ContentStore) Get(id string) (Post, error) {
	i, ok := s.byID[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return s.posts[i], nil
}

// Body returns the raw markdown body of a post.
func (s *ContentStore) Body(id string) (string, error) {
	p, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return p.Body, nil
}

// Tags returns a sorted, deduplicated, lowercase slice of all tags.
func (s *ContentStore) Tags() []string {
	var all []string
	for _, p := range s.posts {
		all = append(all, lo.Map(p.Tags, func(t string, _ int) string { return normalizeTag(t) })...)
	}
	tags := lo.Uniq(all)
	sort.Strings(tags)
	return tags
}

// Related returns the other posts sharing at least one tag with p, in store order.
func (s *ContentStore) Related(p Post) []Post {
	tags := lo.SliceToMap(p.Tags, func(t string) (string, struct{}) { return normalizeTag(t), struct{}{} })
	delete(tags, "")
	return lo.Filter(s.posts, func(q Post, _ int) bool {
		return q.ID != p.ID && lo.ContainsBy(q.Tags, func(t string) bool {
			_, ok := tags[normalizeTag(t)]
			return ok
		})
	})
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// ByTag returns posts carrying tag, compared case-insensitively.
func (s *ContentStore) ByTag(tag string) []Post {
	want := normalizeTag(tag)
	return lo.Filter(s.posts, func(p Post, _ int) bool {
		return lo.ContainsBy(p.Tags, func(t string) bool { return normalizeTag(t) == want })
	})
}
