package feed

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/eringen/blogkit/markdown"
)

var fixedNow = time.Date(2024, 7, 1, 15, 30, 0, 0, time.UTC)

func newTestRenderer(t *testing.T, opts Options) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&logs)
	if opts.BaseURL == "" {
		opts.BaseURL = "https://blog.example.com"
	}
	if opts.OutputPath == "" {
		opts.OutputPath = filepath.Join(t.TempDir(), "public", "rss.xml")
	}
	r := New(opts, markdown.New(markdown.Options{}), nil, logger)
	r.Now = func() time.Time { return fixedNow }
	return r, &logs
}

func samplePosts() []Source {
	return []Source{
		{ID: "summer", Title: "Summer", Body: "# Summer\n\nHot.", Date: "2024-06-15", Tags: []string{"go"}},
		{ID: "new-year", Title: "New Year", Body: "Fresh start.", Date: "2024-01-01"},
		{ID: "eve", Title: "Eve", Body: "Last day.", Date: "2023-12-31"},
	}
}

func TestGenerateSelectsFirstMaxItems(t *testing.T) {
	r, _ := newTestRenderer(t, Options{MaxItems: 2})
	doc, err := r.Generate(samplePosts())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(doc.Items))
	}
	wantURLs := []string{
		"https://blog.example.com/blog/summer/",
		"https://blog.example.com/blog/new-year/",
	}
	for i, want := range wantURLs {
		if doc.Items[i].URL != want {
			t.Errorf("Items[%d].URL = %q, want %q", i, doc.Items[i].URL, want)
		}
	}
	if got := doc.Items[0].Published; !got.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Items[0].Published = %v, want 2024-06-15", got)
	}
}

func TestGenerateItemCount(t *testing.T) {
	tests := []struct {
		maxItems int
		want     int
	}{
		{0, 0},
		{-1, 0},
		{1, 1},
		{3, 3},
		{10, 3},
	}
	for _, tt := range tests {
		r, _ := newTestRenderer(t, Options{MaxItems: tt.maxItems})
		doc, err := r.Generate(samplePosts())
		if err != nil {
			t.Fatalf("Generate(max %d) failed: %v", tt.maxItems, err)
		}
		if len(doc.Items) != tt.want {
			t.Errorf("MaxItems %d: len(Items) = %d, want %d", tt.maxItems, len(doc.Items), tt.want)
		}
	}
}

func TestGenerateEmptyStore(t *testing.T) {
	r, _ := newTestRenderer(t, Options{MaxItems: 10})
	doc, err := r.Generate(nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(doc.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(doc.Items))
	}
	if doc.Link != "https://blog.example.com/" {
		t.Errorf("Link = %q", doc.Link)
	}
}

func TestGenerateAppendsNoticeAndSanitizes(t *testing.T) {
	r, _ := newTestRenderer(t, Options{MaxItems: 1, Notice: "\n\n**NOTE:** read online"})
	posts := []Source{{
		ID:   "p",
		Body: "<div class=\"box\">hi</div>\n\n<script>alert(1)</script>\n\n[ext](https://other.org)",
		Date: "2024-01-01",
	}}
	doc, err := r.Generate(posts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	html := doc.Items[0].HTML
	for _, bad := range []string{"<script", "<style", "class="} {
		if strings.Contains(html, bad) {
			t.Errorf("item HTML contains %q: %q", bad, html)
		}
	}
	if !strings.Contains(html, "<strong>NOTE:</strong>") {
		t.Errorf("notice should be rendered into the body: %q", html)
	}
	if !strings.Contains(html, `target="_blank"`) {
		t.Errorf("external link should be marked: %q", html)
	}
}

func TestGenerateMalformedDateUsesToday(t *testing.T) {
	r, logs := newTestRenderer(t, Options{MaxItems: 1})
	doc, err := r.Generate([]Source{{ID: "bad", Body: "x", Date: "2024-13"}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if got := doc.Items[0].Published; !got.Equal(want) {
		t.Errorf("Published = %v, want %v", got, want)
	}
	if !strings.Contains(logs.String(), "malformed date") {
		t.Errorf("malformed date should be logged, got %q", logs.String())
	}
}

func TestGenerateResolvesImages(t *testing.T) {
	r, _ := newTestRenderer(t, Options{MaxItems: 2, Image: "/cover.png", Favicon: "/favicon.ico"})
	doc, err := r.Generate([]Source{
		{ID: "a", Body: "a", Date: "2024-01-02", CoverURL: "/img/a.png"},
		{ID: "b", Body: "b", Date: "2024-01-01", CoverURL: "   "},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if doc.Image != "https://blog.example.com/cover.png" {
		t.Errorf("Image = %q", doc.Image)
	}
	if doc.Favicon != "https://blog.example.com/favicon.ico" {
		t.Errorf("Favicon = %q", doc.Favicon)
	}
	if doc.Items[0].Image != "https://blog.example.com/img/a.png" {
		t.Errorf("Items[0].Image = %q", doc.Items[0].Image)
	}
	if doc.Items[1].Image != "" {
		t.Errorf("Items[1].Image = %q, want empty", doc.Items[1].Image)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render([]byte) ([]byte, error) {
	return nil, errors.New("bad markdown")
}

func TestGenerateRenderFailureAborts(t *testing.T) {
	r, _ := newTestRenderer(t, Options{MaxItems: 3})
	r.Markdown = failingRenderer{}
	doc, err := r.Generate(samplePosts())
	if err == nil {
		t.Fatal("Generate should fail when rendering fails")
	}
	if doc != nil {
		t.Error("no document should be returned on failure")
	}
	if !strings.Contains(err.Error(), "feed: render summer") {
		t.Errorf("error = %q, want it to name the post", err)
	}
}

func TestPublishWritesFile(t *testing.T) {
	r, _ := newTestRenderer(t, Options{MaxItems: 2, Title: "My Blog"})
	if err := r.Publish(samplePosts()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	data, err := os.ReadFile(r.Options.OutputPath)
	if err != nil {
		t.Fatalf("reading feed: %v", err)
	}
	out := string(data)
	if strings.Count(out, "<item>") != 2 {
		t.Errorf("feed should contain 2 items:\n%s", out)
	}
	if !strings.Contains(out, "<title>My Blog</title>") {
		t.Errorf("feed missing channel title:\n%s", out)
	}
	entries, _ := os.ReadDir(filepath.Dir(r.Options.OutputPath))
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want only rss.xml", len(entries))
	}
}

func TestPublishWriteFailureIsBestEffort(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, logs := newTestRenderer(t, Options{MaxItems: 2, OutputPath: filepath.Join(blocker, "rss.xml")})
	if err := r.Publish(samplePosts()); err != nil {
		t.Fatalf("Publish should swallow write errors, got %v", err)
	}
	if !strings.Contains(logs.String(), "skipping") {
		t.Errorf("write failure should be logged, got %q", logs.String())
	}
}

func TestPublishRenderFailureReturned(t *testing.T) {
	r, _ := newTestRenderer(t, Options{MaxItems: 1})
	r.Markdown = failingRenderer{}
	if err := r.Publish(samplePosts()); err == nil {
		t.Fatal("Publish should return render errors")
	}
	if _, err := os.Stat(r.Options.OutputPath); !os.IsNotExist(err) {
		t.Error("no file should be written when rendering fails")
	}
}
