package blogkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubDeliverer struct {
	mu     sync.Mutex
	emails []string
}

func (d *stubDeliverer) Deliver(_ context.Context, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emails = append(d.emails, email)
	return nil
}

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	cfg := testConfig(t)
	opts = append([]Option{WithLogger(NewLogger("test", "off"))}, opts...)
	a := New(cfg, opts...)
	if err := a.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(a *App, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	a := newTestApp(t)
	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/", http.StatusOK, "Summer"},
		{"/posts/", http.StatusOK, "Eve"},
		{"/blog/summer/", http.StatusOK, "It was hot."},
		{"/blog/summer/", http.StatusOK, "15 June, 2024"},
		{"/blog/missing/", http.StatusNotFound, "404"},
		{"/tags/go/", http.StatusOK, "New Year"},
		{"/tags/nothing/", http.StatusNotFound, "404"},
		{"/about/", http.StatusOK, "About"},
		{"/search/?q=summer", http.StatusOK, "/blog/summer/"},
		{"/search/?q=abc", http.StatusOK, "at least 5"},
		{"/search/?q=nomatches", http.StatusOK, "No posts match"},
		{"/robots.txt", http.StatusOK, "Sitemap: https://example.com/sitemap.xml"},
		{"/sitemap.xml", http.StatusOK, "<loc>https://example.com/blog/summer/</loc>"},
		{"/rss.xml", http.StatusOK, "https://example.com/blog/summer/"},
		{"/public/blogkit.css", http.StatusOK, ""},
	}
	for _, tt := range tests {
		rec := serve(a, http.MethodGet, tt.path, "")
		if rec.Code != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.status)
			continue
		}
		if !strings.Contains(rec.Body.String(), tt.contains) {
			t.Errorf("GET %s body missing %q", tt.path, tt.contains)
		}
	}
}

func TestRedirects(t *testing.T) {
	a := newTestApp(t)
	tests := []struct {
		path     string
		location string
	}{
		{"/blog/", "/posts/"},
		{"/posts", "/posts/"},
		{"/blog/summer", "/blog/summer/"},
	}
	for _, tt := range tests {
		rec := serve(a, http.MethodGet, tt.path, "")
		if rec.Code != http.StatusMovedPermanently {
			t.Errorf("GET %s status = %d, want 301", tt.path, rec.Code)
			continue
		}
		if loc := rec.Header().Get("Location"); loc != tt.location {
			t.Errorf("GET %s Location = %q, want %q", tt.path, loc, tt.location)
		}
	}
}

func TestFeedHeaders(t *testing.T) {
	a := newTestApp(t)
	rec := serve(a, http.MethodGet, "/rss.xml", "")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestFeedFallsBackWhenFileMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Feed.Enabled = false
	a := New(cfg, WithLogger(NewLogger("test", "off")))
	if err := a.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer a.Close()

	rec := serve(a, http.MethodGet, "/rss.xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<rss") {
		t.Errorf("expected a generated feed, got %q", rec.Body.String())
	}

	first := a.feedDoc
	if first == nil {
		t.Fatal("generated feed should be cached")
	}
	if rec := serve(a, http.MethodGet, "/rss.xml", ""); rec.Code != http.StatusOK {
		t.Fatalf("second request status = %d", rec.Code)
	}
	if a.feedDoc != first {
		t.Error("feed regenerated although content did not change")
	}

	a.Cache.Invalidate()
	if rec := serve(a, http.MethodGet, "/rss.xml", ""); rec.Code != http.StatusOK {
		t.Fatalf("request after reload status = %d", rec.Code)
	}
	if a.feedDoc == first {
		t.Error("feed should be regenerated after content reload")
	}
}

func TestSearchAPI(t *testing.T) {
	a := newTestApp(t)

	rec := serve(a, http.MethodGet, "/api/search/summer", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var hits []struct {
		ID    string   `json:"id"`
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hits); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "summer" {
		t.Errorf("hits = %+v", hits)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}

	if rec := serve(a, http.MethodGet, "/api/search/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("short query status = %d, want 400", rec.Code)
	}
	rec = serve(a, http.MethodGet, "/api/search/zzzzzz", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("no-match response = %d %q, want 200 []", rec.Code, rec.Body.String())
	}
}

func TestWebhookRoutes(t *testing.T) {
	d := &stubDeliverer{}
	cfg := testConfig(t)
	cfg.Payment.Enabled = true
	a := New(cfg, WithLogger(NewLogger("test", "off")), WithDeliverer(d))
	if err := a.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer a.Close()

	rec := serve(a, http.MethodGet, "/api/webhook", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}

	rec = serve(a, http.MethodPost, "/api/webhook", `{"payment_status":"confirmed","purchase_data":{"email":"buyer@example.com"}}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success"`) {
		t.Errorf("POST = %d %q", rec.Code, rec.Body.String())
	}
	rec = serve(a, http.MethodPost, "/api/webhook", `{"payment_status":"pending","purchase_data":{"email":"other@example.com"}}`)
	if rec.Code != http.StatusOK {
		t.Errorf("pending POST status = %d, want 200", rec.Code)
	}

	if len(d.emails) != 1 || d.emails[0] != "buyer@example.com" {
		t.Errorf("delivered to %v, want [buyer@example.com]", d.emails)
	}
}

func TestWebhookDisabledPaymentSkipsDelivery(t *testing.T) {
	d := &stubDeliverer{}
	a := newTestApp(t, WithDeliverer(d))

	rec := serve(a, http.MethodPost, "/api/webhook", `{"payment_status":"confirmed","purchase_data":{"email":"buyer@example.com"}}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(d.emails) != 0 {
		t.Errorf("payment disabled, but delivered to %v", d.emails)
	}
}

func TestCustomRoutes(t *testing.T) {
	a := newTestApp(t, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/hello/", func(c echo.Context) error {
			return c.String(http.StatusOK, "hi")
		})
	}))
	rec := serve(a, http.MethodGet, "/hello/", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "hi" {
		t.Errorf("custom route = %d %q", rec.Code, rec.Body.String())
	}
}
