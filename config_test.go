package blogkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eringen/blogkit/markdown"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogkit.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Site.Title != "Blog" || cfg.Site.URL != "http://localhost:3000" {
		t.Errorf("unexpected site defaults: %+v", cfg.Site)
	}
	if !cfg.Feed.Enabled || cfg.Feed.MaxItems != 10 || cfg.Feed.Output != "public/rss.xml" {
		t.Errorf("unexpected feed defaults: %+v", cfg.Feed)
	}
	if !strings.HasPrefix(cfg.Feed.Notice, "\n\n---\n\n") {
		t.Errorf("default notice should start with a rule, got %q", cfg.Feed.Notice)
	}
	if cfg.Search.MinQueryLength != 5 || cfg.Search.MaxResults != 20 {
		t.Errorf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Server.PostCacheTTL != 5*time.Minute {
		t.Errorf("PostCacheTTL = %v, want 5m", cfg.Server.PostCacheTTL)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[site]
title = "Notes"
url = "https://notes.example.com/"
nickname = "jd"
date_locale = "ar"

[social]
github = "jd"
email = "jd@example.com"

[feed]
max_items = 3

[server]
public_dir = "static"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Site.URL != "https://notes.example.com" {
		t.Errorf("URL = %q, trailing slash should be trimmed", cfg.Site.URL)
	}
	if cfg.Site.Author != "jd" {
		t.Errorf("Author = %q, want nickname fallback", cfg.Site.Author)
	}
	if cfg.Feed.MaxItems != 3 || cfg.Feed.Output != "static/rss.xml" {
		t.Errorf("unexpected feed section: %+v", cfg.Feed)
	}
	if cfg.Social.GitHub != "jd" {
		t.Errorf("GitHub = %q", cfg.Social.GitHub)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("BLOGKIT_URL", "https://env.example.com")
	t.Setenv("BLOGKIT_ADDR", ":9000")
	t.Setenv("BLOGKIT_FEED_ENABLED", "false")

	cfg, err := LoadConfig(writeConfig(t, "[site]\nurl = \"https://file.example.com\"\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Site.URL != "https://env.example.com" {
		t.Errorf("URL = %q, env should win", cfg.Site.URL)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Feed.Enabled {
		t.Error("feed should be disabled by env")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"bad toml", "[site\n"},
		{"bad locale", "[site]\ndate_locale = \"fr\"\n"},
		{"bad url", "[site]\nurl = \"not a url\"\n"},
		{"payment without bucket", "[payment]\nenabled = true\nkey = \"a.zip\"\nsender = \"me@example.com\"\n"},
		{"bad email", "[social]\nemail = \"nope\"\n"},
		{"bad log level", "[log]\nlevel = \"loud\"\n"},
	}
	for _, tt := range tests {
		if _, err := LoadConfig(writeConfig(t, tt.config)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("BLOGKIT_TEST_VALUE", "set")
	if got := EnvOr("BLOGKIT_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("EnvOr = %q, want set", got)
	}
	if got := EnvOr("BLOGKIT_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("EnvOr = %q, want fallback", got)
	}
}

func TestLoadConfigExplicitZeroMaxItems(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[feed]\nmax_items = 0\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Feed.MaxItems > 0 {
		t.Fatalf("MaxItems = %d, explicit zero should not become the default", cfg.Feed.MaxItems)
	}
	cfg.setDefaults()
	if cfg.Feed.MaxItems > 0 {
		t.Errorf("MaxItems = %d after setDefaults, want non-positive", cfg.Feed.MaxItems)
	}

	store, err := LoadContent(setupContentDir(t))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := NewFeedRenderer(cfg, markdown.New(markdown.Options{}), NewLogger("test", "off")).Generate(FeedSources(store.Posts()))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(doc.Items) != 0 {
		t.Errorf("got %d feed items, want 0", len(doc.Items))
	}
}

func TestLoadConfigOmittedMaxItemsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "[feed]\nenabled = true\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Feed.MaxItems != 10 {
		t.Errorf("MaxItems = %d, want 10", cfg.Feed.MaxItems)
	}
}
