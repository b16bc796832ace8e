package blogkit

import (
	"testing"
	"time"
)

func TestCopyright(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		start    int
		expected string
	}{
		{2020, "Copyright © 2020-2024 Jane"},
		{2024, "Copyright © 2024 Jane"},
		{2030, "Copyright © 2024 Jane"},
		{0, "Copyright © 2024 Jane"},
	}
	for _, tt := range tests {
		cfg := SiteConfig{Site: SiteSection{Author: "Jane", YearStart: tt.start}}
		if got := Copyright(cfg, now); got != tt.expected {
			t.Errorf("Copyright(start=%d) = %q, want %q", tt.start, got, tt.expected)
		}
	}
}

func TestSocialLinkList(t *testing.T) {
	links := SocialLinkList(SocialLinks{
		Twitter:  "@jane",
		GitHub:   "jane",
		Mastodon: "https://mastodon.social/@jane",
		Email:    "jane@example.com",
	})
	want := map[string]string{
		"Twitter":  "https://x.com/jane",
		"GitHub":   "https://github.com/jane",
		"Mastodon": "https://mastodon.social/@jane",
		"Email":    "mailto:jane@example.com",
	}
	if len(links) != len(want) {
		t.Fatalf("got %d links, want %d: %v", len(links), len(want), links)
	}
	for _, l := range links {
		if want[l.Name] != l.URL {
			t.Errorf("%s URL = %q, want %q", l.Name, l.URL, want[l.Name])
		}
	}
	if got := SocialLinkList(SocialLinks{}); len(got) != 0 {
		t.Errorf("empty handles should produce no links, got %v", got)
	}
}

func TestViewSiteSponsor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Social.GitHub = "jane"
	cfg.Sponsor = SponsorSection{
		PaypalID: "janepp",
		GitHub:   true,
		Crypto:   []CryptoWallet{{Name: "BTC", Address: "bc1q", Blockchain: "bitcoin"}},
	}
	site := ViewSite(cfg)
	if site.Sponsor.PaypalURL != "https://www.paypal.me/janepp" {
		t.Errorf("PaypalURL = %q", site.Sponsor.PaypalURL)
	}
	if site.Sponsor.GitHubURL != "https://github.com/sponsors/jane" {
		t.Errorf("GitHubURL = %q", site.Sponsor.GitHubURL)
	}
	if site.Sponsor.PatreonURL != "" {
		t.Errorf("PatreonURL = %q, want empty", site.Sponsor.PatreonURL)
	}
	if len(site.Sponsor.Crypto) != 1 || site.Sponsor.Crypto[0].Address != "bc1q" {
		t.Errorf("Crypto = %v", site.Sponsor.Crypto)
	}
	if site.MinSearch != 5 {
		t.Errorf("MinSearch = %d, want 5", site.MinSearch)
	}
}

func TestSummary(t *testing.T) {
	p := Post{ID: "a b", Title: "A", Date: "2024-06-15", Tags: []string{"go"}}
	s := Summary(p, EnglishMonths)
	if s.DisplayDate != "15 June, 2024" {
		t.Errorf("DisplayDate = %q", s.DisplayDate)
	}
	if s.Link != "/blog/a%20b/" {
		t.Errorf("Link = %q", s.Link)
	}
}
