package blogkit

import (
	"fmt"
	"strings"
	"time"

	"github.com/eringen/blogkit/views"
)

// Copyright returns the copyright line shown in the footer and the feed.
func Copyright(cfg SiteConfig, now time.Time) string {
	if cfg.Site.YearStart <= 0 || cfg.Site.YearStart >= now.Year() {
		return fmt.Sprintf("Copyright © %d %s", now.Year(), cfg.Site.Author)
	}
	return fmt.Sprintf("Copyright © %d-%d %s", cfg.Site.YearStart, now.Year(), cfg.Site.Author)
}

// SocialLinkList expands configured handles into profile URLs, skipping
// empty ones.
func SocialLinkList(s SocialLinks) []views.SocialLink {
	var links []views.SocialLink
	add := func(name, icon, prefix, handle string) {
		handle = strings.TrimSpace(handle)
		if handle == "" {
			return
		}
		if strings.HasPrefix(handle, "https://") || strings.HasPrefix(handle, "http://") {
			links = append(links, views.SocialLink{Name: name, Icon: icon, URL: handle})
			return
		}
		links = append(links, views.SocialLink{Name: name, Icon: icon, URL: prefix + strings.TrimPrefix(handle, "@")})
	}
	add("Twitter", "twitter", "https://x.com/", s.Twitter)
	add("Telegram", "telegram", "https://t.me/", s.Telegram)
	add("YouTube", "youtube", "https://youtube.com/", s.YouTube)
	add("Facebook", "facebook", "https://facebook.com/", s.Facebook)
	add("GitHub", "github", "https://github.com/", s.GitHub)
	add("Instagram", "instagram", "https://instagram.com/", s.Instagram)
	add("LinkedIn", "linkedin", "https://www.linkedin.com/in/", s.LinkedIn)
	add("Mastodon", "mastodon", "", s.Mastodon)
	if s.Email != "" {
		links = append(links, views.SocialLink{Name: "Email", Icon: "mail", URL: "mailto:" + s.Email})
	}
	return links
}

// ViewSite builds the site-wide view model from cfg.
func ViewSite(cfg SiteConfig) views.Site {
	sponsor := views.Sponsor{}
	if cfg.Sponsor.PaypalID != "" {
		sponsor.PaypalURL = "https://www.paypal.me/" + cfg.Sponsor.PaypalID
	}
	if cfg.Sponsor.PatreonID != "" {
		sponsor.PatreonURL = "https://www.patreon.com/" + cfg.Sponsor.PatreonID
	}
	if cfg.Sponsor.GitHub && cfg.Social.GitHub != "" {
		sponsor.GitHubURL = "https://github.com/sponsors/" + cfg.Social.GitHub
	}
	for _, w := range cfg.Sponsor.Crypto {
		sponsor.Crypto = append(sponsor.Crypto, views.Wallet{Name: w.Name, Address: w.Address, Blockchain: w.Blockchain})
	}
	return views.Site{
		Title:       cfg.Site.Title,
		URL:         cfg.Site.URL,
		Nickname:    cfg.Site.Nickname,
		Description: cfg.Site.Description,
		AvatarURL:   cfg.Site.AvatarURL,
		CoverURL:    cfg.Site.CoverURL,
		Favicon:     cfg.Site.Favicon,
		AboutText:   cfg.Site.AboutText,
		Location:    cfg.Site.Location,
		Copyright:   Copyright(cfg, time.Now()),
		Social:      SocialLinkList(cfg.Social),
		Sponsor:     sponsor,
		PaymentURL:  cfg.Payment.ButtonURL,
		MinSearch:   cfg.Search.MinQueryLength,
	}
}

// Summary converts a post to its list view, with the date formatted by months.
func Summary(p Post, months MonthNames) views.PostSummary {
	return views.PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Summary:     p.Summary,
		Link:        p.Link(),
		DisplayDate: NormalizeDate(p.Date, months),
		Tags:        p.Tags,
		CoverURL:    p.CoverURL,
		Pinned:      p.Pinned,
	}
}

// Summaries converts posts to list views.
func Summaries(posts []Post, months MonthNames) []views.PostSummary {
	out := make([]views.PostSummary, len(posts))
	for i, p := range posts {
		out[i] = Summary(p, months)
	}
	return out
}
