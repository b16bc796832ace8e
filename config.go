package blogkit

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/eringen/blogkit/webhook"
)

// SiteConfig holds all configuration for a blogkit site. It is built once by
// LoadConfig and passed by value to everything that needs it.
type SiteConfig struct {
	Site    SiteSection    `toml:"site"`
	Social  SocialLinks    `toml:"social"`
	Content ContentSection `toml:"content"`
	Feed    FeedSection    `toml:"feed"`
	Search  SearchSection  `toml:"search"`
	Payment PaymentSection `toml:"payment"`
	Sponsor SponsorSection `toml:"sponsor"`
	Server  ServerSection  `toml:"server"`
	Log     LogSection     `toml:"log"`
}

// SiteSection describes the site identity shown on every page and in the feed.
type SiteSection struct {
	Title       string `toml:"title"`                              // Site title (default "Blog")
	URL         string `toml:"url" validate:"required,url"`        // Canonical URL (default "http://localhost:3000")
	Description string `toml:"description"`                        // Homepage sentence, RSS channel description
	Nickname    string `toml:"nickname"`                           // Display name on the home cover
	Author      string `toml:"author"`                             // Legal name for copyright and feed items
	AvatarURL   string `toml:"avatar_url"`                         // Profile image
	CoverURL    string `toml:"cover_url"`                          // Homepage cover and RSS channel image
	Favicon     string `toml:"favicon"`                            // default "/favicon.ico"
	YearStart   int    `toml:"year_start"`                         // Copyright start year
	DateLocale  string `toml:"date_locale" validate:"oneof=en ar"` // Month names for display dates
	AboutText   string `toml:"about_text"`
	Location    string `toml:"location"`
}

// SocialLinks holds the author's social handles. Empty entries are not rendered.
type SocialLinks struct {
	Twitter   string `toml:"twitter"`
	Telegram  string `toml:"telegram"`
	YouTube   string `toml:"youtube"`
	Facebook  string `toml:"facebook"`
	GitHub    string `toml:"github"`
	Instagram string `toml:"instagram"`
	LinkedIn  string `toml:"linkedin"`
	Mastodon  string `toml:"mastodon" validate:"omitempty,url"`
	Email     string `toml:"email" validate:"omitempty,email"`
}

// ContentSection locates posts on disk.
type ContentSection struct {
	Dir         string `toml:"dir"`          // default "content/posts"
	LatestCount int    `toml:"latest_count"` // posts on the homepage (default 10)
}

// FeedSection controls RSS generation.
type FeedSection struct {
	Enabled   bool   `toml:"enabled"`
	MaxItems  int    `toml:"max_items"` // default 10; 0 in the file or negative means no items
	Notice    string `toml:"notice"`    // appended to every post body in the feed
	Output    string `toml:"output"`    // default "<public_dir>/rss.xml"
	Generator string `toml:"generator"`
}

// SearchSection controls the search API.
type SearchSection struct {
	MinQueryLength int `toml:"min_query_length"` // default 5
	MaxResults     int `toml:"max_results"`      // default 20
	RatePerMinute  int `toml:"rate_per_minute"`  // default 30
}

// PaymentSection configures the digital asset delivery webhook.
type PaymentSection struct {
	Enabled   bool          `toml:"enabled"`
	ButtonURL string        `toml:"button_url" validate:"omitempty,url"`
	Region    string        `toml:"region"`
	Bucket    string        `toml:"bucket" validate:"required_if=Enabled true"`
	Key       string        `toml:"key" validate:"required_if=Enabled true"`
	Sender    string        `toml:"sender" validate:"required_if=Enabled true"`
	Subject   string        `toml:"subject"`
	LinkTTL   time.Duration `toml:"link_ttl"`  // default 1h
	RetryFor  time.Duration `toml:"retry_for"` // default 30s
}

// SponsorSection lists ways to support the author.
type SponsorSection struct {
	PaypalID  string         `toml:"paypal_id"`
	PatreonID string         `toml:"patreon_id"`
	GitHub    bool           `toml:"github"`
	Crypto    []CryptoWallet `toml:"crypto"`
}

// CryptoWallet is a single wallet address shown on the about page.
type CryptoWallet struct {
	Name       string `toml:"name"`
	Address    string `toml:"address"`
	Blockchain string `toml:"blockchain"`
}

// ServerSection configures the HTTP server.
type ServerSection struct {
	Addr         string        `toml:"addr"`           // default ":3000"
	PublicDir    string        `toml:"public_dir"`     // default "public"
	PostCacheTTL time.Duration `toml:"post_cache_ttl"` // default 5m
}

// LogSection configures the logger.
type LogSection struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error off"`
}

// DefaultNotice is appended to every post in the feed.
const DefaultNotice = "\n\n---\n\n**NOTE:** Some RSS readers have limited or no support for rendering formulas and embedded media. If something looks wrong, please read the original page."

// DefaultConfig returns a config with every default applied.
func DefaultConfig() SiteConfig {
	var c SiteConfig
	c.Feed.Enabled = true
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Site.URL == "" {
		c.Site.URL = "http://localhost:3000"
	}
	c.Site.URL = strings.TrimSuffix(c.Site.URL, "/")
	if c.Site.Nickname == "" {
		c.Site.Nickname = c.Site.Title
	}
	if c.Site.Author == "" {
		c.Site.Author = c.Site.Nickname
	}
	if c.Site.Favicon == "" {
		c.Site.Favicon = "/favicon.ico"
	}
	if c.Site.YearStart == 0 {
		c.Site.YearStart = time.Now().Year()
	}
	if c.Site.DateLocale == "" {
		c.Site.DateLocale = "en"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "content/posts"
	}
	if c.Content.LatestCount == 0 {
		c.Content.LatestCount = 10
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.PublicDir == "" {
		c.Server.PublicDir = "public"
	}
	if c.Server.PostCacheTTL == 0 {
		c.Server.PostCacheTTL = 5 * time.Minute
	}
	if c.Feed.MaxItems == 0 {
		c.Feed.MaxItems = 10
	}
	if c.Feed.Notice == "" {
		c.Feed.Notice = DefaultNotice
	}
	if c.Feed.Output == "" {
		c.Feed.Output = c.Server.PublicDir + "/rss.xml"
	}
	if c.Feed.Generator == "" {
		c.Feed.Generator = "blogkit"
	}
	if c.Search.MinQueryLength == 0 {
		c.Search.MinQueryLength = 5
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 20
	}
	if c.Search.RatePerMinute == 0 {
		c.Search.RatePerMinute = 30
	}
	if c.Payment.Subject == "" {
		c.Payment.Subject = "Your purchase"
	}
	if c.Payment.LinkTTL == 0 {
		c.Payment.LinkTTL = time.Hour
	}
	if c.Payment.RetryFor == 0 {
		c.Payment.RetryFor = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LoadConfig reads the TOML file at path (a missing file yields defaults),
// applies BLOGKIT_* environment overrides, fills defaults, and validates.
func LoadConfig(path string) (SiteConfig, error) {
	cfg := SiteConfig{Feed: FeedSection{Enabled: true}}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return SiteConfig{}, fmt.Errorf("blogkit: read config %s: %w", path, err)
		default:
			md, err := toml.Decode(string(data), &cfg)
			if err != nil {
				return SiteConfig{}, fmt.Errorf("blogkit: parse config %s: %w", path, err)
			}
			// An explicit zero must survive setDefaults, which fills in 0.
			if md.IsDefined("feed", "max_items") && cfg.Feed.MaxItems <= 0 {
				cfg.Feed.MaxItems = -1
			}
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	c.Site.URL = EnvOr("BLOGKIT_URL", c.Site.URL)
	c.Server.Addr = EnvOr("BLOGKIT_ADDR", c.Server.Addr)
	c.Server.PublicDir = EnvOr("BLOGKIT_PUBLIC_DIR", c.Server.PublicDir)
	c.Content.Dir = EnvOr("BLOGKIT_CONTENT_DIR", c.Content.Dir)
	c.Log.Level = EnvOr("BLOGKIT_LOG_LEVEL", c.Log.Level)
	if v := os.Getenv("BLOGKIT_FEED_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Feed.Enabled = b
		}
	}
}

// Validate checks field constraints declared in struct tags.
func (c SiteConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("blogkit: invalid config: %w", err)
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory served under /public.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithDeliverer sets the asset deliverer used by the payment webhook.
// Without it the webhook acknowledges payments but sends nothing.
func WithDeliverer(d webhook.Deliverer) Option {
	return func(a *App) {
		a.deliverer = d
	}
}
