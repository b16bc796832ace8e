package views

// Site holds everything about the site that appears on every page. It is
// built once from the loaded configuration.
type Site struct {
	Title       string
	URL         string
	Nickname    string
	Description string
	AvatarURL   string
	CoverURL    string
	Favicon     string
	AboutText   string
	Location    string
	Copyright   string
	Social      []SocialLink
	Sponsor     Sponsor
	PaymentURL  string // purchase button on the about page, empty hides it
	MinSearch   int
}

// SocialLink is one profile link. Icon names a glyph in the stylesheet.
type SocialLink struct {
	Name string
	Icon string
	URL  string
}

// Sponsor lists ways to support the author.
type Sponsor struct {
	PaypalURL  string
	PatreonURL string
	GitHubURL  string
	Crypto     []Wallet
}

// Wallet is a crypto address shown on the about page.
type Wallet struct {
	Name       string
	Address    string
	Blockchain string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
}

// PostSummary is a post as shown in lists.
type PostSummary struct {
	ID          string
	Title       string
	Summary     string
	Link        string
	DisplayDate string
	Tags        []string
	CoverURL    string
	Pinned      bool
}

// PostPage is a single post with its markdown body.
type PostPage struct {
	Post    PostSummary
	Body    string
	Related []PostSummary
}
