package feed

import (
	"net/url"
	"strings"
)

// ResolveURL turns a possibly relative reference into an absolute URL
// against base. When raw holds several whitespace-separated tokens, the
// first one that looks like a URL or a rooted path is used. It returns ""
// for empty input or anything that does not resolve to an absolute URL.
func ResolveURL(base, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	candidate := trimmed
	for _, tok := range strings.Fields(trimmed) {
		if strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://") || strings.HasPrefix(tok, "/") {
			candidate = tok
			break
		}
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		if ref.Host == "" {
			return ""
		}
		return ref.String()
	}
	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || !b.IsAbs() || b.Host == "" {
		return ""
	}
	return b.ResolveReference(ref).String()
}
