package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type rssXML struct {
	XMLName      xml.Name   `xml:"rss"`
	Version      string     `xml:"version,attr"`
	XMLNSDC      string     `xml:"xmlns:dc,attr"`
	XMLNSContent string     `xml:"xmlns:content,attr"`
	XMLNSAtom    string     `xml:"xmlns:atom,attr"`
	Channel      rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Docs          string    `xml:"docs"`
	Generator     string    `xml:"generator,omitempty"`
	Image         *rssImage `xml:"image,omitempty"`
	Copyright     string    `xml:"copyright,omitempty"`
	AtomLink      *atomLink `xml:"atom:link,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssImage struct {
	Title string `xml:"title"`
	URL   string `xml:"url"`
	Link  string `xml:"link"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

type rssItem struct {
	Title       cdata         `xml:"title"`
	Link        string        `xml:"link"`
	GUID        rssGUID       `xml:"guid"`
	PubDate     string        `xml:"pubDate"`
	Description *cdata        `xml:"description,omitempty"`
	Content     cdata         `xml:"content:encoded"`
	Author      string        `xml:"author,omitempty"`
	Creator     string        `xml:"dc:creator,omitempty"`
	Categories  []string      `xml:"category"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

// Encode writes doc to w as RSS 2.0, including the XML header.
func Encode(w io.Writer, doc *Document) error {
	feed := rssXML{
		Version:      "2.0",
		XMLNSDC:      "http://purl.org/dc/elements/1.1/",
		XMLNSContent: "http://purl.org/rss/1.0/modules/content/",
		XMLNSAtom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         xmlText(doc.Title),
			Link:          doc.Link,
			Description:   xmlText(doc.Description),
			LastBuildDate: doc.Updated.Format(time.RFC1123Z),
			Docs:          "https://validator.w3.org/feed/docs/rss2.html",
			Generator:     xmlText(doc.Generator),
			Copyright:     xmlText(doc.Copyright),
		},
	}
	if doc.Image != "" {
		feed.Channel.Image = &rssImage{Title: xmlText(doc.Title), URL: doc.Image, Link: doc.Link}
	}
	if doc.Link != "" {
		feed.Channel.AtomLink = &atomLink{
			Href: doc.Link + "rss.xml",
			Rel:  "self",
			Type: "application/rss+xml",
		}
	}
	feed.Channel.Items = make([]rssItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		item := rssItem{
			Title:      cdata{xmlText(it.Title)},
			Link:       it.URL,
			GUID:       rssGUID{IsPermaLink: true, Value: it.URL},
			PubDate:    it.Published.Format(time.RFC1123Z),
			Content:    cdata{xmlText(it.HTML)},
			Creator:    xmlText(it.Author.Name),
			Categories: make([]string, len(it.Tags)),
		}
		if it.Summary != "" {
			item.Description = &cdata{xmlText(it.Summary)}
		}
		for i, tag := range it.Tags {
			item.Categories[i] = xmlText(tag)
		}
		if it.Author.Email != "" {
			item.Author = xmlText(fmt.Sprintf("%s (%s)", it.Author.Email, it.Author.Name))
		}
		if it.Image != "" {
			item.Enclosure = &rssEnclosure{URL: it.Image, Length: "0", Type: imageType(it.Image)}
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return fmt.Errorf("feed: encode: %w", err)
	}
	return nil
}

// xmlText drops characters outside the XML 1.0 Char production; invalid
// UTF-8 becomes U+FFFD. CDATA sections are written verbatim, so they must
// not carry control characters.
func xmlText(s string) string {
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func imageType(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "image/jpeg"
	}
	if t := mime.TypeByExtension(path.Ext(u.Path)); t != "" {
		return t
	}
	return "image/jpeg"
}

// Write encodes doc to a temporary file next to dest and renames it into
// place, so readers never see a partial feed.
func Write(dest string, doc *Document) (err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("feed: create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".rss-*.xml")
	if err != nil {
		return fmt.Errorf("feed: create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()
	if err = Encode(f, doc); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("feed: close %s: %w", tmp, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("feed: chmod %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("feed: rename to %s: %w", dest, err)
	}
	return nil
}
