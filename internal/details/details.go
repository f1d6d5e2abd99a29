// Package details reads series metadata (title, author, description and
// cover) from a loaded document.
package details

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

// Details describes the series a document belongs to.
type Details struct {
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	URL         string `json:"url"`
}

// Parse prefers OpenGraph properties and falls back to plain meta tags, the
// document title and the first image.
func Parse(body []byte, docURL string) (Details, error) {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(body)); err != nil {
		return Details{}, fmt.Errorf("parse opengraph: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Details{}, fmt.Errorf("parse html: %w", err)
	}

	d := Details{
		Title:       strings.TrimSpace(og.Title),
		Description: strings.TrimSpace(og.Description),
		SiteName:    strings.TrimSpace(og.SiteName),
		Author:      metaContent(doc, "meta[name=author]"),
		URL:         docURL,
	}
	if d.Title == "" {
		d.Title = metaContent(doc, "meta[name=title]")
	}
	if d.Title == "" {
		d.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if d.Description == "" {
		d.Description = metaContent(doc, "meta[name=description]")
	}

	thumb := ""
	for _, img := range og.Images {
		if img != nil && strings.TrimSpace(img.URL) != "" {
			thumb = img.URL
			break
		}
	}
	if thumb == "" {
		thumb = metaContent(doc, "meta[name=image]")
	}
	if thumb == "" {
		thumb, _ = doc.Find("img[src]").First().Attr("src")
	}
	d.Thumbnail = resolve(docURL, strings.TrimSpace(thumb))
	return d, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

// resolve makes ref absolute against base; unresolvable refs are returned as is.
func resolve(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
