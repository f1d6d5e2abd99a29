package pages

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// sourceAttributes lists the attributes tried, in order, when resolving an
// image URL. Lazy-loading scripts park the real source in data-* attributes.
var sourceAttributes = []string{
	"src",
	"data-src",
	"data-original",
	"data-lazy",
	"data-img",
	"data-image",
	"data-thumb",
	"data-hi-res-src",
}

// candidate is an image element with its resolved URL, before filtering.
// index is the element's position among all img elements of the document.
type candidate struct {
	index int
	url   string
	img   *goquery.Selection
}

// resolveSource returns the first attribute of img that resolves to an
// absolute http(s) URL.
func resolveSource(img *goquery.Selection, base *url.URL) (string, bool) {
	for _, attr := range sourceAttributes {
		if u, ok := absoluteURL(img, attr, base); ok {
			return u, true
		}
	}
	return "", false
}

func absoluteURL(s *goquery.Selection, attr string, base *url.URL) (string, bool) {
	raw, ok := s.Attr(attr)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if !isHTTPScheme(ref) || ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}

// documentBase returns the URL relative references resolve against: the
// document's <base href> if present, otherwise docURL.
func documentBase(doc *goquery.Document, docURL string) *url.URL {
	base, err := url.Parse(strings.TrimSpace(docURL))
	if err != nil || docURL == "" {
		base = nil
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			if base != nil {
				return base.ResolveReference(ref)
			}
			if ref.IsAbs() {
				return ref
			}
		}
	}
	return base
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
