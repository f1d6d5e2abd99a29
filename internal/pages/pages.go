// Package pages extracts the reading-order list of content images from an
// arbitrary HTML document. Every img element is resolved to one absolute URL,
// deduplicated, and passed through a chain of exclusion filters that drop
// navigation chrome, avatars, icons and other non-content images.
package pages

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog/log"
)

// Page is one image of a chapter. Index is the position of the source img
// element among all img elements of the document, so indexes of surviving
// pages are increasing but not necessarily contiguous.
type Page struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// Summary describes what happened to the img elements of one run.
type Summary struct {
	Images      int            `json:"images"`
	Pages       int            `json:"pages"`
	Rejected    map[Reason]int `json:"rejected,omitempty"`
	BreakerOpen bool           `json:"breaker_open"`
}

func (s *Summary) reject(r Reason) {
	if s.Rejected == nil {
		s.Rejected = make(map[Reason]int)
	}
	s.Rejected[r]++
}

// Extractor turns documents into page lists using one options snapshot.
type Extractor struct {
	opts   Options
	prober SizeProber
}

// NewExtractor returns an extractor for opts. prober may be nil, in which
// case size filtering is skipped even when enabled.
func NewExtractor(opts Options, prober SizeProber) *Extractor {
	if opts.matcher == nil && opts.ExcludeBySelector {
		m, err := cascadia.Compile(opts.Selector)
		if err != nil {
			log.Warn().Err(err).Str("selector", opts.Selector).Msg("invalid exclude selector; using default")
			opts.Selector = DefaultSelector
			m = cascadia.MustCompile(DefaultSelector)
		}
		opts.matcher = m
	}
	if opts.ExcludeBySize && prober == nil {
		log.Warn().Msg("size filter enabled without a prober; skipping size checks")
	}
	return &Extractor{opts: opts, prober: prober}
}

// Options returns the snapshot the extractor was built with.
func (e *Extractor) Options() Options {
	return e.opts
}

// ExtractHTML parses body and extracts its pages. baseURL is the address the
// document was fetched from.
func (e *Extractor) ExtractHTML(ctx context.Context, body []byte, baseURL string) ([]Page, Summary, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, Summary{}, fmt.Errorf("parse html: %w", err)
	}
	pages, sum := e.Extract(ctx, doc, baseURL)
	return pages, sum, nil
}

// Extract walks the img elements of doc in document order and returns the
// ones that pass every enabled filter. Candidates are evaluated one at a time;
// the only blocking call is the optional size probe.
func (e *Extractor) Extract(ctx context.Context, doc *goquery.Document, baseURL string) ([]Page, Summary) {
	base := documentBase(doc, baseURL)
	state := &ProbeState{SizeCheckEnabled: e.opts.ExcludeBySize && e.prober != nil}
	seen := make(map[string]struct{})
	pages := make([]Page, 0)
	var sum Summary

	doc.Find("img").Each(func(i int, img *goquery.Selection) {
		sum.Images++
		u, ok := resolveSource(img, base)
		if !ok {
			sum.reject(ReasonNoSource)
			return
		}
		if _, dup := seen[u]; dup {
			sum.reject(ReasonDuplicate)
			return
		}
		seen[u] = struct{}{}

		c := candidate{index: i, url: u, img: img}
		if r := e.evaluate(ctx, c, state); r != ReasonNone {
			log.Debug().Int("index", i).Str("url", u).Stringer("reason", r).Msg("image excluded")
			sum.reject(r)
			if r == ReasonProbeFailed {
				sum.BreakerOpen = true
			}
			return
		}
		pages = append(pages, Page{Index: i, URL: u})
	})

	sum.Pages = len(pages)
	return pages, sum
}
