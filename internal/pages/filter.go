package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
)

// Reason tells why an image element did not become a page.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoSource
	ReasonDuplicate
	ReasonSelector
	ReasonDimensions
	ReasonElementKeywords
	ReasonURLKeywords
	ReasonSize
	ReasonProbeFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNoSource:
		return "no_source"
	case ReasonDuplicate:
		return "duplicate"
	case ReasonSelector:
		return "selector"
	case ReasonDimensions:
		return "dimensions"
	case ReasonElementKeywords:
		return "element_keywords"
	case ReasonURLKeywords:
		return "url_keywords"
	case ReasonSize:
		return "size"
	case ReasonProbeFailed:
		return "probe_failed"
	}
	return "unknown"
}

// MarshalText lets Reason be used as a JSON map key.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (r *Reason) UnmarshalText(b []byte) error {
	for v := ReasonNone; v <= ReasonProbeFailed; v++ {
		if v.String() == string(b) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", b)
}

// evaluate runs the filter chain for one candidate. Stages run in a fixed
// order and the first rejection wins; disabled stages pass.
func (e *Extractor) evaluate(ctx context.Context, c candidate, st *ProbeState) Reason {
	o := &e.opts
	if o.ExcludeBySelector && o.matcher != nil && c.img.ClosestMatcher(o.matcher).Length() > 0 {
		return ReasonSelector
	}
	if o.ExcludeByDimensions && tooSmall(c.img, o.MinWidth, o.MinHeight) {
		return ReasonDimensions
	}
	if o.ExcludeByElementKeywords {
		alt, _ := c.img.Attr("alt")
		title, _ := c.img.Attr("title")
		if containsKeyword(o.ElementKeywords, alt, title) {
			return ReasonElementKeywords
		}
	}
	if o.ExcludeByURLKeywords && containsKeyword(o.URLKeywords, c.url) {
		return ReasonURLKeywords
	}
	if st.SizeCheckEnabled {
		return e.checkSize(ctx, c, st)
	}
	return ReasonNone
}

// tooSmall reports whether a declared width or height is below its minimum.
// Missing or non-numeric attributes are unknown and never reject.
func tooSmall(img *goquery.Selection, minWidth, minHeight int) bool {
	if w, ok := intAttr(img, "width"); ok && w < minWidth {
		return true
	}
	if h, ok := intAttr(img, "height"); ok && h < minHeight {
		return true
	}
	return false
}

func intAttr(s *goquery.Selection, name string) (int, bool) {
	v, ok := s.Attr(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// containsKeyword reports whether any haystack contains any keyword,
// ignoring case. Keywords are expected to be folded already.
func containsKeyword(keywords []string, haystacks ...string) bool {
	if len(keywords) == 0 {
		return false
	}
	fold := cases.Fold()
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		h = fold.String(h)
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return true
			}
		}
	}
	return false
}
