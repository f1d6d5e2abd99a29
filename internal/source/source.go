// Package source turns a user query into a loadable entry and the entry's
// stored chapter addresses into a chapter list.
package source

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotURL is returned when a query does not look like a web address.
var ErrNotURL = errors.New("query is not a URL")

// Optional scheme, dot separated labels, a 2-6 letter final label, optional path.
var urlPattern = regexp.MustCompile(`^(?:https?://)?(?:[\w-]+\.)+[a-z]{2,6}(?:/\S*)?$`)

// PlaceholderTitle is shown for an entry until its document has been loaded.
const PlaceholderTitle = "Click to load"

// Entry is a search result. Chapters holds the comma separated chapter
// addresses; a fresh entry has exactly one, its own URL.
type Entry struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Chapters string `json:"chapters"`
}

// Chapter is one loadable document of an entry.
type Chapter struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Validate reports whether query is acceptable as a web address.
func Validate(query string) error {
	if !urlPattern.MatchString(query) {
		return fmt.Errorf("%w: %q", ErrNotURL, query)
	}
	return nil
}

// Normalize prefixes http:// to a bare address.
func Normalize(query string) string {
	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		return query
	}
	return "http://" + query
}

// Search validates query and returns the single entry it designates.
func Search(query string) (Entry, error) {
	if err := Validate(query); err != nil {
		return Entry{}, err
	}
	u := Normalize(query)
	return Entry{Title: PlaceholderTitle, URL: u, Chapters: u}, nil
}

// Chapters lists the addresses stored in chapters, newest first. Chapter
// names count from one in storage order.
func Chapters(chapters string) []Chapter {
	if strings.TrimSpace(chapters) == "" {
		return []Chapter{}
	}
	parts := strings.Split(chapters, ",")
	out := make([]Chapter, len(parts))
	for i, p := range parts {
		out[len(parts)-1-i] = Chapter{
			Name: fmt.Sprintf("Chapter %d", i+1),
			URL:  strings.TrimSpace(p),
		}
	}
	return out
}
