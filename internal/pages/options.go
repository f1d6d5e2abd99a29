package pages

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
)

// Defaults applied when a setting is absent or cannot be parsed.
const (
	DefaultSelector     = "nav, footer, header, aside, .comments"
	DefaultKeywords     = "avatar, icon, profile"
	DefaultMinDimension = 301
	DefaultMinSize      = 10000
)

// Value is a raw setting as persisted by the settings layer. Numbers are kept
// as text so a bad entry degrades to its default instead of failing the load.
type Value string

// UnmarshalJSON accepts both JSON strings and bare numbers.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	*v = Value(b)
	return nil
}

// Toggle pairs an enable flag with its text value. A nil Enabled means "use
// the default for this filter".
type Toggle struct {
	Enabled *bool `yaml:"enabled" json:"enabled"`
	Value   Value `yaml:"value" json:"value"`
}

// Settings is the unresolved filter configuration.
type Settings struct {
	Selector        Toggle `yaml:"selector" json:"selector"`
	ElementKeywords Toggle `yaml:"elementKeywords" json:"elementKeywords"`
	URLKeywords     Toggle `yaml:"urlKeywords" json:"urlKeywords"`
	Dimensions      struct {
		Enabled   *bool `yaml:"enabled" json:"enabled"`
		MinWidth  Value `yaml:"minWidth" json:"minWidth"`
		MinHeight Value `yaml:"minHeight" json:"minHeight"`
	} `yaml:"dimensions" json:"dimensions"`
	Size struct {
		Enabled *bool `yaml:"enabled" json:"enabled"`
		Min     Value `yaml:"min" json:"min"`
	} `yaml:"size" json:"size"`
}

// Options is a resolved, read-only snapshot of the filter configuration. One
// snapshot is used for a whole extraction run.
type Options struct {
	ExcludeBySelector bool
	Selector          string

	ExcludeByElementKeywords bool
	ElementKeywords          []string

	ExcludeByURLKeywords bool
	URLKeywords          []string

	ExcludeByDimensions bool
	MinWidth            int
	MinHeight           int

	ExcludeBySize bool
	MinSize       int64

	matcher cascadia.Selector
}

// DefaultOptions returns the options produced by empty settings.
func DefaultOptions() Options {
	return Resolve(Settings{})
}

// Resolve applies defaults and parses raw settings. It never fails: invalid
// numbers fall back to their defaults and an invalid selector falls back to
// DefaultSelector.
func Resolve(s Settings) Options {
	o := Options{
		ExcludeBySelector:        boolOr(s.Selector.Enabled, true),
		ExcludeByElementKeywords: boolOr(s.ElementKeywords.Enabled, false),
		ElementKeywords:          SplitKeywords(stringOr(s.ElementKeywords.Value, DefaultKeywords)),
		ExcludeByURLKeywords:     boolOr(s.URLKeywords.Enabled, true),
		URLKeywords:              SplitKeywords(stringOr(s.URLKeywords.Value, DefaultKeywords)),
		ExcludeByDimensions:      boolOr(s.Dimensions.Enabled, false),
		MinWidth:                 intOr(s.Dimensions.MinWidth, DefaultMinDimension),
		MinHeight:                intOr(s.Dimensions.MinHeight, DefaultMinDimension),
		ExcludeBySize:            boolOr(s.Size.Enabled, false),
		MinSize:                  int64(intOr(s.Size.Min, DefaultMinSize)),
	}

	sel := stringOr(s.Selector.Value, DefaultSelector)
	m, err := cascadia.Compile(sel)
	if err != nil {
		log.Warn().Err(err).Str("selector", sel).Msg("invalid exclude selector; using default")
		sel = DefaultSelector
		m = cascadia.MustCompile(DefaultSelector)
	}
	o.Selector = sel
	o.matcher = m
	return o
}

// SplitKeywords splits a comma separated list into trimmed, case-folded
// keywords. Empty entries and repeats are dropped.
func SplitKeywords(raw string) []string {
	fold := cases.Fold()
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		k := fold.String(strings.TrimSpace(p))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func stringOr(v Value, def string) string {
	if s := strings.TrimSpace(string(v)); s != "" {
		return s
	}
	return def
}

func intOr(v Value, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		return def
	}
	return n
}
