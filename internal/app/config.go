package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/anyweb/internal/pages"
)

// Defaults shared by flag parsing and file/env layering. A field still at
// its default counts as unset when a lower layer supplies a value.
const (
	DefaultUserAgent   = "anyweb/1.0 (+https://github.com/hyperifyio/anyweb)"
	DefaultTimeout     = 15 * time.Second
	DefaultMaxAttempts = 2
	DefaultCacheDir    = ".anyweb-cache"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Query is the page address as typed by the user.
	Query string
	// OutputPath receives the chapter manifest. Empty or "-" means stdout.
	OutputPath string

	// HTTP
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	NoCache          bool

	Verbose bool

	// Filters is the unresolved filter configuration; it is resolved once
	// per run.
	Filters pages.Settings
}

// FilterNames lists the filter stages that can be toggled by name.
var FilterNames = []string{"selector", "elementKeywords", "urlKeywords", "dimensions", "size"}

// ErrUnknownFilter is returned for a filter name not in FilterNames.
var ErrUnknownFilter = errors.New("unknown filter")

// SetFilters sets the enabled state of each named filter. Names are matched
// without regard to case; blank entries are ignored.
func SetFilters(s *pages.Settings, names []string, enabled bool) error {
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		v := enabled
		switch strings.ToLower(name) {
		case "selector":
			s.Selector.Enabled = &v
		case "elementkeywords":
			s.ElementKeywords.Enabled = &v
		case "urlkeywords":
			s.URLKeywords.Enabled = &v
		case "dimensions":
			s.Dimensions.Enabled = &v
		case "size":
			s.Size.Enabled = &v
		default:
			return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFilter, name, strings.Join(FilterNames, ", "))
		}
	}
	return nil
}

// SplitList splits a comma separated flag value, dropping blank entries.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ValidateConfig performs minimal validation of required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Query) == "" {
		return errors.New("config: query is required")
	}
	if cfg.Timeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.MaxAttempts < 0 {
		return errors.New("config: negative max attempts is not allowed")
	}
	return nil
}
