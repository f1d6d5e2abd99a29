package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/anyweb/internal/cache"
	"github.com/hyperifyio/anyweb/internal/details"
	"github.com/hyperifyio/anyweb/internal/fetch"
	"github.com/hyperifyio/anyweb/internal/pages"
	"github.com/hyperifyio/anyweb/internal/source"
)

// ErrNoPages is returned when a document yields zero pages after filtering.
// The manifest is still written.
var ErrNoPages = errors.New("no pages found")

type App struct {
	cfg       Config
	client    *fetch.Client
	httpCache *cache.HTTPCache
	stdout    io.Writer
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, stdout: os.Stdout}

	if cfg.CacheDir != "" && !cfg.NoCache {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
			if err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Dur("max_age", cfg.CacheMaxAge).Msg("purged cache entries")
			}
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}

	a.client = &fetch.Client{
		HTTPClient:        newHTTPClient(cfg.Timeout),
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
		Cache:             a.httpCache,
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Run loads the document the query designates and writes its chapter
// manifest.
func (a *App) Run(ctx context.Context) error {
	entry, err := source.Search(a.cfg.Query)
	if err != nil {
		return err
	}
	log.Info().Str("url", entry.URL).Msg("loading document")

	body, contentType, err := a.client.Get(ctx, entry.URL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", entry.URL, err)
	}
	body = toUTF8(body, contentType)

	m := newManifest(a.cfg.Query, entry)

	d, err := details.Parse(body, entry.URL)
	if err != nil {
		log.Warn().Err(err).Msg("details unavailable; using placeholder title")
		d = details.Details{Title: entry.Title, URL: entry.URL}
	}
	m.Details = d

	opts := pages.Resolve(a.cfg.Filters)
	ex := pages.NewExtractor(opts, a.client)
	m.Filters = describeFilters(ex.Options())

	list, sum, err := ex.ExtractHTML(ctx, body, entry.URL)
	if err != nil {
		return fmt.Errorf("extract pages: %w", err)
	}
	m.Pages = list
	m.Summary = sum

	if err := writeManifest(a.cfg.OutputPath, a.stdout, m); err != nil {
		return err
	}
	log.Info().
		Str("run_id", m.RunID).
		Str("title", d.Title).
		Int("images", sum.Images).
		Int("pages", sum.Pages).
		Bool("breaker_open", sum.BreakerOpen).
		Msg("chapter extracted")

	if len(list) == 0 {
		return ErrNoPages
	}
	return nil
}
