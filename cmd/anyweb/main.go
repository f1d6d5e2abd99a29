package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/anyweb/internal/app"
	"github.com/hyperifyio/anyweb/internal/pages"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath     string
		envFiles       string
		outputPath     string
		userAgent      string
		timeout        time.Duration
		maxAttempts    int
		cacheDir       string
		cacheMaxAge    time.Duration
		cacheClear     bool
		cacheStrict    bool
		noCache        bool
		verbose        bool
		showVersion    bool
		enableFilters  string
		disableFilters string
		selector       string
		elementKw      string
		urlKw          string
		minWidth       string
		minHeight      string
		minSize        string
	)

	flag.StringVar(&configPath, "config", os.Getenv("ANYWEB_CONFIG"), "Path to YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load before reading ANYWEB_* variables")
	flag.StringVar(&outputPath, "output", "", "Path to write the chapter manifest JSON (default stdout)")
	flag.StringVar(&userAgent, "ua", app.DefaultUserAgent, "User-Agent for document and probe requests")
	flag.DurationVar(&timeout, "timeout", app.DefaultTimeout, "Per-request timeout")
	flag.IntVar(&maxAttempts, "retries", app.DefaultMaxAttempts, "Attempts per document fetch, including the first")
	flag.StringVar(&cacheDir, "cache.dir", app.DefaultCacheDir, "Cache directory path")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&noCache, "no-cache", false, "Disable the on-disk HTTP cache")
	flag.BoolVar(&verbose, "v", false, "Verbose logging, including per-image filter decisions")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.StringVar(&enableFilters, "filters.enable", "", "Comma-separated filters to enable: "+strings.Join(app.FilterNames, ", "))
	flag.StringVar(&disableFilters, "filters.disable", "", "Comma-separated filters to disable; applied after -filters.enable")
	flag.StringVar(&selector, "filters.selector", "", "CSS selector whose descendants are excluded (default \""+pages.DefaultSelector+"\")")
	flag.StringVar(&elementKw, "filters.elementKeywords", "", "Comma-separated alt/title keywords (default \""+pages.DefaultKeywords+"\")")
	flag.StringVar(&urlKw, "filters.urlKeywords", "", "Comma-separated URL keywords (default \""+pages.DefaultKeywords+"\")")
	flag.StringVar(&minWidth, "filters.minWidth", "", "Minimum declared image width in pixels")
	flag.StringVar(&minHeight, "filters.minHeight", "", "Minimum declared image height in pixels")
	flag.StringVar(&minSize, "filters.minSize", "", "Minimum remote image size in bytes")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <url>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	cfg := app.Config{
		Query:            strings.TrimSpace(strings.Join(flag.Args(), " ")),
		OutputPath:       outputPath,
		UserAgent:        userAgent,
		Timeout:          timeout,
		MaxAttempts:      maxAttempts,
		CacheDir:         cacheDir,
		CacheMaxAge:      cacheMaxAge,
		CacheClear:       cacheClear,
		CacheStrictPerms: cacheStrict,
		NoCache:          noCache,
		Verbose:          verbose,
	}
	cfg.Filters.Selector.Value = pages.Value(selector)
	cfg.Filters.ElementKeywords.Value = pages.Value(elementKw)
	cfg.Filters.URLKeywords.Value = pages.Value(urlKw)
	cfg.Filters.Dimensions.MinWidth = pages.Value(minWidth)
	cfg.Filters.Dimensions.MinHeight = pages.Value(minHeight)
	cfg.Filters.Size.Min = pages.Value(minSize)
	if err := app.SetFilters(&cfg.Filters, app.SplitList(enableFilters), true); err != nil {
		log.Fatal().Err(err).Msg("invalid -filters.enable")
	}
	if err := app.SetFilters(&cfg.Filters, app.SplitList(disableFilters), false); err != nil {
		log.Fatal().Err(err).Msg("invalid -filters.disable")
	}

	// Precedence: flags, then config file, then environment.
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.LoadEnvFiles(app.SplitList(envFiles)...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}
	if err := app.ApplyEnvToConfig(&cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid environment")
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		// Exit code policy: 2 when the document yields no pages, 1 otherwise.
		if errors.Is(err, app.ErrNoPages) {
			log.Warn().Str("query", cfg.Query).Msg("no pages found")
			os.Exit(2)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
