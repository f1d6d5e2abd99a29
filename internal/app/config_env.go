package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/anyweb/internal/pages"
)

// ApplyEnvToConfig populates fields of cfg that are still unset or at their
// default from ANYWEB_* environment variables. Explicit values take
// precedence over env.
func ApplyEnvToConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if strings.TrimSpace(cfg.Query) == "" {
		cfg.Query = os.Getenv("ANYWEB_QUERY")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = os.Getenv("ANYWEB_OUTPUT")
	}
	if cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent {
		if v := os.Getenv("ANYWEB_USER_AGENT"); v != "" {
			cfg.UserAgent = v
		}
	}
	if cfg.CacheDir == "" || cfg.CacheDir == DefaultCacheDir {
		if v := os.Getenv("ANYWEB_CACHE_DIR"); v != "" {
			cfg.CacheDir = v
		}
	}

	setDuration := func(dst *time.Duration, def time.Duration, envKey string) {
		if *dst != 0 && *dst != def {
			return
		}
		if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(envKey))); err == nil && d > 0 {
			*dst = d
		}
	}
	setDuration(&cfg.Timeout, DefaultTimeout, "ANYWEB_TIMEOUT")
	setDuration(&cfg.CacheMaxAge, 0, "ANYWEB_CACHE_MAX_AGE")

	if cfg.MaxAttempts == 0 || cfg.MaxAttempts == DefaultMaxAttempts {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("ANYWEB_MAX_ATTEMPTS"))); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "ANYWEB_VERBOSE")
	setBool(&cfg.NoCache, "ANYWEB_NO_CACHE")
	setBool(&cfg.CacheClear, "ANYWEB_CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "ANYWEB_CACHE_STRICT_PERMS")

	return applyFilterEnv(&cfg.Filters)
}

// applyFilterEnv reads the filter toggles and values. Toggles only touch
// filters whose enabled state is still unset.
func applyFilterEnv(s *pages.Settings) error {
	var env pages.Settings
	if err := SetFilters(&env, SplitList(os.Getenv("ANYWEB_FILTERS_ENABLE")), true); err != nil {
		return err
	}
	if err := SetFilters(&env, SplitList(os.Getenv("ANYWEB_FILTERS_DISABLE")), false); err != nil {
		return err
	}
	env.Selector.Value = pages.Value(os.Getenv("ANYWEB_SELECTOR"))
	env.ElementKeywords.Value = pages.Value(os.Getenv("ANYWEB_ELEMENT_KEYWORDS"))
	env.URLKeywords.Value = pages.Value(os.Getenv("ANYWEB_URL_KEYWORDS"))
	env.Dimensions.MinWidth = pages.Value(os.Getenv("ANYWEB_MIN_WIDTH"))
	env.Dimensions.MinHeight = pages.Value(os.Getenv("ANYWEB_MIN_HEIGHT"))
	env.Size.Min = pages.Value(os.Getenv("ANYWEB_MIN_SIZE"))
	mergeSettings(s, env)
	return nil
}
