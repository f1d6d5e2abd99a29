package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/anyweb/internal/pages"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Query  string `yaml:"query" json:"query"`
	Output string `yaml:"output" json:"output"`

	HTTP struct {
		UserAgent   string        `yaml:"userAgent" json:"userAgent"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout"`
		MaxAttempts int           `yaml:"maxAttempts" json:"maxAttempts"`
	} `yaml:"http" json:"http"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		Disable     bool          `yaml:"disable" json:"disable"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`

	Filters pages.Settings `yaml:"filters" json:"filters"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc onto cfg for fields that are unset
// or still at their flag default, so explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(cfg.Query) == "" && fc.Query != "" {
		cfg.Query = fc.Query
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}

	if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent) && fc.HTTP.UserAgent != "" {
		cfg.UserAgent = fc.HTTP.UserAgent
	}
	if (cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout) && fc.HTTP.Timeout > 0 {
		cfg.Timeout = fc.HTTP.Timeout
	}
	if (cfg.MaxAttempts == 0 || cfg.MaxAttempts == DefaultMaxAttempts) && fc.HTTP.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.HTTP.MaxAttempts
	}

	if (cfg.CacheDir == "" || cfg.CacheDir == DefaultCacheDir) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.NoCache && fc.Cache.Disable {
		cfg.NoCache = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	mergeSettings(&cfg.Filters, fc.Filters)
}

// mergeSettings copies every filter setting of src that dst leaves unset.
func mergeSettings(dst *pages.Settings, src pages.Settings) {
	mergeToggle(&dst.Selector, src.Selector)
	mergeToggle(&dst.ElementKeywords, src.ElementKeywords)
	mergeToggle(&dst.URLKeywords, src.URLKeywords)

	if dst.Dimensions.Enabled == nil {
		dst.Dimensions.Enabled = src.Dimensions.Enabled
	}
	mergeValue(&dst.Dimensions.MinWidth, src.Dimensions.MinWidth)
	mergeValue(&dst.Dimensions.MinHeight, src.Dimensions.MinHeight)

	if dst.Size.Enabled == nil {
		dst.Size.Enabled = src.Size.Enabled
	}
	mergeValue(&dst.Size.Min, src.Size.Min)
}

func mergeToggle(dst *pages.Toggle, src pages.Toggle) {
	if dst.Enabled == nil {
		dst.Enabled = src.Enabled
	}
	mergeValue(&dst.Value, src.Value)
}

func mergeValue(dst *pages.Value, src pages.Value) {
	if strings.TrimSpace(string(*dst)) == "" {
		*dst = src
	}
}
