package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/anyweb/internal/details"
	"github.com/hyperifyio/anyweb/internal/pages"
	"github.com/hyperifyio/anyweb/internal/source"
)

// Manifest is the machine-readable result of one run.
type Manifest struct {
	RunID       string           `json:"run_id"`
	Version     string           `json:"version"`
	GeneratedAt time.Time        `json:"generated_at"`
	Query       string           `json:"query"`
	Entry       source.Entry     `json:"entry"`
	Details     details.Details  `json:"details"`
	Chapters    []source.Chapter `json:"chapters"`
	Pages       []pages.Page     `json:"pages"`
	Summary     pages.Summary    `json:"summary"`
	Filters     ManifestFilters  `json:"filters"`
}

// ManifestFilters records the resolved filter snapshot used for the run.
type ManifestFilters struct {
	Selector        string   `json:"selector,omitempty"`
	ElementKeywords []string `json:"element_keywords,omitempty"`
	URLKeywords     []string `json:"url_keywords,omitempty"`
	MinWidth        int      `json:"min_width,omitempty"`
	MinHeight       int      `json:"min_height,omitempty"`
	MinSize         int64    `json:"min_size,omitempty"`
}

func newManifest(query string, entry source.Entry) Manifest {
	return Manifest{
		RunID:       uuid.NewString(),
		Version:     BuildVersion,
		GeneratedAt: time.Now().UTC(),
		Query:       query,
		Entry:       entry,
		Chapters:    source.Chapters(entry.Chapters),
		Pages:       []pages.Page{},
	}
}

// describeFilters lists the settings of enabled filters only.
func describeFilters(o pages.Options) ManifestFilters {
	var f ManifestFilters
	if o.ExcludeBySelector {
		f.Selector = o.Selector
	}
	if o.ExcludeByElementKeywords {
		f.ElementKeywords = o.ElementKeywords
	}
	if o.ExcludeByURLKeywords {
		f.URLKeywords = o.URLKeywords
	}
	if o.ExcludeByDimensions {
		f.MinWidth, f.MinHeight = o.MinWidth, o.MinHeight
	}
	if o.ExcludeBySize {
		f.MinSize = o.MinSize
	}
	return f
}

// writeManifest encodes m as indented JSON to path, or to stdout when path
// is empty or "-".
func writeManifest(path string, stdout io.Writer, m Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	b = append(b, '\n')
	if p := strings.TrimSpace(path); p == "" || p == "-" {
		_, err := stdout.Write(b)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir output: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
