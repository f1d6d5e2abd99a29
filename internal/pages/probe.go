package pages

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SizeProber reports the declared size of a remote resource without
// downloading it. fetch.Client implements it with a HEAD request.
type SizeProber interface {
	ContentLength(ctx context.Context, url string) (int64, error)
}

// ProbeState is the size-check breaker of a single extraction run. It starts
// enabled when size filtering is configured and is switched off for the rest
// of the run the first time a probe is inconclusive. It is never reopened.
type ProbeState struct {
	SizeCheckEnabled bool
}

// checkSize probes the candidate URL. An inconclusive probe rejects the
// candidate and opens the breaker: origins that refuse HEAD or omit
// Content-Length do so for every image.
func (e *Extractor) checkSize(ctx context.Context, c candidate, st *ProbeState) Reason {
	n, err := e.prober.ContentLength(ctx, c.url)
	if err != nil || n <= 0 {
		st.SizeCheckEnabled = false
		ev := log.Warn().Str("url", c.url).Int("index", c.index).Int64("content_length", n)
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("size probe inconclusive; size checks disabled for this document")
		return ReasonProbeFailed
	}
	if n < e.opts.MinSize {
		return ReasonSize
	}
	return ReasonNone
}
