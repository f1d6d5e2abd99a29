package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/anyweb/internal/cache"
)

// ErrNoContentLength is returned by ContentLength when the server answers
// without a usable Content-Length header.
var ErrNoContentLength = errors.New("no content length")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Method string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status: %d", e.Method, e.Status)
}

// Client wraps http.Client with a user agent, timeouts, a redirect cap and
// bounded retry of document fetches.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt of a GET. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request. Zero leaves it to HTTPClient.
	PerRequestTimeout time.Duration
	// Optional on-disk cache for document bodies.
	Cache *cache.HTTPCache
	// If true, skip conditional revalidation but still store fresh responses.
	BypassCache bool
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// Get fetches an HTML document. Server errors and deadline expiries are
// retried up to MaxAttempts; a 304 against a cached entry returns the cached
// body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	var etag, lastMod string
	if c.Cache != nil && !c.BypassCache {
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		res, err := c.getOnce(ctx, rawURL, etag, lastMod)
		if err == nil {
			if res.status == http.StatusNotModified && c.Cache != nil {
				body, cerr := c.Cache.LoadBody(ctx, rawURL)
				if cerr == nil {
					ct := res.contentType
					if ct == "" {
						if meta, merr := c.Cache.LoadMeta(ctx, rawURL); merr == nil {
							ct = meta.ContentType
						}
					}
					log.Debug().Str("url", rawURL).Msg("document not modified; served from cache")
					return body, ct, nil
				}
				return nil, "", fmt.Errorf("not modified but cache unreadable: %w", cerr)
			}
			if c.Cache != nil && res.status == http.StatusOK {
				if err := c.Cache.Save(ctx, rawURL, res.contentType, res.etag, res.lastModified, res.body); err != nil {
					log.Warn().Err(err).Str("url", rawURL).Msg("cache save failed")
				}
			}
			return res.body, res.contentType, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		time.Sleep(time.Duration(i+1) * 200 * time.Millisecond)
	}
	return nil, "", lastErr
}

type getResult struct {
	body         []byte
	contentType  string
	etag         string
	lastModified string
	status       int
}

func (c *Client) getOnce(ctx context.Context, rawURL, etag, lastMod string) (getResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return getResult{}, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}
	ctx, cancel := c.withTimeout(req.Context())
	defer cancel()

	resp, err := c.getHTTPClient().Do(req.WithContext(ctx))
	if err != nil {
		return getResult{}, err
	}
	defer resp.Body.Close()

	res := getResult{
		contentType:  resp.Header.Get("Content-Type"),
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		status:       resp.StatusCode,
	}
	if resp.StatusCode == http.StatusNotModified {
		return res, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, &StatusError{Method: http.MethodGet, Status: resp.StatusCode}
	}
	if !isAllowedHTMLContentType(res.contentType) {
		return res, fmt.Errorf("unsupported content type: %s", res.contentType)
	}
	res.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return res, fmt.Errorf("read body: %w", err)
	}
	return res, nil
}

// ContentLength issues a single HEAD request and returns the declared
// Content-Length. Only positive lengths are returned without error. There is
// no retry and no caching.
func (c *Client) ContentLength(ctx context.Context, rawURL string) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodHead, rawURL)
	if err != nil {
		return 0, err
	}
	ctx, cancel := c.withTimeout(req.Context())
	defer cancel()

	resp, err := c.getHTTPClient().Do(req.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{Method: http.MethodHead, Status: resp.StatusCode}
	}
	raw := strings.TrimSpace(resp.Header.Get("Content-Length"))
	if raw == "" {
		return 0, ErrNoContentLength
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoContentLength, raw)
	}
	return n, nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return req, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.PerRequestTimeout > 0 {
		return context.WithTimeout(ctx, c.PerRequestTimeout)
	}
	return ctx, func() {}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 500 && se.Status <= 599
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
