// Package fetch is the single network boundary for page retrieval. Every
// adapter's page content comes through here, rate-limited and retried, and
// every failure surfaces as a domain.FetchError carrying the site name.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/fn"
)

// DefaultTimeout bounds a single page retrieval.
const DefaultTimeout = 15 * time.Second

const defaultUserAgent = "autohawk-scraper/1.0 (vehicle listing aggregation)"

// Options configures a Fetcher. Zero values fall back to defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Retry     fn.RetryOpts
	// RequestsPerSec throttles outbound requests across all sites.
	RequestsPerSec float64
	Burst          int
}

// Fetcher retrieves raw page content over HTTP.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	retry     fn.RetryOpts
	logger    *slog.Logger
}

// New creates a Fetcher. A nil logger falls back to slog.Default.
func New(opts Options, logger *slog.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = fn.RetryOpts{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Jitter: true}
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		userAgent: opts.UserAgent,
		retry:     opts.Retry,
		logger:    logger,
	}
}

// Fetch retrieves url and returns the response body. Any transport failure,
// timeout, or non-success status is wrapped in a domain.FetchError that
// names the site.
func (f *Fetcher) Fetch(ctx context.Context, site, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", domain.NewFetchError(site, err)
	}

	f.logger.Debug("fetching listings page", "site", site, "url", url)

	result := fn.Retry(ctx, f.retry, func(ctx context.Context) fn.Result[string] {
		return f.doGet(ctx, url)
	})
	body, err := result.Unwrap()
	if err != nil {
		return "", domain.NewFetchError(site, err)
	}
	return body, nil
}

func (f *Fetcher) doGet(ctx context.Context, url string) fn.Result[string] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fn.Err[string](err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fn.Err[string](err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fn.Errf[string]("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	return fn.FromPair(string(body), err)
}
