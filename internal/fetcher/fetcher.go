// Package fetcher performs the actual HTTP GET for a candidate page,
// retrying transient failures with jittered exponential backoff and
// returning a classified error for everything else so the site crawler
// can decide whether to keep going.
package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	colly "github.com/gocolly/colly/v2"

	"github.com/northfield/contactcrawl/internal/crawlerr"
	"github.com/northfield/contactcrawl/internal/obslog"
)

const (
	defaultRequestTimeout = 15 * time.Second
	maxResponseBodyBytes  = 5 * 1024 * 1024
	defaultMaxRetries     = 3
)

// Page is the raw result of a successful fetch.
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	Body        []byte
	ContentType string
}

// Config controls the fetcher's HTTP behavior.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetries     int
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = "ContactCrawl/1.0 (+https://northfield.example/bot)"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
}

// Fetcher performs single-page GETs through a colly collector used purely
// as an HTTP transport (no link-following, no queue): colly owns cookie
// jars, redirect policy, and transport tuning, and we drive it one
// request at a time so the site crawler controls pacing and ordering.
type Fetcher struct {
	collector  *colly.Collector
	cfg        Config
	log        obslog.Logger
	maxRetries int
}

// New builds a Fetcher.
func New(cfg Config, log obslog.Logger) *Fetcher {
	cfg.SetDefaults()
	if log == nil {
		log = obslog.NewNop()
	}

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.IgnoreRobotsTxt(), // robots is enforced upstream by internal/robots
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.RequestTimeout)
	c.WithTransport(&http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	})

	return &Fetcher{collector: c, cfg: cfg, log: log, maxRetries: cfg.MaxRetries}
}

// Fetch retrieves rawURL, retrying 5xx responses and transient network
// failures (timeouts, connection errors) with exponential backoff. Every
// other non-2xx status (403/429, 404, any other non-2xx) is classified
// and returned as an error without retry; the caller decides what to do
// with it (non-HTML and captcha pages are classified by the caller too,
// since those require inspecting the body).
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	var page Page

	operation := func() error {
		p, err := f.doFetch(ctx, rawURL)
		if err != nil {
			return err
		}
		page = p

		if isRetryableStatus(page.StatusCode) {
			return fmt.Errorf("%w: status %d", crawlerr.ErrFetchError, page.StatusCode)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(),
		uint64(f.maxRetries),
	), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return Page{}, classifyFetchErr(rawURL, err)
	}

	if classified := classifyStatus(page.StatusCode); classified != nil {
		return page, crawlerr.NewURLError(rawURL, classified)
	}

	return page, nil
}

func (f *Fetcher) doFetch(ctx context.Context, rawURL string) (Page, error) {
	var page Page
	var fetchErr error

	clone := f.collector.Clone()
	clone.OnResponse(func(r *colly.Response) {
		body := r.Body
		if len(body) > maxResponseBodyBytes {
			body = body[:maxResponseBodyBytes]
		}
		page = Page{
			URL:         rawURL,
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			Body:        body,
			ContentType: r.Headers.Get("Content-Type"),
		}
	})
	clone.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			// colly reports non-2xx statuses as errors; they are responses,
			// so hand the status back for Fetch to retry or classify.
			page = Page{URL: rawURL, FinalURL: rawURL, StatusCode: r.StatusCode}
			return
		}
		fetchErr = err
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return Page{}, crawlerr.NewURLError(rawURL, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	if visitErr := clone.Request(req.Method, rawURL, nil, nil, req.Header); visitErr != nil && page.StatusCode == 0 {
		return Page{}, crawlerr.NewURLError(rawURL, visitErr)
	}
	clone.Wait()

	if fetchErr != nil {
		return Page{}, crawlerr.NewURLError(rawURL, fetchErr)
	}

	return page, nil
}

// isRetryableStatus reports whether status warrants a retry: 5xx only,
// per the no-retry-on-4xx policy (403/429 are permanent outcomes here,
// classified by classifyStatus instead of retried).
func isRetryableStatus(status int) bool {
	return status >= http.StatusInternalServerError
}

// classifyStatus maps a final (post-retry) HTTP status code to the
// sentinel error it represents, or nil for a successful 2xx response.
func classifyStatus(status int) error {
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status == http.StatusForbidden, status == http.StatusTooManyRequests:
		return crawlerr.ErrBlocked
	case status == http.StatusNotFound:
		return crawlerr.ErrNotFound
	default:
		return crawlerr.ErrFetchError
	}
}

func classifyFetchErr(rawURL string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return crawlerr.NewURLError(rawURL, crawlerr.ErrTimeout)
	case strings.Contains(msg, "404"):
		return crawlerr.NewURLError(rawURL, crawlerr.ErrNotFound)
	default:
		return crawlerr.NewURLError(rawURL, crawlerr.ErrFetchError)
	}
}

// IsHTML reports whether a Content-Type header value indicates HTML.
func IsHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
