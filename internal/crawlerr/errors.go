// Package crawlerr defines the sentinel error kinds shared across the
// crawl pipeline, and the wrapper type used to attach per-URL context
// to them without losing errors.Is/As compatibility.
package crawlerr

import (
	"errors"
	"fmt"
)

// Error kinds used by the core. Per-URL failures are swallowed into a
// nil PageResult and recorded on the site's Errors list; the site crawl
// continues. DNC and TOS are site-level.
var (
	// ErrUnsafe means the Safe-URL gate blocked the URL (SSRF guard).
	ErrUnsafe = errors.New("url blocked by safe-url gate")

	// ErrRobotsDisallow means robots.txt disallows this path for our agent.
	ErrRobotsDisallow = errors.New("robots.txt disallows url")

	// ErrBlocked means the server returned 403 or 429.
	ErrBlocked = errors.New("request blocked by origin")

	// ErrNotFound means the server returned 404.
	ErrNotFound = errors.New("url not found")

	// ErrTimeout means the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNonHTML means the response content-type was not text/html.
	ErrNonHTML = errors.New("response was not html")

	// ErrCaptchaSkip means a challenge page was detected and the page
	// was skipped without extraction.
	ErrCaptchaSkip = errors.New("captcha challenge detected")

	// ErrFetchError is any other network/5xx failure after retries are
	// exhausted.
	ErrFetchError = errors.New("fetch failed")

	// ErrParseError is a non-fatal extraction failure; it is ignored by
	// the caller and never surfaces as a site-level error.
	ErrParseError = errors.New("parse error")

	// ErrDNC means the site's host is on the Do-Not-Contact list. This
	// is site-level and terminates the site's crawl before any fetch.
	ErrDNC = errors.New("domain on do-not-contact list")

	// ErrTOS is a site-level, non-blocking warning: crawling continues,
	// but the reason is recorded on the site result.
	ErrTOS = errors.New("domain under terms-of-service restriction")
)

// URLError wraps one of the sentinel kinds above with the URL it
// occurred on, so callers can log/record context while still matching
// the sentinel with errors.Is.
type URLError struct {
	URL string
	Err error
}

// NewURLError wraps err with the URL it occurred against.
func NewURLError(url string, err error) *URLError {
	return &URLError{URL: url, Err: err}
}

func (e *URLError) Error() string {
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

func (e *URLError) Unwrap() error {
	return e.Err
}
