// Package sitecrawl implements the per-site state machine: build the
// candidate page list, run every gate in order for each candidate, and
// aggregate the survivors into a domain.SiteResult.
package sitecrawl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/northfield/contactcrawl/internal/captcha"
	"github.com/northfield/contactcrawl/internal/compliance"
	"github.com/northfield/contactcrawl/internal/crawlerr"
	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/email"
	"github.com/northfield/contactcrawl/internal/extract"
	"github.com/northfield/contactcrawl/internal/fetcher"
	"github.com/northfield/contactcrawl/internal/obslog"
	"github.com/northfield/contactcrawl/internal/obsmetrics"
	"github.com/northfield/contactcrawl/internal/phone"
	"github.com/northfield/contactcrawl/internal/ratelimit"
	"github.com/northfield/contactcrawl/internal/respcache"
	"github.com/northfield/contactcrawl/internal/robots"
	"github.com/northfield/contactcrawl/internal/safeurl"
)

// candidatePaths is the fixed, locale-biased candidate page list, tried
// in this exact order and truncated to maxPages.
var candidatePaths = []string{
	"",
	"/kontakt",
	"/kontakta-oss",
	"/om",
	"/om-oss",
	"/about",
	"/contact",
}

// defaultBetweenRequests is the politeness sleep between two candidate
// page fetches for the same site.
const defaultBetweenRequests = 150 * time.Millisecond

// Crawler orchestrates one site's crawl, composing every correctness gate
// in the declared order.
type Crawler struct {
	SafeGate       *safeurl.Gate
	Robots         *robots.Cache
	RateLimiter    *ratelimit.Limiter
	Cache          *respcache.Cache
	Fetcher        *fetcher.Fetcher
	DNC            *compliance.DNCList
	TOS            *compliance.TOSList
	Metrics        *obsmetrics.Metrics
	Log            obslog.Logger
	BetweenRequests time.Duration
}

// New builds a Crawler from its collaborators. Any nil optional
// collaborator (Cache, Metrics, Log) degrades gracefully.
func New(
	safeGate *safeurl.Gate,
	robotsCache *robots.Cache,
	limiter *ratelimit.Limiter,
	cache *respcache.Cache,
	f *fetcher.Fetcher,
	dnc *compliance.DNCList,
	tos *compliance.TOSList,
	metrics *obsmetrics.Metrics,
	log obslog.Logger,
) *Crawler {
	if log == nil {
		log = obslog.NewNop()
	}
	return &Crawler{
		SafeGate: safeGate, Robots: robotsCache, RateLimiter: limiter,
		Cache: cache, Fetcher: f, DNC: dnc, TOS: tos, Metrics: metrics,
		Log: log, BetweenRequests: defaultBetweenRequests,
	}
}

// Crawl runs the full per-site state machine and returns the aggregated
// result.
func (c *Crawler) Crawl(ctx context.Context, site domain.SiteInput, cfg domain.CrawlConfig) *domain.SiteResult {
	result := domain.NewSiteResult(site.CompanyName, site.RootURL, site.Host)

	if c.DNC != nil && c.DNC.Has(site.Host) {
		result.AddError("", "Domain on Do-Not-Contact list")
		return result
	}

	if c.TOS != nil {
		if reason, hit := c.TOS.Check(site.Host); hit {
			result.AddError("", reason)
		}
	}

	pages := buildCandidatePages(site.RootURL, cfg.MaxPages)

	for i, pageURL := range pages {
		if i > 0 {
			sleep(ctx, c.BetweenRequests)
		}

		page, ok := c.crawlURL(ctx, result, pageURL, site.Host)
		if !ok {
			continue
		}

		result.AddPage(pageURL)
		c.mergeInto(result, site.Host, pageURL, page)
	}

	return result
}

// crawlURL runs one candidate URL through every gate in order, returning
// the extracted page result, or ok=false if any gate rejected the URL or
// the fetch failed. Every failure branch except robots-blocked (Scenario
// 3: a robots skip is not an error) is recorded on result.Errors.
func (c *Crawler) crawlURL(ctx context.Context, result *domain.SiteResult, pageURL, host string) (domain.PageResult, bool) {
	if c.Cache != nil {
		if cached, hit := c.Cache.Get(ctx, pageURL); hit {
			return cached, true
		}
	}

	if safe := c.SafeGate.IsSafe(ctx, pageURL); !safe.Safe {
		c.Log.Warn("url blocked by safe-url gate", obslog.String("url", pageURL), obslog.String("reason", safe.Reason))
		result.AddError(pageURL, safe.Reason)
		return domain.PageResult{}, false
	}

	decision := c.Robots.IsAllowed(ctx, pageURL)
	if !decision.Allowed {
		c.observeStatus(host, "robots-blocked")
		return domain.PageResult{}, false
	}

	delay := c.BetweenRequests
	if decision.CrawlDelay > delay {
		delay = decision.CrawlDelay
	}
	sleep(ctx, delay)

	release, err := c.RateLimiter.Acquire(ctx, host)
	if err != nil {
		result.AddError(pageURL, "rate limiter: "+err.Error())
		return domain.PageResult{}, false
	}
	defer release()

	start := time.Now()
	page, err := c.Fetcher.Fetch(ctx, pageURL)
	duration := time.Since(start)

	if err != nil {
		c.observeStatus(host, statusLabel(err))
		c.observeDuration(duration)
		result.AddError(pageURL, err.Error())
		return domain.PageResult{}, false
	}

	if !fetcher.IsHTML(page.ContentType) {
		c.observeStatus(host, "non-html")
		result.AddError(pageURL, "non-html response")
		return domain.PageResult{}, false
	}

	body := string(page.Body)
	if isCaptcha, reason := captcha.Detect(body); isCaptcha {
		c.observeStatus(host, "captcha")
		c.Log.Info("captcha detected", obslog.String("url", pageURL), obslog.String("reason", reason))
		result.AddError(pageURL, "captcha challenge detected: "+reason)
		return domain.PageResult{}, false
	}

	c.observeStatus(host, "success")
	c.observeDuration(duration)

	extracted, phoneCandidates := extract.Extract(body, pageURL)
	extracted.Phones = normalizePhones(phoneCandidates)

	if c.Cache != nil {
		c.Cache.Set(ctx, pageURL, extracted)
	}

	return extracted, true
}

// statusLabel maps a classified fetch error to the metric status label
// from §4.12's {timeout|blocked|404|error} set.
func statusLabel(err error) string {
	switch {
	case errors.Is(err, crawlerr.ErrTimeout):
		return "timeout"
	case errors.Is(err, crawlerr.ErrBlocked):
		return "blocked"
	case errors.Is(err, crawlerr.ErrNotFound):
		return "404"
	default:
		return "error"
	}
}

func (c *Crawler) mergeInto(result *domain.SiteResult, host, pageURL string, page domain.PageResult) {
	for _, ev := range page.Emails {
		result.MergeEmail(ev, pageURL, func(addr string) (domain.EmailType, float64) {
			emailType, score := email.Classify(addr, host)
			return emailType, email.Confidence(score)
		})
	}
	for _, p := range page.Phones {
		result.AddPhone(p)
	}
	result.Socials.MergeFirstWins(page.Socials)

	if c.Metrics != nil {
		c.Metrics.ObserveContactsFound(len(page.Emails), len(page.Phones), !page.Socials.IsEmpty())
	}
}

func (c *Crawler) observeStatus(host, status string) {
	if c.Metrics != nil {
		c.Metrics.ObserveRequest(host, status)
	}
	if status == "robots-blocked" && c.Metrics != nil {
		c.Metrics.ObserveRobotsBlocked(host)
	}
}

func (c *Crawler) observeDuration(d time.Duration) {
	if c.Metrics != nil {
		c.Metrics.ObserveDuration(d.Seconds())
	}
}

func buildCandidatePages(rootURL string, maxPages int) []string {
	root := strings.TrimRight(rootURL, "/")

	pages := make([]string, 0, len(candidatePaths))
	for _, p := range candidatePaths {
		pages = append(pages, root+p)
	}

	if maxPages > 0 && maxPages < len(pages) {
		pages = pages[:maxPages]
	}
	return pages
}

func normalizePhones(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		e164, ok := phone.Parse(c)
		if !ok {
			continue
		}
		if _, dup := seen[e164]; dup {
			continue
		}
		seen[e164] = struct{}{}
		out = append(out, e164)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
