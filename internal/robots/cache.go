// Package robots fetches, parses, and caches robots.txt per origin, and
// answers the allow + crawl-delay question the site crawler needs before
// every fetch.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// defaultCacheTTL is how long a parsed policy is trusted before it is
// re-fetched (spec: 1 hour).
const defaultCacheTTL = time.Hour

// defaultFetchTimeout bounds the robots.txt GET itself (spec: 5s).
const defaultFetchTimeout = 5 * time.Second

const maxRobotsBodyBytes = 512 * 1024

// permissive is substituted whenever robots.txt is missing, errored, or
// unparsable: "User-agent: *\nAllow: /".
var permissive = mustParsePermissive()

func mustParsePermissive() *robotstxt.RobotsData {
	data, err := robotstxt.FromString("User-agent: *\nAllow: /")
	if err != nil {
		panic("robots: failed to build permissive default: " + err.Error())
	}
	return data
}

// Decision is the outcome of a robots.txt check for one URL.
type Decision struct {
	Allowed    bool
	CrawlDelay time.Duration
}

type cacheEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
}

// Cache fetches and caches robots.txt policies per origin.
type Cache struct {
	httpClient *http.Client
	userAgent  string
	ttl        time.Duration

	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

// New creates a Cache. httpClient may be nil, in which case a client
// with defaultFetchTimeout is used.
func New(httpClient *http.Client, userAgent string) *Cache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &Cache{
		httpClient: httpClient,
		userAgent:  userAgent,
		ttl:        defaultCacheTTL,
		entries:    make(map[string]*cacheEntry),
	}
}

// IsAllowed checks whether rawURL is allowed for our user-agent, and
// returns the crawl-delay the origin requested, if any. Any failure
// upstream of parsing resolves to {allowed:true, crawlDelay:0}.
func (c *Cache) IsAllowed(ctx context.Context, rawURL string) Decision {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Decision{Allowed: true}
	}

	origin := strings.ToLower(parsed.Scheme + "://" + parsed.Host)
	entry := c.getOrFetch(ctx, origin)

	group := entry.data.FindGroup(c.userAgent)
	allowed := entry.data.TestAgent(parsed.Path, c.userAgent)

	delay := time.Duration(0)
	if group != nil {
		delay = group.CrawlDelay
	}

	return Decision{Allowed: allowed, CrawlDelay: delay}
}

func (c *Cache) getOrFetch(ctx context.Context, origin string) *cacheEntry {
	if entry, ok := c.cached(origin); ok {
		return entry
	}
	return c.fetchAndCache(ctx, origin)
}

func (c *Cache) cached(origin string) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[origin]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry, true
}

func (c *Cache) fetchAndCache(ctx context.Context, origin string) *cacheEntry {
	body, statusCode, err := c.doFetch(ctx, origin+"/robots.txt")

	var entry *cacheEntry
	switch {
	case err != nil, statusCode < 200 || statusCode >= 300:
		entry = &cacheEntry{data: permissive, fetchedAt: time.Now()}
	default:
		parsed, parseErr := robotstxt.FromBytes(body)
		if parseErr != nil {
			parsed = permissive
		}
		entry = &cacheEntry{data: parsed, fetchedAt: time.Now()}
	}

	c.mu.Lock()
	c.entries[origin] = entry
	c.mu.Unlock()

	return entry
}

func (c *Cache) doFetch(ctx context.Context, robotsURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}
