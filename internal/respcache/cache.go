// Package respcache caches extracted page results in Redis so a re-crawl
// of the same URL within the cache lifetime skips the network fetch
// entirely. Cache failures never fail a crawl: every method swallows
// Redis errors and behaves as a cache miss.
package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/obslog"
)

// defaultTTL matches the spec's 7-day page-result cache lifetime.
const defaultTTL = 7 * 24 * time.Hour

const keyPrefix = "contactcrawl:page:"

// Cache is a Redis-backed cache of domain.PageResult keyed by URL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    obslog.Logger
}

// New creates a Cache over an existing Redis client.
func New(client *redis.Client, log obslog.Logger) *Cache {
	if log == nil {
		log = obslog.NewNop()
	}
	return &Cache{client: client, ttl: defaultTTL, log: log}
}

func cacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached result for rawURL, if present and unexpired.
// Any Redis or decode error is treated as a miss.
func (c *Cache) Get(ctx context.Context, rawURL string) (domain.PageResult, bool) {
	raw, err := c.client.Get(ctx, cacheKey(rawURL)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("respcache get failed", obslog.String("url", rawURL), obslog.ErrField(err))
		}
		return domain.PageResult{}, false
	}

	var result domain.PageResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.log.Warn("respcache decode failed", obslog.String("url", rawURL), obslog.ErrField(err))
		return domain.PageResult{}, false
	}

	return result, true
}

// Set stores result for rawURL with the cache's TTL. Failures are logged
// and otherwise ignored.
func (c *Cache) Set(ctx context.Context, rawURL string, result domain.PageResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("respcache encode failed", obslog.String("url", rawURL), obslog.ErrField(err))
		return
	}

	if err := c.client.Set(ctx, cacheKey(rawURL), raw, c.ttl).Err(); err != nil {
		c.log.Debug("respcache set failed", obslog.String("url", rawURL), obslog.ErrField(err))
	}
}
