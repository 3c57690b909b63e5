// Package retry wraps cenkalti/backoff/v4 with the job-level retry
// policy: a bounded number of attempts with exponential backoff, distinct
// from (and composing with) the fetcher's own network-level retries.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config controls one retry policy.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultConfig matches the job broker's documented retry policy: 3
// attempts, exponential backoff starting at 2s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// Do runs fn, retrying on error per cfg until it succeeds, the attempt
// budget is exhausted, or ctx is cancelled.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.InitialDelay
	policy.MaxInterval = cfg.MaxDelay

	bounded := backoff.WithMaxRetries(policy, uint64(cfg.MaxAttempts-1))
	return backoff.Retry(fn, backoff.WithContext(bounded, ctx))
}
