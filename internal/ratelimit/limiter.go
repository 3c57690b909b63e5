// Package ratelimit enforces the crawler's politeness budget: a global
// ceiling across every in-flight site, composed with a per-host bucket so
// one slow or chatty origin can never starve the others.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Config controls both limiter layers.
type Config struct {
	GlobalRPS   float64
	GlobalBurst int
	HostRPS     float64
	HostBurst   int
}

// DefaultConfig matches the crawler's default politeness policy: a
// generous global ceiling, a conservative one request-per-second-per-host
// steady state with a small burst allowance.
func DefaultConfig() Config {
	return Config{
		GlobalRPS:   20,
		GlobalBurst: 20,
		HostRPS:     1,
		HostBurst:   2,
	}
}

// Limiter composes a global rate.Limiter with a lazily-created per-host
// rate.Limiter map, plus a per-host exclusivity semaphore so at most one
// request per host is ever in flight at a time — enforced across every
// concurrent site crawl sharing this Limiter, not just within one site's
// sequential loop.
type Limiter struct {
	cfg    Config
	global *rate.Limiter

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	locks map[string]chan struct{}
}

// New creates a Limiter from cfg.
func New(cfg Config) *Limiter {
	return &Limiter{
		cfg:    cfg,
		global: rate.NewLimiter(rate.Limit(cfg.GlobalRPS), cfg.GlobalBurst),
		hosts:  make(map[string]*rate.Limiter),
		locks:  make(map[string]chan struct{}),
	}
}

// Wait blocks until both the global and per-host budget allow one more
// request for host, or until ctx is cancelled. It does not enforce
// per-host exclusivity; use Acquire for that.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if err := l.global.Wait(ctx); err != nil {
		return err
	}
	return l.hostLimiter(host).Wait(ctx)
}

// Acquire waits for rate-budget admission (as Wait does) and then takes
// exclusive possession of host, so no other in-flight request — from this
// site's crawl or any concurrently running one sharing this Limiter — can
// be talking to host at the same time. The caller must invoke the
// returned release func exactly once, when the request completes.
func (l *Limiter) Acquire(ctx context.Context, host string) (func(), error) {
	if err := l.Wait(ctx, host); err != nil {
		return nil, err
	}

	sem := l.hostSemaphore(host)
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		<-sem
	}, nil
}

func (l *Limiter) hostSemaphore(host string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.locks[host]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locks[host] = sem
	}
	return sem
}

// SetHostDelay overrides a host's steady-state rate from a robots.txt
// Crawl-delay directive, replacing the default per-host limiter for that
// host. A delay of d seconds means at most 1/d requests per second.
func (l *Limiter) SetHostDelay(host string, requestsPerSecond float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	burst := l.cfg.HostBurst
	if burst < 1 {
		burst = 1
	}
	l.hosts[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.hosts[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.cfg.HostRPS), l.cfg.HostBurst)
		l.hosts[host] = lim
	}
	return lim
}
