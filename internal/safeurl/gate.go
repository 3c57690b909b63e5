// Package safeurl implements the SSRF protection gate: before any
// candidate page URL is handed to the fetcher, it is checked for
// disallowed schemes, private/loopback/link-local IP literals, and
// DNS-rebinding (a hostname that resolves to a disallowed address).
package safeurl

import (
	"context"
	"net"
	"net/url"
)

// Result is the outcome of a safety check.
type Result struct {
	Safe   bool
	Reason string
}

// Resolver looks up A/AAAA records for a host. *net.Resolver satisfies
// this; tests can substitute a fake.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Gate checks candidate URLs against the SSRF blocklist.
type Gate struct {
	resolver Resolver
}

// New creates a Gate using net.DefaultResolver for DNS lookups.
func New() *Gate {
	return &Gate{resolver: net.DefaultResolver}
}

// NewWithResolver creates a Gate using a caller-supplied resolver, for
// tests exercising DNS-rebinding without making real DNS calls.
func NewWithResolver(r Resolver) *Gate {
	return &Gate{resolver: r}
}

// IsSafe reports whether rawURL may be fetched. DNS failure is
// non-fatal: an unresolvable host is allowed through (the fetcher will
// fail naturally against a dead host).
func (g *Gate) IsSafe(ctx context.Context, rawURL string) Result {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Result{Safe: false, Reason: "unparsable url"}
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Result{Safe: false, Reason: "non-http(s) scheme"}
	}

	host := parsed.Hostname()
	if host == "" {
		return Result{Safe: false, Reason: "missing host"}
	}

	if ip := net.ParseIP(host); ip != nil {
		if blocked, reason := isBlockedIP(ip); blocked {
			return Result{Safe: false, Reason: reason}
		}
		return Result{Safe: true}
	}

	addrs, err := g.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		// DNS failure is non-fatal; let the fetcher fail naturally.
		return Result{Safe: true}
	}

	for _, addr := range addrs {
		if blocked, reason := isBlockedIP(addr.IP); blocked {
			return Result{Safe: false, Reason: "dns-rebinding: " + reason}
		}
	}

	return Result{Safe: true}
}

var blockedCIDRs = mustParseCIDRs(
	"127.0.0.0/8",    // loopback
	"10.0.0.0/8",     // RFC1918
	"172.16.0.0/12",  // RFC1918
	"192.168.0.0/16", // RFC1918
	"169.254.0.0/16", // link-local
	"0.0.0.0/8",      // invalid/"this network"
	"::1/128",        // loopback
	"fe80::/10",      // link-local
	"fc00::/7",       // unique-local
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("safeurl: invalid blocklist cidr " + c)
		}
		nets = append(nets, n)
	}
	return nets
}

func isBlockedIP(ip net.IP) (bool, string) {
	for _, n := range blockedCIDRs {
		if n.Contains(ip) {
			return true, "address in " + n.String()
		}
	}
	return false, ""
}
