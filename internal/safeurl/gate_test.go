package safeurl_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/safeurl"
)

type fakeResolver struct {
	addrs map[string][]net.IPAddr
	err   error
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.addrs[host], nil
}

func TestIsSafe_RejectsNonHTTPScheme(t *testing.T) {
	gate := safeurl.New()
	result := gate.IsSafe(context.Background(), "ftp://example.com")
	assert.False(t, result.Safe)
}

func TestIsSafe_RejectsLoopbackLiteral(t *testing.T) {
	gate := safeurl.New()
	result := gate.IsSafe(context.Background(), "http://127.0.0.1/")
	assert.False(t, result.Safe)
}

func TestIsSafe_RejectsRFC1918Literal(t *testing.T) {
	gate := safeurl.New()
	result := gate.IsSafe(context.Background(), "http://192.168.1.1/")
	assert.False(t, result.Safe)
}

func TestIsSafe_AllowsPublicLiteral(t *testing.T) {
	gate := safeurl.New()
	result := gate.IsSafe(context.Background(), "http://93.184.216.34/")
	assert.True(t, result.Safe)
}

func TestIsSafe_DNSRebindingGuard(t *testing.T) {
	resolver := fakeResolver{addrs: map[string][]net.IPAddr{
		"evil.com": {{IP: net.ParseIP("10.0.0.5")}},
	}}
	gate := safeurl.NewWithResolver(resolver)

	result := gate.IsSafe(context.Background(), "http://evil.com/")
	assert.False(t, result.Safe)
	assert.Contains(t, result.Reason, "dns-rebinding")
}

func TestIsSafe_DNSFailureIsNonFatal(t *testing.T) {
	resolver := fakeResolver{err: assert.AnError}
	gate := safeurl.NewWithResolver(resolver)

	result := gate.IsSafe(context.Background(), "http://unresolvable.invalid/")
	assert.True(t, result.Safe)
}

func TestIsSafe_AllowsOrdinaryHost(t *testing.T) {
	resolver := fakeResolver{addrs: map[string][]net.IPAddr{
		"example.se": {{IP: net.ParseIP("93.184.216.34")}},
	}}
	gate := safeurl.NewWithResolver(resolver)

	result := gate.IsSafe(context.Background(), "https://example.se/kontakt")
	assert.True(t, result.Safe)
}
