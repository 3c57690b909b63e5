// Package captcha recognizes challenge pages (captcha walls, bot-check
// interstitials) so the site crawler can skip them instead of treating
// an empty challenge page as "no contacts found."
package captcha

import "strings"

// markers are substrings seen in known challenge-page HTML. Matching is
// case-insensitive and deliberately broad: a false positive just skips a
// page early, a false negative wastes one extraction pass.
var markers = []string{
	"recaptcha",
	"g-recaptcha",
	"grecaptcha",
	"hcaptcha",
	"cloudflare",
	"cf-browser-verification",
	"challenge-platform",
	"just a moment",
	"attention required",
}

// Detect reports whether html appears to be a challenge page rather than
// real content, along with which marker matched.
func Detect(html string) (bool, string) {
	lower := strings.ToLower(html)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true, m
		}
	}
	return false, ""
}
