// Package extract runs the four independent sub-extractors over a parsed
// HTML document and merges their evidence into a domain.PageResult.
package extract

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/email"
	"github.com/northfield/contactcrawl/internal/phone"
)

const (
	DiscoveryJSONLD = "json-ld"
	DiscoveryMailto = "mailto"
	DiscoveryFooter = "footer"
	DiscoveryInline = "inline"
)

const (
	confidenceJSONLD       = 0.95
	confidenceMailto       = 0.85
	confidenceFooter       = 0.60
	confidenceInlineContact = 0.70
	confidenceInlineGeneric = 0.50
)

var inlineEmailRx = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,24}`)

var contactPathRx = regexp.MustCompile(`(?i)(kontakt|kontakta|about|om|team|medarbetare|personal|ledning|contact)`)

var jsonLDTypes = map[string]struct{}{
	"Organization":       {},
	"LocalBusiness":      {},
	"Corporation":        {},
	"Store":              {},
	"ProfessionalService": {},
}

var socialHostMatchers = map[string]func(*domain.Socials, string){
	"linkedin.com": func(s *domain.Socials, url string) { s.LinkedIn = url },
	"facebook.com": func(s *domain.Socials, url string) { s.Facebook = url },
	"x.com":        func(s *domain.Socials, url string) { s.X = url },
	"twitter.com":  func(s *domain.Socials, url string) { s.X = url },
}

// Extract runs every sub-extractor over html and returns the merged page
// result, plus raw phone candidates for the caller to normalize.
func Extract(html, pageURL string) (domain.PageResult, []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.PageResult{}, nil
	}

	contactLike := isContactLikePath(pageURL)

	var result domain.PageResult
	var phoneCandidates []string

	jsonLDEmails, jsonLDPhones, socials := extractJSONLD(doc)
	result.Emails = append(result.Emails, jsonLDEmails...)
	phoneCandidates = append(phoneCandidates, jsonLDPhones...)
	result.Socials = socials

	result.Emails = append(result.Emails, extractMailto(doc)...)
	result.Emails = append(result.Emails, extractFooterMailto(doc)...)
	result.Emails = append(result.Emails, extractInline(doc, contactLike)...)

	phoneCandidates = append(phoneCandidates, extractTelHrefs(doc)...)
	phoneCandidates = append(phoneCandidates, phone.FindCandidates(doc.Text())...)

	return cleanEmails(result), phoneCandidates
}

// cleanEmails applies the cleaning pipeline and dedupes by email within
// this single page's result.
func cleanEmails(result domain.PageResult) domain.PageResult {
	seen := make(map[string]struct{}, len(result.Emails))
	cleaned := result.Emails[:0]

	for _, ev := range result.Emails {
		addr, ok := email.Clean(ev.Email)
		if !ok {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}

		ev.Email = addr
		cleaned = append(cleaned, ev)
	}

	result.Emails = cleaned
	return result
}

type jsonLDContactPoint struct {
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

type jsonLDItem struct {
	Type          string               `json:"@type"`
	Email         string               `json:"email"`
	Telephone     string               `json:"telephone"`
	SameAs        []string             `json:"sameAs"`
	ContactPoints []jsonLDContactPoint `json:"contactPoint"`
}

func extractJSONLD(doc *goquery.Document) ([]domain.EmailEvidence, []string, domain.Socials) {
	var emails []domain.EmailEvidence
	var phones []string
	var socials domain.Socials

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := sel.Text()

		var item jsonLDItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return // malformed JSON-LD is silently ignored
		}
		if _, ok := jsonLDTypes[item.Type]; !ok {
			return
		}

		if item.Email != "" {
			emails = append(emails, domain.EmailEvidence{Email: item.Email, Source: DiscoveryJSONLD, Confidence: confidenceJSONLD})
		}
		if item.Telephone != "" {
			phones = append(phones, item.Telephone)
		}
		for _, cp := range item.ContactPoints {
			if cp.Email != "" {
				emails = append(emails, domain.EmailEvidence{Email: cp.Email, Source: DiscoveryJSONLD, Confidence: confidenceJSONLD})
			}
			if cp.Telephone != "" {
				phones = append(phones, cp.Telephone)
			}
		}
		for _, link := range item.SameAs {
			for host, assign := range socialHostMatchers {
				if strings.Contains(link, host) {
					assign(&socials, link)
				}
			}
		}
	})

	return emails, phones, socials
}

func extractMailto(doc *goquery.Document) []domain.EmailEvidence {
	var out []domain.EmailEvidence
	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		addr := mailtoAddress(href)
		if addr == "" {
			return
		}
		out = append(out, domain.EmailEvidence{Email: addr, Source: DiscoveryMailto, Confidence: confidenceMailto})
	})
	return out
}

func extractFooterMailto(doc *goquery.Document) []domain.EmailEvidence {
	var out []domain.EmailEvidence
	doc.Find(`footer a[href^="mailto:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		addr := mailtoAddress(href)
		if addr == "" {
			return
		}
		out = append(out, domain.EmailEvidence{Email: addr, Source: DiscoveryFooter, Confidence: confidenceFooter})
	})
	return out
}

func extractInline(doc *goquery.Document, contactLike bool) []domain.EmailEvidence {
	confidence := confidenceInlineGeneric
	if contactLike {
		confidence = confidenceInlineContact
	}

	matches := inlineEmailRx.FindAllString(doc.Text(), -1)
	out := make([]domain.EmailEvidence, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.EmailEvidence{Email: m, Source: DiscoveryInline, Confidence: confidence})
	}
	return out
}

func extractTelHrefs(doc *goquery.Document) []string {
	var out []string
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		out = append(out, strings.TrimPrefix(href, "tel:"))
	})
	return out
}

// isContactLikePath reports whether pageURL's path (not its full string,
// which would spuriously match the "om" pattern against any .com host)
// matches the contact-page pattern.
func isContactLikePath(pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return contactPathRx.MatchString(parsed.Path)
}

// sameHost reports whether href is relative (no host component) or
// points at the given host.
func sameHost(href, host string) bool {
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	return parsed.Host == "" || strings.EqualFold(parsed.Host, host)
}

func mailtoAddress(href string) string {
	addr := strings.TrimPrefix(href, "mailto:")
	if idx := strings.IndexByte(addr, '?'); idx >= 0 {
		addr = addr[:idx]
	}
	return strings.TrimSpace(addr)
}

// DiscoverContactPages collects same-host anchor hrefs whose path or
// visible text matches the contact-page pattern, deduped and capped at 5.
func DiscoverContactPages(doc *goquery.Document, host string) []string {
	const maxPages = 5

	seen := make(map[string]struct{})
	var out []string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		text := sel.Text()

		if !sameHost(href, host) {
			return true
		}
		if !contactPathRx.MatchString(href) && !contactPathRx.MatchString(text) {
			return true
		}
		if _, dup := seen[href]; dup {
			return true
		}
		seen[href] = struct{}{}
		out = append(out, href)

		return len(out) < maxPages
	})

	return out
}
