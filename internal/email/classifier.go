// Package email cleans, validates, classifies, and scores extracted
// email addresses.
package email

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/northfield/contactcrawl/internal/domain"
)

var (
	roleLocalPattern   = regexp.MustCompile(`^(info|kontakt|support|sales|kundtjanst|office|hej|hello|contact|admin|webmaster|inquiry|service)$`)
	personalDomainRx   = regexp.MustCompile(`@(gmail|hotmail|outlook|yahoo|live|icloud|protonmail|me\.com|aol|gmx|mail\.com)`)
	genericLocalRx     = regexp.MustCompile(`^[a-z]{1,2}$|^no-?reply`)
	noReplyRx          = regexp.MustCompile(`noreply|no-reply|donotreply`)
	junkRx             = regexp.MustCompile(`test|example|placeholder`)
	cleaningRejectRx   = regexp.MustCompile(`example\.com|user@domain\.com|noreply|donotreply|no-reply|test@|placeholder|u003e`)
	allowedTLDs        = map[string]struct{}{"se": {}, "com": {}, "info": {}, "nu": {}, "org": {}, "net": {}}
)

// Clean lowercases, trims, and rejects obviously-junk addresses before any
// further processing. ok is false if the address should be discarded.
func Clean(raw string) (cleaned string, ok bool) {
	cleaned = strings.ToLower(strings.TrimSpace(raw))
	if cleaningRejectRx.MatchString(cleaned) {
		return "", false
	}
	if !isValidFormat(cleaned) {
		return "", false
	}

	_, domainPart, found := splitAddress(cleaned)
	if !found {
		return "", false
	}

	tld := lastLabel(domainPart)
	if _, allowed := allowedTLDs[tld]; !allowed {
		return "", false
	}

	return cleaned, true
}

func isValidFormat(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}
	return parsed.Address == addr
}

func splitAddress(addr string) (local, domainPart string, ok bool) {
	at := strings.LastIndexByte(addr, '@')
	if at < 0 {
		return "", "", false
	}
	return addr[:at], addr[at+1:], true
}

func lastLabel(domainPart string) string {
	idx := strings.LastIndexByte(domainPart, '.')
	if idx < 0 {
		return domainPart
	}
	return domainPart[idx+1:]
}

// Classify determines the email's type and integer score given the site's
// host, following the precedence rules: role > personal > company-domain
// generic/role > unknown.
func Classify(emailAddr, siteHost string) (domain.EmailType, int) {
	local, domainPart, _ := splitAddress(emailAddr)

	companyDomain := isCompanyDomain(domainPart, siteHost)
	score := 50

	if companyDomain {
		score += 30
	}

	emailType := classifyType(local, domainPart, companyDomain)

	switch emailType {
	case domain.EmailTypeRole:
		score += 20
	case domain.EmailTypePersonal:
		score -= 10
	case domain.EmailTypeGeneric:
		score -= 20
	}

	if roleLocalPattern.MatchString(local) {
		score += 10
	}
	if noReplyRx.MatchString(emailAddr) {
		score -= 50
	}
	if junkRx.MatchString(emailAddr) {
		score -= 50
	}

	return emailType, clamp(score, 0, 100)
}

func classifyType(local, domainPart string, companyDomain bool) domain.EmailType {
	switch {
	case roleLocalPattern.MatchString(local):
		return domain.EmailTypeRole
	case personalDomainRx.MatchString("@" + domainPart):
		return domain.EmailTypePersonal
	case companyDomain:
		if genericLocalRx.MatchString(local) {
			return domain.EmailTypeGeneric
		}
		return domain.EmailTypeRole
	default:
		return domain.EmailTypeUnknown
	}
}

// isCompanyDomain reports whether siteHost and the email's domain share a
// suffix relationship in either direction.
func isCompanyDomain(emailDomain, siteHost string) bool {
	if emailDomain == "" || siteHost == "" {
		return false
	}
	return strings.HasSuffix(siteHost, emailDomain) || strings.HasSuffix(emailDomain, siteHost)
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// Confidence converts an integer score to the [0,1] range used on
// ContactRecord.
func Confidence(score int) float64 {
	return float64(clamp(score, 0, 100)) / 100
}
