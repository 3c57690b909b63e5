// Package phone extracts, normalizes, and validates Swedish phone
// numbers into E.164 form.
package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is used whenever a candidate has no explicit country
// code: the crawler's fixed locale is Sweden.
const defaultRegion = "SE"

// candidateRx finds phone-shaped substrings in page text.
var candidateRx = regexp.MustCompile(`(\+?\d[\d\s().\-]{5,}\d)`)

var repeatDigitRx = regexp.MustCompile(`(\d)\1{6,}`)

// FindCandidates returns every phone-shaped substring in text, unparsed.
func FindCandidates(text string) []string {
	return candidateRx.FindAllString(text, -1)
}

// Parse normalizes a single candidate to E.164, accepting only numbers
// the library reports as valid, region SE, length 9-15, with no run of
// 7+ repeated digits (rejects placeholders like +4600000000).
func Parse(candidate string) (string, bool) {
	stripped := stripPunct(candidate)
	if strings.HasPrefix(stripped, "0") {
		stripped = "+46" + stripped[1:]
	}
	if !strings.HasPrefix(stripped, "+") {
		return "", false
	}

	num, err := phonenumbers.Parse(stripped, defaultRegion)
	if err != nil {
		return "", false
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	if phonenumbers.GetRegionCodeForNumber(num) != "SE" {
		return "", false
	}

	e164 := phonenumbers.Format(num, phonenumbers.E164)
	digits := strings.TrimPrefix(e164, "+")
	if len(digits) < 9 || len(digits) > 15 {
		return "", false
	}
	if repeatDigitRx.MatchString(digits) {
		return "", false
	}

	return e164, true
}

func stripPunct(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '(', ')', ' ', '.', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
