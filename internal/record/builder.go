// Package record turns an aggregated domain.SiteResult into the
// validated ContactRecord objects a job emits.
package record

import (
	"regexp"
	"time"

	"github.com/northfield/contactcrawl/internal/domain"
)

var contactPageRx = regexp.MustCompile(`(?i)kontakt|contact`)

// Build emits one ContactRecord per aggregated email on result, attaching
// the first phone returned by result.Phones() (whose order is not
// defined, so which phone is attached can vary between runs) and the
// first source page matching the contact-page pattern.
func Build(result *domain.SiteResult, now time.Time) []domain.ContactRecord {
	phones := result.Phones()
	var firstPhone string
	if len(phones) > 0 {
		firstPhone = phones[0]
	}

	contactPage := firstContactPage(result.SourcePages)

	records := make([]domain.ContactRecord, 0, result.EmailCount())
	for _, agg := range result.Emails() {
		records = append(records, domain.ContactRecord{
			SourceURL:     agg.SourceURL,
			Domain:        result.Domain,
			Email:         agg.Email,
			EmailType:     agg.EmailType,
			Confidence:    agg.Confidence,
			DiscoveryPath: agg.DiscoveryPath,
			Phone:         firstPhone,
			ContactPage:   contactPage,
			Social:        result.Socials,
			RawEvidence:   joinSources(agg.Sources),
			Timestamp:     &now,
		})
	}

	return records
}

func firstContactPage(pages []string) string {
	for _, p := range pages {
		if contactPageRx.MatchString(p) {
			return p
		}
	}
	return ""
}

func joinSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}

	out := sources[0]
	for _, s := range sources[1:] {
		out += ", " + s
	}
	return out
}
