package domain

import "time"

// EmailType classifies the function of an email address.
type EmailType string

// Email type constants, in classification precedence order.
const (
	EmailTypeRole     EmailType = "role"
	EmailTypePersonal EmailType = "personal"
	EmailTypeGeneric  EmailType = "generic"
	EmailTypeUnknown  EmailType = "unknown"
)

// EmailEvidence is one raw sighting of an email address, as produced by
// an extractor sub-pass, before classification/scoring.
type EmailEvidence struct {
	Email      string
	Source     string // "json-ld" | "mailto" | "footer" | "inline"
	Confidence float64
	Context    string
}

// Socials holds the three social-profile links the extractor recognizes.
type Socials struct {
	LinkedIn string
	Facebook string
	X        string
}

// IsEmpty reports whether no social field is populated.
func (s Socials) IsEmpty() bool {
	return s.LinkedIn == "" && s.Facebook == "" && s.X == ""
}

// MergeFirstWins copies fields from other into s wherever s's field is
// currently empty (I5: first non-empty value wins per site).
func (s *Socials) MergeFirstWins(other Socials) {
	if s.LinkedIn == "" {
		s.LinkedIn = other.LinkedIn
	}
	if s.Facebook == "" {
		s.Facebook = other.Facebook
	}
	if s.X == "" {
		s.X = other.X
	}
}

// PageResult is the cacheable result of crawling a single URL.
type PageResult struct {
	Emails  []EmailEvidence `json:"emails"`
	Phones  []string        `json:"phones"`
	Socials Socials         `json:"socials"`
}

// EmailAggregate is the classified, scored record of one email address
// discovered somewhere on a site, with every page it was seen on.
type EmailAggregate struct {
	Email         string
	EmailType     EmailType
	Confidence    float64
	Sources       []string
	DiscoveryPath string
	SourceURL     string
}

// CrawlIssue records one error or warning encountered while crawling a
// site, optionally scoped to a single URL.
type CrawlIssue struct {
	URL    string
	Reason string
}

// SiteResult is the aggregated, in-progress result of crawling one site.
// It is owned exclusively by the goroutine running that site's crawl;
// nothing else may mutate it concurrently.
type SiteResult struct {
	CompanyName string
	Website     string
	Domain      string

	emails map[string]*EmailAggregate
	phones map[string]struct{}
	pages  map[string]struct{}

	Socials    Socials
	SourcePages []string
	Errors      []CrawlIssue
}

// NewSiteResult creates an empty aggregated result for one site.
func NewSiteResult(companyName, website, domainName string) *SiteResult {
	return &SiteResult{
		CompanyName: companyName,
		Website:     website,
		Domain:      domainName,
		emails:      make(map[string]*EmailAggregate),
		phones:      make(map[string]struct{}),
		pages:       make(map[string]struct{}),
	}
}

// AddError records a non-fatal per-URL or per-site issue.
func (r *SiteResult) AddError(url, reason string) {
	r.Errors = append(r.Errors, CrawlIssue{URL: url, Reason: reason})
}

// AddPage records that a candidate URL was successfully crawled.
func (r *SiteResult) AddPage(url string) {
	if _, ok := r.pages[url]; ok {
		return
	}
	r.pages[url] = struct{}{}
	r.SourcePages = append(r.SourcePages, url)
}

// MergeEmail records one evidence sighting of an email. On first
// sighting the classify function computes the EmailAggregate (I1:
// classification is computed once); on subsequent sightings only the
// Sources list grows.
func (r *SiteResult) MergeEmail(ev EmailEvidence, pageURL string, classify func(email string) (EmailType, float64)) {
	existing, ok := r.emails[ev.Email]
	if !ok {
		emailType, confidence := classify(ev.Email)
		r.emails[ev.Email] = &EmailAggregate{
			Email:         ev.Email,
			EmailType:     emailType,
			Confidence:    confidence,
			Sources:       []string{ev.Source},
			DiscoveryPath: ev.Source,
			SourceURL:     pageURL,
		}
		return
	}

	for _, s := range existing.Sources {
		if s == ev.Source {
			return
		}
	}
	existing.Sources = append(existing.Sources, ev.Source)
}

// AddPhone records an already E.164-normalized phone number (I3:
// dedup collapses duplicates).
func (r *SiteResult) AddPhone(e164 string) {
	r.phones[e164] = struct{}{}
}

// Emails returns the aggregated emails, keyed by address. The returned
// map is owned by the caller's read; do not mutate it.
func (r *SiteResult) Emails() map[string]*EmailAggregate {
	return r.emails
}

// Phones returns the deduplicated set of E.164 phone numbers discovered
// for this site. The numbers come from a map, so their order is not
// defined and can differ between calls and runs.
func (r *SiteResult) Phones() []string {
	out := make([]string, 0, len(r.phones))
	for p := range r.phones {
		out = append(out, p)
	}
	return out
}

// EmailCount returns the number of distinct emails discovered so far.
func (r *SiteResult) EmailCount() int { return len(r.emails) }

// PhoneCount returns the number of distinct phones discovered so far.
func (r *SiteResult) PhoneCount() int { return len(r.phones) }

// ContactRecord is one emitted, validated contact discovered during a
// site crawl.
type ContactRecord struct {
	SourceURL     string    `json:"sourceUrl"`
	Domain        string    `json:"domain"`
	Email         string    `json:"email"`
	EmailType     EmailType `json:"emailType"`
	Confidence    float64   `json:"confidence"`
	DiscoveryPath string    `json:"discoveryPath"`

	Phone       string  `json:"phone,omitempty"`
	ContactPage string  `json:"contactPage,omitempty"`
	Social      Socials `json:"social,omitempty"`
	RawEvidence string  `json:"rawEvidence,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}
