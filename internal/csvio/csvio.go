// Package csvio is the CSV ingress/egress collaborator: it infers the
// website/company columns from a header row, normalizes each row into a
// domain.SiteInput, and rejects rows pointing at directory/social
// listings the crawler is not meant to target, then writes
// ContactRecords back out as CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/northfield/contactcrawl/internal/domain"
)

var websiteHeaderHints = []string{"website", "webb", "hemsida", "url", "site", "domän", "domain", "www", "web", "link"}

var companyHeaderHints = []string{"företag", "company", "bolag", "organisation", "org", "brand", "name", "namn", "title", "företagsnamn"}

var blockedDirectories = []string{
	"facebook", "instagram", "linkedin", "bokadirekt", "reco", "hitta",
	"eniro", "allabolag", "yelp", "maps.google",
}

// RejectedRow describes one CSV row that could not be normalized into a
// SiteInput.
type RejectedRow struct {
	Row     int
	Website string
	Reason  string
}

// ParseResult holds every successfully normalized site and every
// rejected row from one CSV ingress pass.
type ParseResult struct {
	Sites    []domain.SiteInput
	Rejected []RejectedRow
}

// Parse reads a CSV ingress file, inferring the website and company
// columns from the header row by case-insensitive substring match.
func Parse(r io.Reader) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ParseResult{}, fmt.Errorf("read header: %w", err)
	}

	websiteCol := findColumn(header, websiteHeaderHints)
	companyCol := findColumn(header, companyHeaderHints)
	if websiteCol < 0 {
		return ParseResult{}, fmt.Errorf("no website column found in header %v", header)
	}

	var result ParseResult
	rowNum := 1

	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return result, fmt.Errorf("read row %d: %w", rowNum, readErr)
		}
		rowNum++

		website := column(record, websiteCol)
		company := column(record, companyCol)

		site, ok, reason := normalizeRow(website, company)
		if !ok {
			result.Rejected = append(result.Rejected, RejectedRow{Row: rowNum, Website: website, Reason: reason})
			continue
		}

		result.Sites = append(result.Sites, site)
	}

	return result, nil
}

func normalizeRow(website, company string) (domain.SiteInput, bool, string) {
	website = strings.TrimSpace(website)
	if website == "" {
		return domain.SiteInput{}, false, "empty website value"
	}

	lower := strings.ToLower(website)
	for _, blocked := range blockedDirectories {
		if strings.Contains(lower, blocked) {
			return domain.SiteInput{}, false, "blocked directory/social domain: " + blocked
		}
	}

	if !strings.Contains(website, "://") {
		website = "https://" + website
	}

	parsed, err := url.Parse(website)
	if err != nil || parsed.Host == "" {
		return domain.SiteInput{}, false, "unparsable url"
	}

	scheme := parsed.Scheme
	if scheme != "http" && scheme != "https" {
		scheme = "https"
	}

	return domain.NewSiteInput(scheme, parsed.Host, strings.TrimSpace(company)), true, ""
}

func findColumn(header []string, hints []string) int {
	for i, col := range header {
		lower := strings.ToLower(col)
		for _, hint := range hints {
			if strings.Contains(lower, hint) {
				return i
			}
		}
	}
	return -1
}

func column(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

var csvHeader = []string{
	"sourceUrl", "domain", "email", "emailType", "confidence", "discoveryPath",
	"phone", "contactPage", "linkedin", "facebook", "x", "rawEvidence", "timestamp",
}

// WriteRecords emits ContactRecords as CSV egress.
func WriteRecords(w io.Writer, records []domain.ContactRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		timestamp := ""
		if r.Timestamp != nil {
			timestamp = r.Timestamp.Format("2006-01-02T15:04:05Z07:00")
		}

		row := []string{
			r.SourceURL, r.Domain, r.Email, string(r.EmailType),
			fmt.Sprintf("%.2f", r.Confidence), r.DiscoveryPath,
			r.Phone, r.ContactPage, r.Social.LinkedIn, r.Social.Facebook, r.Social.X,
			r.RawEvidence, timestamp,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record row: %w", err)
		}
	}

	return writer.Error()
}
