package record_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/record"
)

func classifyAlwaysRole(_ string) (domain.EmailType, float64) {
	return domain.EmailTypeRole, 0.9
}

func TestBuild_EmitsOneRecordPerEmailWithAttachedPhoneAndContactPage(t *testing.T) {
	result := domain.NewSiteResult("Acme AB", "https://acme.se", "acme.se")
	result.AddPage("https://acme.se/")
	result.AddPage("https://acme.se/kontakt")
	result.MergeEmail(domain.EmailEvidence{Email: "info@acme.se", Source: "mailto"}, "https://acme.se/kontakt", classifyAlwaysRole)
	result.AddPhone("+46812345678")

	now := time.Now()
	records := record.Build(result, now)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "info@acme.se", rec.Email)
	assert.Equal(t, "https://acme.se/kontakt", rec.SourceURL)
	assert.Equal(t, "+46812345678", rec.Phone)
	assert.Equal(t, "https://acme.se/kontakt", rec.ContactPage)
	assert.Equal(t, domain.EmailTypeRole, rec.EmailType)
	assert.NotNil(t, rec.Timestamp)
}

func TestBuild_NoContactPageWhenNoneMatches(t *testing.T) {
	result := domain.NewSiteResult("Acme AB", "https://acme.se", "acme.se")
	result.AddPage("https://acme.se/")
	result.MergeEmail(domain.EmailEvidence{Email: "info@acme.se", Source: "inline"}, "https://acme.se/", classifyAlwaysRole)

	records := record.Build(result, time.Now())

	require.Len(t, records, 1)
	assert.Empty(t, records[0].ContactPage)
}

func TestBuild_JoinsMultipleSourcesAsRawEvidence(t *testing.T) {
	result := domain.NewSiteResult("Acme AB", "https://acme.se", "acme.se")
	result.MergeEmail(domain.EmailEvidence{Email: "info@acme.se", Source: "mailto"}, "https://acme.se/", classifyAlwaysRole)
	result.MergeEmail(domain.EmailEvidence{Email: "info@acme.se", Source: "inline"}, "https://acme.se/om", classifyAlwaysRole)

	records := record.Build(result, time.Now())

	require.Len(t, records, 1)
	assert.Contains(t, records[0].RawEvidence, "mailto")
	assert.Contains(t, records[0].RawEvidence, "inline")
}

func TestBuild_EmptySiteProducesNoRecords(t *testing.T) {
	result := domain.NewSiteResult("Acme AB", "https://acme.se", "acme.se")
	records := record.Build(result, time.Now())
	assert.Empty(t, records)
}
