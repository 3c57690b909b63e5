package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/job"
)

func TestNewStats_ComputesAverageRecordsPerSite(t *testing.T) {
	records := []domain.ContactRecord{{Email: "a@acme.se"}, {Email: "b@acme.se"}}
	errs := []job.HostErrors{{Host: "acme.se", Errors: []domain.CrawlIssue{{URL: "x", Reason: "timeout"}}}}

	stats := job.NewStats(2, records, errs)

	assert.Equal(t, 2, stats.TotalSites)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.TotalErrors)
	assert.InDelta(t, 1.0, stats.AvgRecordsPerSite, 0.001)
}

func TestNewStats_ZeroSitesAvoidsDivideByZero(t *testing.T) {
	stats := job.NewStats(0, nil, nil)
	assert.Equal(t, 0.0, stats.AvgRecordsPerSite)
}
