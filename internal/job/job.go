// Package job defines the enrichment job contract consumed from the job
// broker: input sites and config, progress reporting, and the final
// result envelope.
package job

import (
	"github.com/google/uuid"

	"github.com/northfield/contactcrawl/internal/domain"
)

// Input is one enrichment job as read from the broker.
type Input struct {
	JobID  uuid.UUID            `json:"jobId"`
	Sites  []domain.SiteInput   `json:"sites"`
	Config domain.CrawlConfig   `json:"config"`
}

// Progress reports how far a job has gotten, suitable for an
// at-least-per-site progress stream.
type Progress struct {
	Percentage int    `json:"percentage"`
	Current    string `json:"current,omitempty"`
	Processed  int    `json:"processed"`
	Total      int    `json:"total"`
	Found      int    `json:"found"`
}

// HostErrors bundles every per-URL issue recorded against one host.
type HostErrors struct {
	Host   string              `json:"host"`
	Errors []domain.CrawlIssue `json:"errors"`
}

// Stats summarizes a completed job.
type Stats struct {
	TotalSites          int     `json:"totalSites"`
	TotalRecords         int     `json:"totalRecords"`
	TotalErrors          int     `json:"totalErrors"`
	AvgRecordsPerSite    float64 `json:"avgRecordsPerSite"`
}

// Result is the envelope returned for a completed job. It never carries
// an exception: partial results are always returned, with failures
// enumerated in Errors.
type Result struct {
	Records []domain.ContactRecord `json:"records"`
	Errors  []HostErrors            `json:"errors"`
	Stats   Stats                    `json:"stats"`
}

// NewStats computes Stats from a completed job's records and errors.
func NewStats(totalSites int, records []domain.ContactRecord, errs []HostErrors) Stats {
	totalErrors := 0
	for _, e := range errs {
		totalErrors += len(e.Errors)
	}

	avg := 0.0
	if totalSites > 0 {
		avg = float64(len(records)) / float64(totalSites)
	}

	return Stats{
		TotalSites:       totalSites,
		TotalRecords:      len(records),
		TotalErrors:       totalErrors,
		AvgRecordsPerSite: avg,
	}
}
