package orchestrator_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/northfield/contactcrawl/internal/compliance"
	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/fetcher"
	"github.com/northfield/contactcrawl/internal/job"
	"github.com/northfield/contactcrawl/internal/orchestrator"
	"github.com/northfield/contactcrawl/internal/ratelimit"
	"github.com/northfield/contactcrawl/internal/robots"
	"github.com/northfield/contactcrawl/internal/safeurl"
	"github.com/northfield/contactcrawl/internal/sitecrawl"
)

func newTestOrchestrator(t *testing.T) *orchestrator.Orchestrator {
	t.Helper()
	dnc := compliance.NewDNCList()
	crawler := sitecrawl.New(
		safeurl.New(),
		robots.New(nil, "contactcrawl-test"),
		ratelimit.New(ratelimit.DefaultConfig()),
		nil,
		fetcher.New(fetcher.Config{}, nil),
		dnc,
		compliance.NewTOSList(),
		nil,
		nil,
	)
	return orchestrator.New(crawler, nil, nil, nil)
}

func TestRun_ReturnsOneHostErrorPerBlockedSiteWithoutFatalError(t *testing.T) {
	dnc := compliance.NewDNCList()
	dnc.Add("blocked-one.se")
	dnc.Add("blocked-two.se")

	crawler := sitecrawl.New(
		safeurl.New(),
		robots.New(nil, "contactcrawl-test"),
		ratelimit.New(ratelimit.DefaultConfig()),
		nil,
		fetcher.New(fetcher.Config{}, nil),
		dnc,
		compliance.NewTOSList(),
		nil,
		nil,
	)
	orch := orchestrator.New(crawler, nil, nil, nil)

	input := job.Input{
		JobID: uuid.New(),
		Sites: []domain.SiteInput{
			domain.NewSiteInput("https", "blocked-one.se", "One AB"),
			domain.NewSiteInput("https", "blocked-two.se", "Two AB"),
		},
		Config: domain.CrawlConfig{MaxPages: 1, Concurrency: 2},
	}

	var progressCalls int
	result := orch.Run(context.Background(), input, func(job.Progress) { progressCalls++ })

	assert.Equal(t, 2, progressCalls)
	assert.Equal(t, 2, result.Stats.TotalSites)
	assert.Len(t, result.Errors, 2)
	assert.Empty(t, result.Records)
}

func TestRun_EmptyJobReturnsEmptyResult(t *testing.T) {
	orch := newTestOrchestrator(t)

	result := orch.Run(context.Background(), job.Input{JobID: uuid.New()}, nil)

	assert.Empty(t, result.Records)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, result.Stats.TotalSites)
}
