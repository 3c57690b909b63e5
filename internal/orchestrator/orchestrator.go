// Package orchestrator runs a whole enrichment job: it fans out the
// job's sites across a bounded pool of concurrent site crawls, collects
// contact records and per-host errors, and reports progress.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/northfield/contactcrawl/internal/audit"
	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/job"
	"github.com/northfield/contactcrawl/internal/obslog"
	"github.com/northfield/contactcrawl/internal/obsmetrics"
	"github.com/northfield/contactcrawl/internal/record"
	"github.com/northfield/contactcrawl/internal/sitecrawl"
)

// ProgressFunc receives progress updates at least once per site.
type ProgressFunc func(job.Progress)

// Orchestrator runs jobs against a single Crawler, bounding cross-site
// concurrency to the job's configured value.
type Orchestrator struct {
	crawler *sitecrawl.Crawler
	metrics *obsmetrics.Metrics
	audit   *audit.Logger
	log     obslog.Logger
}

// New builds an Orchestrator. metrics and auditLog may be nil.
func New(crawler *sitecrawl.Crawler, metrics *obsmetrics.Metrics, auditLog *audit.Logger, log obslog.Logger) *Orchestrator {
	if log == nil {
		log = obslog.NewNop()
	}
	return &Orchestrator{crawler: crawler, metrics: metrics, audit: auditLog, log: log}
}

// Run executes input, calling onProgress at least once per site, and
// returns the job's result envelope. Run never returns an error for
// per-site or per-URL failures; those are captured in the Result.
func (o *Orchestrator) Run(ctx context.Context, input job.Input, onProgress ProgressFunc) job.Result {
	total := len(input.Sites)

	if o.metrics != nil {
		o.metrics.SetActiveJobs(1)
		defer o.metrics.SetActiveJobs(0)
	}

	var (
		mu        sync.Mutex
		records   []domain.ContactRecord
		hostErrs  []job.HostErrors
		processed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clampConcurrency(input.Config.Concurrency))

	for _, site := range input.Sites {
		site := site

		g.Go(func() error {
			result := o.crawler.Crawl(gctx, site, input.Config)
			siteRecords := record.Build(result, time.Now())

			o.recordAudit(input.JobID, site.Host, input.Config.User, len(siteRecords))

			mu.Lock()
			defer mu.Unlock()

			records = append(records, siteRecords...)
			if len(result.Errors) > 0 {
				hostErrs = append(hostErrs, job.HostErrors{Host: site.Host, Errors: result.Errors})
			}
			processed++

			if onProgress != nil {
				onProgress(job.Progress{
					Percentage: processed * 100 / maxInt(total, 1),
					Current:    site.Host,
					Processed:  processed,
					Total:      total,
					Found:      len(records),
				})
			}

			return nil
		})
	}

	// Run errors are never fatal at the job level (per-site failures are
	// already captured above); ignore the aggregate error.
	_ = g.Wait()

	return job.Result{
		Records: records,
		Errors:  hostErrs,
		Stats:   job.NewStats(total, records, hostErrs),
	}
}

func (o *Orchestrator) recordAudit(jobID uuid.UUID, host, user string, found int) {
	if o.audit == nil {
		return
	}
	if err := o.audit.RecordCrawl(jobID.String(), host, user, found, time.Now()); err != nil {
		o.log.Warn("audit write failed", obslog.String("host", host), obslog.ErrField(err))
	}
}

func clampConcurrency(n int) int {
	if n < 1 {
		return domain.DefaultConcurrency
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
