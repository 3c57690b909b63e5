package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/northfield/contactcrawl/internal/compliance"
	"github.com/northfield/contactcrawl/internal/config"
	"github.com/northfield/contactcrawl/internal/csvio"
	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/fetcher"
	"github.com/northfield/contactcrawl/internal/job"
	"github.com/northfield/contactcrawl/internal/obslog"
	"github.com/northfield/contactcrawl/internal/obsmetrics"
	"github.com/northfield/contactcrawl/internal/orchestrator"
	"github.com/northfield/contactcrawl/internal/ratelimit"
	"github.com/northfield/contactcrawl/internal/respcache"
	"github.com/northfield/contactcrawl/internal/robots"
	"github.com/northfield/contactcrawl/internal/safeurl"
	"github.com/northfield/contactcrawl/internal/sitecrawl"
)

func newCrawlCommand() *cobra.Command {
	var (
		csvPath     string
		outputPath  string
		maxPages    int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a batch of company websites from a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd.Context(), crawlOptions{
				csvPath:     csvPath,
				outputPath:  outputPath,
				maxPages:    maxPages,
				concurrency: concurrency,
			})
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "path to the CSV ingress file (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "path to write the CSV egress file (optional, stdout table otherwise)")
	cmd.Flags().IntVar(&maxPages, "max-pages", domain.DefaultMaxPages, "maximum pages to crawl per site")
	cmd.Flags().IntVar(&concurrency, "concurrency", domain.DefaultConcurrency, "maximum number of sites crawled in parallel")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

type crawlOptions struct {
	csvPath     string
	outputPath  string
	maxPages    int
	concurrency int
}

func runCrawl(ctx context.Context, opts crawlOptions) error {
	cfg := loadConfigOrExit()
	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	file, err := os.Open(opts.csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	parsed, err := csvio.Parse(file)
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}
	for _, rejected := range parsed.Rejected {
		log.Warn("csv row rejected", obslog.Int("row", rejected.Row), obslog.String("reason", rejected.Reason))
	}

	metrics := obsmetrics.New(prometheus.DefaultRegisterer)
	crawler := buildCrawler(cfg, metrics, log)
	orch := orchestrator.New(crawler, metrics, nil, log)

	crawlCfg := domain.CrawlConfig{MaxPages: opts.maxPages, Concurrency: opts.concurrency}
	_ = crawlCfg.Validate()

	result := orch.Run(ctx, job.Input{JobID: uuid.New(), Sites: parsed.Sites, Config: crawlCfg}, func(p job.Progress) {
		log.Info("progress",
			obslog.Int("processed", p.Processed),
			obslog.Int("total", p.Total),
			obslog.Int("found", p.Found),
		)
	})

	if opts.outputPath != "" {
		out, createErr := os.Create(opts.outputPath)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer out.Close()
		return csvio.WriteRecords(out, result.Records)
	}

	printResultTable(result)
	return nil
}

// buildCrawler wires every correctness gate into one sitecrawl.Crawler,
// backed by a Redis client when REDIS_URL is configured (response cache
// only; the job queue is wired separately by the serve command).
func buildCrawler(cfg config.Config, metrics *obsmetrics.Metrics, log obslog.Logger) *sitecrawl.Crawler {
	var cache *respcache.Cache
	if cfg.EnableCache && cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err == nil {
			cache = respcache.New(redis.NewClient(opts), log)
		}
	}

	limiter := ratelimit.New(ratelimit.Config{
		GlobalRPS:   float64(cfg.GlobalConcurrency) * 2,
		GlobalBurst: cfg.GlobalConcurrency,
		HostRPS:     1000.0 / float64(cfg.PerHostMinTimeMS),
		HostBurst:   10,
	})

	f := fetcher.New(fetcher.Config{
		UserAgent:      cfg.BotName,
		RequestTimeout: cfg.RequestTimeout(),
		MaxRetries:     cfg.MaxRetries,
	}, log)

	c := sitecrawl.New(
		safeurl.New(),
		robots.New(nil, cfg.BotName),
		limiter,
		cache,
		f,
		compliance.NewDNCList(),
		compliance.NewTOSList(),
		metrics,
		log,
	)
	c.BetweenRequests = cfg.BetweenRequests()

	return c
}

func printResultTable(result job.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Domain", "Email", "Type", "Confidence", "Phone", "Discovery"})

	for _, r := range result.Records {
		t.AppendRow(table.Row{r.Domain, r.Email, r.EmailType, fmt.Sprintf("%.2f", r.Confidence), r.Phone, r.DiscoveryPath})
	}

	t.Render()
	fmt.Printf("\n%d sites, %d records, %d hosts with errors\n", result.Stats.TotalSites, result.Stats.TotalRecords, len(result.Errors))
}
