package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/northfield/contactcrawl/internal/apisurface"
	"github.com/northfield/contactcrawl/internal/audit"
	"github.com/northfield/contactcrawl/internal/job"
	"github.com/northfield/contactcrawl/internal/job/redisqueue"
	"github.com/northfield/contactcrawl/internal/obslog"
	"github.com/northfield/contactcrawl/internal/obsmetrics"
	"github.com/northfield/contactcrawl/internal/orchestrator"
)

func newServeCommand() *cobra.Command {
	var (
		addr      string
		auditPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the job queue consumer and HTTP surface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), addr, auditPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address for the HTTP surface")
	cmd.Flags().StringVar(&auditPath, "audit-log", "audit.jsonl", "path to the append-only audit log")

	return cmd
}

func runServe(ctx context.Context, addr, auditPath string) error {
	cfg := loadConfigOrExit()
	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	if cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for serve mode")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	auditLog, err := audit.Open(auditPath)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer auditLog.Close()

	metrics := obsmetrics.New(prometheus.DefaultRegisterer)
	crawler := buildCrawler(cfg, metrics, log)
	orch := orchestrator.New(crawler, metrics, auditLog, log)

	producer := redisqueue.NewProducer(client)

	consumerID := uuid.New().String()
	consumer, err := redisqueue.NewConsumer(ctx, client, redisqueue.Config{
		ConsumerGroup: "crawlers",
		ConsumerID:    consumerID,
	})
	if err != nil {
		return fmt.Errorf("create job consumer: %w", err)
	}

	apiServer := apisurface.New(apisurface.Config{Addr: addr}, producer, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go consumeJobs(ctx, consumer, orch, log)

	errCh := make(chan error, 1)
	go func() { errCh <- apiServer.Start() }()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		return apiServer.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func consumeJobs(ctx context.Context, consumer *redisqueue.Consumer, orch *orchestrator.Orchestrator, log obslog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		consumed, err := consumer.Read(ctx)
		if err != nil {
			log.Error("job read failed", obslog.ErrField(err))
			continue
		}

		for _, item := range consumed {
			processJob(ctx, consumer, orch, item, log)
		}
	}
}

func processJob(ctx context.Context, consumer *redisqueue.Consumer, orch *orchestrator.Orchestrator, item redisqueue.Consumed, log obslog.Logger) {
	result := orch.Run(ctx, item.Input, func(p job.Progress) {
		log.Info("job progress",
			obslog.String("jobId", item.Input.JobID.String()),
			obslog.Int("processed", p.Processed),
			obslog.Int("total", p.Total),
		)
	})

	log.Info("job completed",
		obslog.String("jobId", item.Input.JobID.String()),
		obslog.Int("records", result.Stats.TotalRecords),
		obslog.Int("errors", result.Stats.TotalErrors),
	)

	if err := consumer.Ack(ctx, item.MessageID); err != nil {
		log.Error("ack failed", obslog.String("jobId", item.Input.JobID.String()), obslog.ErrField(err))
	}
}
