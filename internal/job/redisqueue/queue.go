// Package redisqueue is the persistent job-broker collaborator: it
// enqueues and consumes enrichment jobs via a Redis Stream with a
// consumer group. A job that is read but never acknowledged stays in the
// group's pending list; this package does not reclaim, redeliver, or
// retry pending jobs.
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/job"
)

const (
	streamName       = "contactcrawl:jobs"
	jobDataField     = "job"
	enqueuedAtField  = "enqueued_at"
	defaultMaxLen    = 10_000
	defaultBlockTime = 5 * time.Second
	defaultBatchSize = 10
)

// Producer enqueues jobs onto the shared stream.
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer creates a Producer over an existing Redis client.
func NewProducer(client *redis.Client) *Producer {
	return &Producer{client: client, maxLen: defaultMaxLen}
}

// Submit builds a job.Input with a freshly generated ID, enqueues it,
// and returns the ID. It implements apisurface.JobSubmitter.
func (p *Producer) Submit(ctx context.Context, sites []domain.SiteInput, cfg domain.CrawlConfig) (uuid.UUID, error) {
	jobID := uuid.New()

	if _, err := p.Enqueue(ctx, job.Input{JobID: jobID, Sites: sites, Config: cfg}); err != nil {
		return uuid.Nil, err
	}

	return jobID, nil
}

// Enqueue appends input to the stream, trimming it to maxLen.
func (p *Producer) Enqueue(ctx context.Context, input job.Input) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("serialize job: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			jobDataField:    string(data),
			enqueuedAtField: time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}

	return id, nil
}

// Consumed is one job read from the stream, pending acknowledgement.
type Consumed struct {
	MessageID string
	Input     job.Input
}

// Consumer reads jobs from the shared stream via a consumer group, so
// multiple worker processes can share the queue without double-delivery.
type Consumer struct {
	client        *redis.Client
	consumerGroup string
	consumerID    string
	batchSize     int64
	blockTimeout  time.Duration
}

// Config configures a Consumer.
type Config struct {
	ConsumerGroup string
	ConsumerID    string
	BatchSize     int64
	BlockTimeout  time.Duration
}

// NewConsumer creates a Consumer and ensures the stream's consumer group
// exists.
func NewConsumer(ctx context.Context, client *redis.Client, cfg Config) (*Consumer, error) {
	if cfg.ConsumerID == "" {
		return nil, errors.New("consumer ID is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = defaultBlockTime
	}

	err := client.XGroupCreateMkStream(ctx, streamName, cfg.ConsumerGroup, "0").Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		// BUSYGROUP means the group already exists; anything else is fatal.
		if !isBusyGroup(err) {
			return nil, fmt.Errorf("create consumer group: %w", err)
		}
	}

	return &Consumer{
		client:        client,
		consumerGroup: cfg.ConsumerGroup,
		consumerID:    cfg.ConsumerID,
		batchSize:     cfg.BatchSize,
		blockTimeout:  cfg.BlockTimeout,
	}, nil
}

// Read blocks for up to BlockTimeout waiting for new jobs.
func (c *Consumer) Read(ctx context.Context) ([]Consumed, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.consumerGroup,
		Consumer: c.consumerID,
		Streams:  []string{streamName, ">"},
		Count:    c.batchSize,
		Block:    c.blockTimeout,
	}).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read jobs: %w", err)
	}

	var out []Consumed
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			parsed, parseErr := parseMessage(msg)
			if parseErr != nil {
				continue
			}
			out = append(out, parsed)
		}
	}

	return out, nil
}

// Ack acknowledges successful processing of messageID.
func (c *Consumer) Ack(ctx context.Context, messageID string) error {
	return c.client.XAck(ctx, streamName, c.consumerGroup, messageID).Err()
}

func parseMessage(msg redis.XMessage) (Consumed, error) {
	raw, ok := msg.Values[jobDataField].(string)
	if !ok {
		return Consumed{}, errors.New("missing job payload")
	}

	var input job.Input
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return Consumed{}, fmt.Errorf("unmarshal job: %w", err)
	}

	return Consumed{MessageID: msg.ID, Input: input}, nil
}

func isBusyGroup(err error) bool {
	return err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists"
}
