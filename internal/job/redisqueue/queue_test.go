package redisqueue_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northfield/contactcrawl/internal/domain"
	"github.com/northfield/contactcrawl/internal/job/redisqueue"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestProducer_SubmitAssignsJobIDAndEnqueues(t *testing.T) {
	client := newTestClient(t)
	producer := redisqueue.NewProducer(client)

	jobID, err := producer.Submit(context.Background(), []domain.SiteInput{
		domain.NewSiteInput("https", "acme.se", "Acme AB"),
	}, domain.CrawlConfig{})

	require.NoError(t, err)
	assert.NotEqual(t, "", jobID.String())
}

func TestConsumer_ReadsAndAcksEnqueuedJob(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	producer := redisqueue.NewProducer(client)

	_, err := producer.Submit(ctx, []domain.SiteInput{
		domain.NewSiteInput("https", "acme.se", "Acme AB"),
	}, domain.CrawlConfig{})
	require.NoError(t, err)

	consumer, err := redisqueue.NewConsumer(ctx, client, redisqueue.Config{
		ConsumerGroup: "workers",
		ConsumerID:    "worker-1",
	})
	require.NoError(t, err)

	items, err := consumer.Read(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "acme.se", items[0].Input.Sites[0].Host)

	assert.NoError(t, consumer.Ack(ctx, items[0].MessageID))
}

func TestNewConsumer_RequiresConsumerID(t *testing.T) {
	client := newTestClient(t)
	_, err := redisqueue.NewConsumer(context.Background(), client, redisqueue.Config{ConsumerGroup: "workers"})
	assert.Error(t, err)
}
