//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"pavrica/internal/platform/config"
	"pavrica/pkg/testutil/containers"
)

func TestPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.NewRedpandaContainer(t).Broker

	cfg := config.Kafka{
		Brokers: []string{broker},
		Topic:   "pavrica.registrations.test",
	}

	publisher, err := NewPublisher(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, publisher)
	t.Cleanup(publisher.Close)

	t.Run("publishes keyed records to the audit topic", func(t *testing.T) {
		require.NoError(t, publisher.Publish(ctx, "agent-7", []byte(`{"outcome":"succeeded"}`)))
		require.NoError(t, publisher.Publish(ctx, "agent-8", []byte(`{"outcome":"failed"}`)))

		consumer, err := kgo.NewClient(
			kgo.SeedBrokers(broker),
			kgo.ConsumeTopics(cfg.Topic),
			kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		)
		require.NoError(t, err)
		t.Cleanup(consumer.Close)

		records := make(map[string]string)
		deadline := time.Now().Add(30 * time.Second)
		for len(records) < 2 && time.Now().Before(deadline) {
			fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			fetches := consumer.PollFetches(fetchCtx)
			cancel()
			fetches.EachRecord(func(rec *kgo.Record) {
				records[string(rec.Key)] = string(rec.Value)
			})
		}

		require.Len(t, records, 2)
		assert.JSONEq(t, `{"outcome":"succeeded"}`, records["agent-7"])
		assert.JSONEq(t, `{"outcome":"failed"}`, records["agent-8"])
	})
}

func TestPublisherDisabledWithoutBrokers(t *testing.T) {
	publisher, err := NewPublisher(context.Background(), config.Kafka{})
	require.NoError(t, err)
	assert.Nil(t, publisher)
}
