package events

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
)

// StartKafkaBridge forwards snapshot-change events from the in-process bus to
// Kafka, for deployments running several document hosts that want a shared
// change feed. It returns after wiring the forwarding goroutine; forwarding
// errors are logged and the offending message dropped.
func StartKafkaBridge(ctx context.Context, bus *Bus, brokers []string, logger *slog.Logger) error {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(logger))
	if err != nil {
		return err
	}

	messages, err := bus.Subscribe(ctx)
	if err != nil {
		_ = publisher.Close()
		return err
	}

	go func() {
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("closing kafka publisher failed", "error", err)
			}
		}()
		for msg := range messages {
			if err := publisher.Publish(TopicSnapshotUpdated, msg); err != nil {
				logger.Error("forwarding snapshot event to kafka failed", "error", err)
			}
			msg.Ack()
		}
	}()
	return nil
}
