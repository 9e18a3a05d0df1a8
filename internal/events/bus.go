// Package events carries snapshot-change notifications. The store and sync
// controller publish here; application shells subscribe instead of polling
// the store. Publishing is fire-and-forget: a bus failure is logged and never
// propagated into a mutation or sync path.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicSnapshotUpdated receives one message per applied state change.
const TopicSnapshotUpdated = "schedule.snapshot.updated"

// Change sources.
const (
	SourceMutation  = "mutation"
	SourcePull      = "pull"
	SourceBootstrap = "bootstrap"
)

// SnapshotUpdated is the payload on TopicSnapshotUpdated.
type SnapshotUpdated struct {
	Source      string `json:"source"`
	LastUpdated string `json:"lastUpdated"`
}

// Bus is an in-process pub/sub for snapshot changes.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBus builds an in-memory bus. Subscribers registered after a publish miss
// that message; this mirrors how the UI only cares about changes from now on.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

// Publish announces an applied snapshot change.
func (b *Bus) Publish(source, lastUpdated string) {
	payload, err := json.Marshal(SnapshotUpdated{Source: source, LastUpdated: lastUpdated})
	if err != nil {
		b.logger.Error("encoding snapshot event failed", "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicSnapshotUpdated, msg); err != nil {
		b.logger.Error("publishing snapshot event failed", "error", err, "source", source)
	}
}

// Subscribe returns the change stream. The channel closes when ctx is done.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicSnapshotUpdated)
}

// Close shuts the underlying pub/sub down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
