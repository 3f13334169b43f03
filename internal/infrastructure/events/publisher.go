// Package events publishes dispute lifecycle events to a Redis stream via
// Watermill.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arbitex/marketplace/internal/core/ports"
)

const topicDisputes = "marketplace.disputes"

// WatermillPublisher implements ports.EventPublisher on top of a Watermill
// message.Publisher.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher wraps an existing Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topicDisputes,
	}
}

// NewRedisStreamPublisher builds a publisher backed by Redis streams on the
// given client.
func NewRedisStreamPublisher(client redis.UniversalClient) (*WatermillPublisher, error) {
	pub, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: client},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return nil, fmt.Errorf("creating redis stream publisher: %w", err)
	}
	return NewWatermillPublisher(pub), nil
}

func (p *WatermillPublisher) PublishDisputeEvent(_ context.Context, event ports.DisputeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", event.Type, err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set("type", event.Type)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publishing %s event: %w", event.Type, err)
	}
	return nil
}

// Close releases the underlying publisher.
func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
