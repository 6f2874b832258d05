package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/skypagos/ledger/internal/domain"
)

// DefaultNotificationChannel is where transaction events are published.
const DefaultNotificationChannel = "skypagos:notifications"

// NotificationPublisher publishes outbox events on a Redis pub/sub channel.
type NotificationPublisher struct {
	client  *redis.Client
	channel string
}

// NewNotificationPublisher creates a new NotificationPublisher.
func NewNotificationPublisher(client *redis.Client, channel string) *NotificationPublisher {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	return &NotificationPublisher{client: client, channel: channel}
}

type notificationMessage struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     string         `json:"created_at"`
}

// Publish sends event to the channel. Subscribers that are not connected
// miss it; the outbox row is what guarantees at-least-once delivery.
func (p *NotificationPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	msg, err := json.Marshal(notificationMessage{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.channel, msg).Err()
}
