// Package redispub delivers notification events over Redis pub/sub so
// connected clients can react to new orders without polling.
package redispub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mealio/ordering-api/internal/config"
	"github.com/mealio/ordering-api/internal/events"
)

// publishTimeout caps how long a single publish may block. Delivery is best
// effort; the notification row is already durable when this runs.
const publishTimeout = 2 * time.Second

// Publisher implements events.EventHandler by publishing each event to a
// per-recipient Redis channel.
type Publisher struct {
	client *redis.Client
	logger *slog.Logger
}

// Compile-time check that Publisher implements events.EventHandler.
var _ events.EventHandler = (*Publisher)(nil)

// NewPublisher connects to Redis and verifies the connection with a ping.
func NewPublisher(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Publisher{
		client: client,
		logger: logger.With(slog.String("component", "redis_publisher")),
	}, nil
}

// ChannelFor returns the pub/sub channel a recipient's notifications are
// published on.
func ChannelFor(recipientID string) string {
	return "notifications." + recipientID
}

// HandleEvent publishes the event to the recipient's channel.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	channel := ChannelFor(event.RecipientID.String())
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}

	p.logger.DebugContext(ctx, "published notification event",
		slog.String("channel", channel),
		slog.String("event_id", event.ID.String()))

	return nil
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
