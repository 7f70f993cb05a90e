package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Broker is the multi-instance Publisher: events are published through Redis
// pub/sub so every server process sees every mutation, then relayed into the
// local Hub for delivery to that process's WebSocket clients.
type Broker struct {
	rdb    *redis.Client
	hub    *Hub
	logger zerolog.Logger
}

// NewBroker connects to Redis and wraps the given hub.
func NewBroker(ctx context.Context, redisURL string, hub *Hub, logger zerolog.Logger) (*Broker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Broker{rdb: rdb, hub: hub, logger: logger}, nil
}

// Publish implements Publisher by pushing the event through Redis. Local
// delivery happens when the relay receives it back, so every instance,
// including this one, follows the same path.
func (b *Broker) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.rdb.Publish(ctx, event.Topic, data).Err(); err != nil {
		return fmt.Errorf("publish to redis: %w", err)
	}
	return nil
}

// Run subscribes to all queue and user channels and relays inbound messages
// into the local hub. Blocks until ctx is cancelled.
func (b *Broker) Run(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, "queue:*", "user:*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("realtime: drop malformed broker message")
				continue
			}
			b.hub.Broadcast(msg.Channel, event)
		}
	}
}

// Close releases the Redis connection.
func (b *Broker) Close() error {
	return b.rdb.Close()
}
