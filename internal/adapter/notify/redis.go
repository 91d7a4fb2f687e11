// Package notify delivers lifecycle events to whatever renders and sends
// the actual messages. The engine only publishes.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"leave-engine/internal/domain/leave"
)

const DefaultChannel = "leave:events"

var _ leave.Notifier = (*RedisPublisher)(nil)

// Message is the payload published on the channel.
type Message struct {
	leave.Event
	PublishedAt time.Time `json:"published_at"`
}

type RedisPublisher struct {
	rdb     redis.Cmdable
	channel string
	now     func() time.Time
}

func NewRedisPublisher(rdb redis.Cmdable, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel, now: time.Now}
}

func (p *RedisPublisher) Notify(ctx context.Context, e leave.Event) error {
	payload, err := json.Marshal(Message{Event: e, PublishedAt: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s event for %s: %w", e.Type, e.RequestID, err)
	}
	return nil
}
