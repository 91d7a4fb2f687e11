package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"leave-engine/internal/domain/leave"
)

func TestRedisPublisher_PublishesJSON(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sub := rdb.Subscribe(ctx, DefaultChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil { // subscription confirmation
		t.Fatalf("subscribe: %v", err)
	}

	fixed := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	p := NewRedisPublisher(rdb, "")
	p.now = func() time.Time { return fixed }

	ev := leave.Event{Type: leave.EventSubmitted, RequestID: "r1", RecipientID: "mgr"}
	if err := p.Notify(ctx, ev); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if msg.Channel != DefaultChannel {
		t.Fatalf("channel = %q, want %q", msg.Channel, DefaultChannel)
	}
	var got Message
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("payload not JSON: %v (%s)", err, msg.Payload)
	}
	if got.Event != ev {
		t.Fatalf("event = %+v, want %+v", got.Event, ev)
	}
	if !got.PublishedAt.Equal(fixed) {
		t.Fatalf("published_at = %v, want %v", got.PublishedAt, fixed)
	}
}

func TestRedisPublisher_StoreDown(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := NewRedisPublisher(rdb, "custom").Notify(ctx, leave.Event{Type: leave.EventApproved, RequestID: "r1", RecipientID: "alice"})
	if err == nil {
		t.Fatal("expected publish error with redis down")
	}
}
