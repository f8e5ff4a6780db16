package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// EventBroker fans batch progress events out to stream subscribers.
type EventBroker interface {
	Subscribe(batchID string) chan Event
	Unsubscribe(batchID string, ch chan Event)
	Publish(batchID string, evt Event)
}

// RedisBroker implements EventBroker over Redis Pub/Sub so progress
// events reach subscribers on other instances.
type RedisBroker struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs map[chan Event]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisBroker{rdb: redis.NewClient(opt), subs: map[chan Event]*redis.PubSub{}}, nil
}

func (b *RedisBroker) Subscribe(batchID string) chan Event {
	ch := make(chan Event, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(batchID))
	// initial receive confirms the subscription before returning
	_, _ = ps.Receive(ctx)

	b.mu.Lock()
	b.subs[ch] = ps
	b.mu.Unlock()

	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

// Unsubscribe closes the underlying pubsub; the fan-out goroutine then
// drains and closes ch.
func (b *RedisBroker) Unsubscribe(batchID string, ch chan Event) {
	b.mu.Lock()
	ps := b.subs[ch]
	delete(b.subs, ch)
	b.mu.Unlock()
	if ps != nil {
		_ = ps.Close()
	}
}

func (b *RedisBroker) Publish(batchID string, evt Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, b.chanName(batchID), data).Err()
}

func (b *RedisBroker) chanName(batchID string) string { return "batch:" + batchID }
