package api

import "sync"

// Event is a progress or completion notification for one batch.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Broker is the in-process fan-out used when no REDIS_URL is set.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{} // batchId -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *Broker) Subscribe(batchID string) chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	if b.subs[batchID] == nil {
		b.subs[batchID] = map[chan Event]struct{}{}
	}
	b.subs[batchID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(batchID string, ch chan Event) {
	b.mu.Lock()
	if m := b.subs[batchID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, batchID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

// Publish delivers evt to every subscriber, dropping when a
// subscriber's buffer is full.
func (b *Broker) Publish(batchID string, evt Event) {
	b.mu.Lock()
	for ch := range b.subs[batchID] {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
