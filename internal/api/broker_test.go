package api

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	id := "b1"
	ch := b.Subscribe(id)

	evt := Event{Type: "batch.progress", Data: map[string]any{"done": 1}}
	b.Publish(id, evt)

	select {
	case got := <-ch:
		if got.Type != evt.Type {
			t.Fatalf("got type %s, want %s", got.Type, evt.Type)
		}
		if got.Data["done"].(int) != 1 {
			t.Fatalf("bad payload: %+v", got.Data)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe(id, ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroker()
	id := "b2"
	ch := b.Subscribe(id)
	for i := 0; i < 20; i++ {
		b.Publish(id, Event{Type: "batch.progress", Data: map[string]any{"done": i}})
	}
	// buffer holds 8; the rest were dropped without blocking
	if n := len(ch); n != 8 {
		t.Fatalf("buffered %d events, want 8", n)
	}
	b.Unsubscribe(id, ch)
}

func TestBrokerPublishNoSubscribers(t *testing.T) {
	b := NewBroker()
	// must not panic or block
	b.Publish("nobody", Event{Type: "batch.completed"})
}
