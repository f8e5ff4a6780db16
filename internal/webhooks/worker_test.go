package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"chainopt/internal/model"
	"chainopt/internal/store"
)

func subscriptionReq(url, event string) model.SubscriptionRequest {
	return model.SubscriptionRequest{URL: url, Events: []string{event}, Secret: "s"}
}

type recordStore struct {
	*store.Memory
	mu    sync.Mutex
	marks []markRec
	fails []failRec
}
type markRec struct {
	ID            string
	Success       bool
	Code, Latency int
	LastErr       string
}
type failRec struct {
	ID            string
	Code, Latency int
	LastErr       string
}

func (r *recordStore) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.marks = append(r.marks, markRec{ID: id, Success: success, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.MarkWebhookDelivery(ctx, id, success, nextAttemptAt, lastError, responseCode, latencyMs)
}
func (r *recordStore) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.fails = append(r.fails, failRec{ID: id, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.FailWebhookDelivery(ctx, id, lastError, responseCode, latencyMs)
}

func TestWorkerProcessOnce_SuccessAndSignature(t *testing.T) {
	var gotSig, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature")
		gotType = r.Header.Get("X-Event-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	rs := &recordStore{Memory: store.NewMemory()}
	w := &Worker{Store: rs, HTTP: srv.Client(), Stop: make(chan struct{}), MaxAttempts: 3}
	id, err := rs.Memory.EnqueueWebhook(context.Background(), "t1", "", EventRunCompleted, srv.URL, "secret", []byte(`{"id":"evt1"}`))
	if err != nil || id == "" {
		t.Fatalf("enqueue failed: %v", err)
	}

	w.processOnce()

	if gotType != EventRunCompleted {
		t.Fatalf("event type header: got %q", gotType)
	}
	if gotSig == "" || !VerifyHMAC("secret", gotBody, gotSig) {
		t.Fatalf("signature did not verify: sig=%q body=%s", gotSig, gotBody)
	}
	if len(rs.marks) == 0 || !rs.marks[0].Success {
		t.Fatalf("expected mark success, got: %+v", rs.marks)
	}
}

func TestWorkerProcessOnce_FailAfterMaxAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500) }))
	defer srv.Close()
	rs := &recordStore{Memory: store.NewMemory()}
	w := &Worker{Store: rs, HTTP: srv.Client(), Stop: make(chan struct{}), MaxAttempts: 1}
	_, _ = rs.Memory.EnqueueWebhook(context.Background(), "t1", "", EventBatchCompleted, srv.URL, "", []byte(`{}`))
	w.processOnce()
	if len(rs.fails) == 0 {
		t.Fatal("expected fail recorded")
	}
	if len(rs.marks) != 0 {
		t.Fatalf("exhausted delivery should not be marked for retry: %+v", rs.marks)
	}
}

func TestPublisherEmitEnqueuesPerSubscription(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	sub, err := m.CreateSubscription(ctx, "t1", subscriptionReq("https://a.example/hook", EventRunCompleted))
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if _, err := m.CreateSubscription(ctx, "t1", subscriptionReq("https://b.example/hook", "other.event")); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	NewPublisher(m).Emit(ctx, "t1", EventRunCompleted, map[string]any{"runId": "r1"})

	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil {
		t.Fatalf("FetchDueWebhookDeliveries: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("deliveries: got %d, want 1 (only matching subscription)", len(due))
	}
	if due[0].SubscriptionID != sub.ID {
		t.Fatalf("delivery for wrong subscription: %+v", due[0])
	}
	var payload map[string]any
	if err := json.Unmarshal(due[0].Payload, &payload); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if payload["type"] != EventRunCompleted {
		t.Fatalf("payload type: %v", payload["type"])
	}
}

func TestNextBackoffGrowsAndCaps(t *testing.T) {
	if nextBackoff(0) != time.Second {
		t.Fatalf("first backoff: %v", nextBackoff(0))
	}
	if nextBackoff(3) != 8*time.Second {
		t.Fatalf("fourth backoff: %v", nextBackoff(3))
	}
	if nextBackoff(100) > time.Hour {
		t.Fatalf("backoff must cap at an hour: %v", nextBackoff(100))
	}
}
