package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"chainopt/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu         sync.Mutex
	runs       map[string]model.RunRecord // id -> run
	runsByTen  map[string][]string        // tenant -> run ids, insertion order
	subs       map[string][]model.Subscription
	deliveries map[string]*memDelivery
	delivByTen map[string][]string
}

func NewMemory() *Memory {
	return &Memory{
		runs:       map[string]model.RunRecord{},
		runsByTen:  map[string][]string{},
		subs:       map[string][]model.Subscription{},
		deliveries: map[string]*memDelivery{},
		delivByTen: map[string][]string{},
	}
}

// memDelivery augments WebhookDelivery with scheduling state.
type memDelivery struct {
	WebhookDelivery
	NextAttemptAt time.Time
	LastError     string
	ResponseCode  int
	LatencyMs     int
	DeliveredAt   *time.Time
}

func (m *Memory) SaveRun(ctx context.Context, run model.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runs[run.ID]; !exists {
		m.runsByTen[run.TenantID] = append(m.runsByTen[run.TenantID], run.ID)
	}
	m.runs[run.ID] = run
	return nil
}

func (m *Memory) GetRun(ctx context.Context, tenantID, id string) (model.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok || run.TenantID != tenantID {
		return model.RunRecord{}, ErrNotFound
	}
	return run, nil
}

func (m *Memory) ListRuns(ctx context.Context, tenantID, kind, cursor string, limit int) ([]model.RunRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.runsByTen[tenantID]
	start := 0
	if cursor != "" {
		for i, id := range ids {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = 100
	}
	out := []model.RunRecord{}
	var last string
	for i := start; i < len(ids) && len(out) < limit; i++ {
		run := m.runs[ids[i]]
		if kind == "" || run.Kind == kind {
			out = append(out, run)
		}
		last = ids[i]
	}
	next := ""
	if len(out) == limit && start+len(out) < len(ids) {
		next = last
	}
	return out, next, nil
}

func (m *Memory) RunStats(ctx context.Context, tenantID string) (model.RunStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := model.RunStats{ByAlgorithm: map[string]int{}}
	var elapsed int64
	for _, id := range m.runsByTen[tenantID] {
		run := m.runs[id]
		stats.TotalRuns++
		switch run.Status {
		case "completed":
			stats.CompletedRuns++
		case "failed":
			stats.FailedRuns++
		}
		if run.Algorithm != "" {
			stats.ByAlgorithm[run.Algorithm]++
		}
		elapsed += run.ElapsedMs
	}
	if stats.TotalRuns > 0 {
		stats.AvgElapsedMs = float64(elapsed) / float64(stats.TotalRuns)
	}
	return stats, nil
}

func (m *Memory) CreateSubscription(ctx context.Context, tenantID string, req model.SubscriptionRequest) (model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := model.Subscription{ID: uuid.New().String(), TenantID: tenantID, URL: req.URL, Events: req.Events, Secret: req.Secret}
	m.subs[tenantID] = append(m.subs[tenantID], s)
	return s, nil
}

func (m *Memory) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subs[tenantID] {
		for _, e := range s.Events {
			if e == eventType {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.subs[tenantID]
	start := 0
	if cursor != "" {
		for i := range list {
			if list[i].ID == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = 100
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	items := append([]model.Subscription(nil), list[start:end]...)
	next := ""
	if end < len(list) && end > start {
		next = list[end-1].ID
	}
	return items, next, nil
}

func (m *Memory) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	arr := m.subs[tenantID]
	out := make([]model.Subscription, 0, len(arr))
	found := false
	for _, s := range arr {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		return ErrNotFound
	}
	m.subs[tenantID] = out
	return nil
}

func (m *Memory) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	d := &memDelivery{WebhookDelivery: WebhookDelivery{ID: id, TenantID: tenantID, SubscriptionID: subscriptionID, EventType: eventType, URL: url, Secret: secret, Payload: payload, Status: "pending"}, NextAttemptAt: time.Now()}
	m.deliveries[id] = d
	m.delivByTen[tenantID] = append(m.delivByTen[tenantID], id)
	return id, nil
}

func (m *Memory) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	out := []WebhookDelivery{}
	for _, ids := range m.delivByTen {
		for _, id := range ids {
			d := m.deliveries[id]
			if d == nil {
				continue
			}
			if (d.Status == "pending" || d.Status == "retry") && !d.NextAttemptAt.After(now) {
				out = append(out, d.WebhookDelivery)
				if limit > 0 && len(out) >= limit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

func (m *Memory) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.deliveries[id]
	if d == nil {
		return nil
	}
	d.Attempts++
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	if success {
		d.Status = "delivered"
		now := time.Now()
		d.DeliveredAt = &now
		return nil
	}
	d.Status = "retry"
	d.LastError = lastError
	if nextAttemptAt != nil {
		d.NextAttemptAt = *nextAttemptAt
	} else {
		d.NextAttemptAt = time.Now().Add(1 * time.Minute)
	}
	return nil
}

func (m *Memory) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.deliveries[id]
	if d == nil {
		return nil
	}
	d.Status = "failed"
	d.LastError = lastError
	d.ResponseCode = responseCode
	d.LatencyMs = latencyMs
	return nil
}

func (m *Memory) ListWebhookDeliveries(ctx context.Context, tenantID, status, cursor string, limit int) ([]map[string]any, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []map[string]any{}
	for _, id := range m.delivByTen[tenantID] {
		d := m.deliveries[id]
		if d == nil {
			continue
		}
		if status == "" || d.Status == status {
			item := map[string]any{"id": d.ID, "eventType": d.EventType, "status": d.Status, "attempts": d.Attempts, "url": d.URL}
			if !d.NextAttemptAt.IsZero() {
				item["nextAttemptAt"] = d.NextAttemptAt
			}
			if d.LastError != "" {
				item["lastError"] = d.LastError
			}
			out = append(out, item)
		}
	}
	return out, "", nil
}

func (m *Memory) RetryWebhookDelivery(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.deliveries[id]
	if d == nil || d.TenantID != tenantID {
		return ErrNotFound
	}
	d.Status = "pending"
	d.NextAttemptAt = time.Now()
	return nil
}
