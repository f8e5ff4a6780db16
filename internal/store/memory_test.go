package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainopt/internal/model"
)

func TestMemoryRunsRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	run := model.RunRecord{
		ID:        "r1",
		TenantID:  "t_demo",
		Kind:      "routing",
		Algorithm: "clarke_wright",
		Status:    "completed",
		ElapsedMs: 12,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := m.GetRun(ctx, "t_demo", "r1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Algorithm != "clarke_wright" || got.Status != "completed" {
		t.Fatalf("run round trip: %+v", got)
	}

	if _, err := m.GetRun(ctx, "t_other", "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant read should be ErrNotFound, got %v", err)
	}
	if _, err := m.GetRun(ctx, "t_demo", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing run should be ErrNotFound, got %v", err)
	}
}

func TestMemoryListRunsFiltersAndPaginates(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for i, kind := range []string{"routing", "inventory", "routing", "batch"} {
		run := model.RunRecord{ID: string(rune('a' + i)), TenantID: "t_demo", Kind: kind, Status: "completed"}
		if err := m.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	routing, _, err := m.ListRuns(ctx, "t_demo", "routing", "", 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(routing) != 2 {
		t.Fatalf("routing runs: got %d, want 2", len(routing))
	}

	page, next, err := m.ListRuns(ctx, "t_demo", "", "", 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(page) != 2 || next == "" {
		t.Fatalf("first page: %d items, cursor %q", len(page), next)
	}
	rest, _, err := m.ListRuns(ctx, "t_demo", "", next, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(page)+len(rest) != 4 {
		t.Fatalf("pagination lost items: %d + %d", len(page), len(rest))
	}
}

func TestMemoryRunStats(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	runs := []model.RunRecord{
		{ID: "1", TenantID: "t", Kind: "routing", Algorithm: "clarke_wright", Status: "completed", ElapsedMs: 10},
		{ID: "2", TenantID: "t", Kind: "routing", Algorithm: "nearest_neighbor", Status: "completed", ElapsedMs: 20},
		{ID: "3", TenantID: "t", Kind: "routing", Algorithm: "clarke_wright", Status: "failed", ElapsedMs: 30},
	}
	for _, r := range runs {
		if err := m.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	stats, err := m.RunStats(ctx, "t")
	if err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	if stats.TotalRuns != 3 || stats.CompletedRuns != 2 || stats.FailedRuns != 1 {
		t.Fatalf("counts: %+v", stats)
	}
	if stats.ByAlgorithm["clarke_wright"] != 2 {
		t.Fatalf("by algorithm: %+v", stats.ByAlgorithm)
	}
	if stats.AvgElapsedMs != 20 {
		t.Fatalf("avg elapsed: got %v, want 20", stats.AvgElapsedMs)
	}
}

func TestMemorySubscriptions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s, err := m.CreateSubscription(ctx, "t", model.SubscriptionRequest{URL: "https://example.com/hook", Events: []string{"run.completed"}, Secret: "s3cret"})
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if s.ID == "" {
		t.Fatal("subscription id not assigned")
	}

	matched, err := m.GetSubscriptionsForEvent(ctx, "t", "run.completed")
	if err != nil || len(matched) != 1 {
		t.Fatalf("GetSubscriptionsForEvent: %v, %d matches", err, len(matched))
	}
	none, err := m.GetSubscriptionsForEvent(ctx, "t", "batch.completed")
	if err != nil || len(none) != 0 {
		t.Fatalf("unsubscribed event matched: %v, %d", err, len(none))
	}

	if err := m.DeleteSubscription(ctx, "t", s.ID); err != nil {
		t.Fatalf("DeleteSubscription: %v", err)
	}
	if err := m.DeleteSubscription(ctx, "t", s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
}

func TestMemoryWebhookLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.EnqueueWebhook(ctx, "t", "sub1", "run.completed", "https://example.com/hook", "s", []byte(`{"ok":true}`))
	if err != nil {
		t.Fatalf("EnqueueWebhook: %v", err)
	}

	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 1 {
		t.Fatalf("due deliveries: %v, %d", err, len(due))
	}
	if due[0].ID != id || due[0].EventType != "run.completed" {
		t.Fatalf("delivery fields: %+v", due[0])
	}

	// Failed attempt schedules a retry in the future.
	next := time.Now().Add(time.Hour)
	if err := m.MarkWebhookDelivery(ctx, id, false, &next, "boom", 500, 12); err != nil {
		t.Fatalf("MarkWebhookDelivery: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("retry scheduled in the future should not be due, got %d", len(due))
	}

	// Admin retry makes it due again; a success finishes it.
	if err := m.RetryWebhookDelivery(ctx, "t", id); err != nil {
		t.Fatalf("RetryWebhookDelivery: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 1 {
		t.Fatalf("after retry: got %d due, want 1", len(due))
	}
	if err := m.MarkWebhookDelivery(ctx, id, true, nil, "", 200, 8); err != nil {
		t.Fatalf("MarkWebhookDelivery: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("delivered webhook still due: %d", len(due))
	}

	items, _, err := m.ListWebhookDeliveries(ctx, "t", "delivered", "", 10)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListWebhookDeliveries: %v, %d", err, len(items))
	}
	if items[0]["attempts"].(int) != 2 {
		t.Fatalf("attempts: %+v", items[0])
	}
}
