// Package store persists optimization runs, webhook subscriptions, and
// webhook deliveries. Memory backs local development; Postgres is used
// when DATABASE_URL is set.
package store

import (
	"context"
	"errors"
	"time"

	"chainopt/internal/model"
)

// Store is the persistence interface used by the API server.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, tenantID, id string) (model.RunRecord, error)
	ListRuns(ctx context.Context, tenantID, kind, cursor string, limit int) ([]model.RunRecord, string, error)
	RunStats(ctx context.Context, tenantID string) (model.RunStats, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, tenantID string, req model.SubscriptionRequest) (model.Subscription, error)
	GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error)
	ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error)
	DeleteSubscription(ctx context.Context, tenantID, id string) error

	// Webhook deliveries
	EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
	ListWebhookDeliveries(ctx context.Context, tenantID, status, cursor string, limit int) ([]map[string]any, string, error)
	RetryWebhookDelivery(ctx context.Context, tenantID, id string) error
}

// WebhookDelivery is one queued webhook send, as handed to the worker.
type WebhookDelivery struct {
	ID             string
	TenantID       string
	SubscriptionID string
	EventType      string
	URL            string
	Secret         string
	Payload        []byte
	Status         string
	Attempts       int
}

var ErrNotFound = errors.New("not found")
