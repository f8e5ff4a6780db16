package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"chainopt/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	p := &Postgres{db: db}
	if err := p.ensureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return p, nil
}

// Ping verifies database connectivity, used by the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			algorithm TEXT,
			status TEXT NOT NULL,
			error TEXT,
			statistics JSONB,
			elapsed_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS runs_tenant_idx ON runs (tenant_id, id)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			url TEXT NOT NULL,
			events JSONB NOT NULL,
			secret TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_deliveries (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			subscription_id UUID,
			event_type TEXT NOT NULL,
			url TEXT NOT NULL,
			secret TEXT,
			payload BYTEA,
			status TEXT NOT NULL DEFAULT 'pending',
			attempts INT NOT NULL DEFAULT 0,
			next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_error TEXT,
			response_code INT,
			latency_ms INT,
			delivered_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS webhook_due_idx ON webhook_deliveries (status, next_attempt_at)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) SaveRun(ctx context.Context, run model.RunRecord) error {
	stats, err := json.Marshal(run.Statistics)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO runs (id, tenant_id, kind, algorithm, status, error, statistics, elapsed_ms, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET status=$5, error=$6, statistics=$7, elapsed_ms=$8`,
		run.ID, run.TenantID, run.Kind, nullIfEmpty(run.Algorithm), run.Status, nullIfEmpty(run.Error), stats, run.ElapsedMs, run.CreatedAt)
	return err
}

func (p *Postgres) GetRun(ctx context.Context, tenantID, id string) (model.RunRecord, error) {
	var run model.RunRecord
	var algo, errMsg sql.NullString
	var stats []byte
	row := p.db.QueryRowContext(ctx, `SELECT id, tenant_id, kind, algorithm, status, error, statistics, elapsed_ms, created_at
		FROM runs WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err := row.Scan(&run.ID, &run.TenantID, &run.Kind, &algo, &run.Status, &errMsg, &stats, &run.ElapsedMs, &run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, ErrNotFound
		}
		return run, err
	}
	run.Algorithm = algo.String
	run.Error = errMsg.String
	if len(stats) > 0 {
		_ = json.Unmarshal(stats, &run.Statistics)
	}
	return run, nil
}

func (p *Postgres) ListRuns(ctx context.Context, tenantID, kind, cursor string, limit int) ([]model.RunRecord, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id, tenant_id, kind, algorithm, status, error, statistics, elapsed_ms, created_at FROM runs WHERE tenant_id=$1`
	args := []any{tenantID}
	idx := 2
	if kind != "" {
		q += ` AND kind=$` + fmt.Sprint(idx)
		args = append(args, kind)
		idx++
	}
	if cursor != "" {
		q += ` AND id > $` + fmt.Sprint(idx)
		args = append(args, cursor)
		idx++
	}
	q += ` ORDER BY id LIMIT $` + fmt.Sprint(idx)
	args = append(args, limit)

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	out := []model.RunRecord{}
	var last string
	for rows.Next() {
		var run model.RunRecord
		var algo, errMsg sql.NullString
		var stats []byte
		if err := rows.Scan(&run.ID, &run.TenantID, &run.Kind, &algo, &run.Status, &errMsg, &stats, &run.ElapsedMs, &run.CreatedAt); err != nil {
			return nil, "", err
		}
		run.Algorithm = algo.String
		run.Error = errMsg.String
		if len(stats) > 0 {
			_ = json.Unmarshal(stats, &run.Statistics)
		}
		out = append(out, run)
		last = run.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) RunStats(ctx context.Context, tenantID string) (model.RunStats, error) {
	stats := model.RunStats{ByAlgorithm: map[string]int{}}
	row := p.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN status='completed' THEN 1 ELSE 0 END),0),
		COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),0),
		COALESCE(AVG(elapsed_ms),0)
		FROM runs WHERE tenant_id=$1`, tenantID)
	if err := row.Scan(&stats.TotalRuns, &stats.CompletedRuns, &stats.FailedRuns, &stats.AvgElapsedMs); err != nil {
		return stats, err
	}
	rows, err := p.db.QueryContext(ctx, `SELECT algorithm, COUNT(*) FROM runs WHERE tenant_id=$1 AND algorithm IS NOT NULL GROUP BY algorithm`, tenantID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var algo string
		var n int
		if err := rows.Scan(&algo, &n); err != nil {
			return stats, err
		}
		stats.ByAlgorithm[algo] = n
	}
	return stats, rows.Err()
}

func (p *Postgres) CreateSubscription(ctx context.Context, tenantID string, req model.SubscriptionRequest) (model.Subscription, error) {
	id := uuid.New().String()
	ev, _ := json.Marshal(req.Events)
	_, err := p.db.ExecContext(ctx, `INSERT INTO subscriptions (id, tenant_id, url, events, secret) VALUES ($1,$2,$3,$4,$5)`,
		id, tenantID, req.URL, ev, req.Secret)
	if err != nil {
		return model.Subscription{}, err
	}
	return model.Subscription{ID: id, TenantID: tenantID, URL: req.URL, Events: req.Events, Secret: req.Secret}, nil
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, tenantID, eventType string) ([]model.Subscription, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, url, secret, events FROM subscriptions WHERE tenant_id=$1 AND events @> $2::jsonb`,
		tenantID, fmt.Sprintf("[%q]", eventType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Subscription{}
	for rows.Next() {
		var s model.Subscription
		var ev []byte
		if err := rows.Scan(&s.ID, &s.URL, &s.Secret, &ev); err != nil {
			return nil, err
		}
		s.TenantID = tenantID
		_ = json.Unmarshal(ev, &s.Events)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) ListSubscriptions(ctx context.Context, tenantID, cursor string, limit int) ([]model.Subscription, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if cursor != "" {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, secret, events FROM subscriptions WHERE tenant_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`, tenantID, cursor, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, secret, events FROM subscriptions WHERE tenant_id=$1 ORDER BY id LIMIT $2`, tenantID, limit)
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	var out []model.Subscription
	var last string
	for rows.Next() {
		var s model.Subscription
		var ev []byte
		if err := rows.Scan(&s.ID, &s.URL, &s.Secret, &ev); err != nil {
			return nil, "", err
		}
		s.TenantID = tenantID
		_ = json.Unmarshal(ev, &s.Events)
		out = append(out, s)
		last = s.ID
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) DeleteSubscription(ctx context.Context, tenantID, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) EnqueueWebhook(ctx context.Context, tenantID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
	id := uuid.New().String()
	_, err := p.db.ExecContext(ctx, `INSERT INTO webhook_deliveries (id, tenant_id, subscription_id, event_type, url, secret, payload, status, attempts, next_attempt_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'pending',0,now())`,
		id, tenantID, nullIfEmpty(subscriptionID), eventType, url, nullIfEmpty(secret), payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, tenant_id, COALESCE(subscription_id::text,''), event_type, url, COALESCE(secret,''), payload, status, attempts
		FROM webhook_deliveries WHERE status IN ('pending','retry') AND next_attempt_at <= now() ORDER BY next_attempt_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []WebhookDelivery{}
	for rows.Next() {
		var d WebhookDelivery
		if err := rows.Scan(&d.ID, &d.TenantID, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Status, &d.Attempts); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	if !success {
		if nextAttemptAt == nil {
			t := time.Now().Add(1 * time.Minute)
			nextAttemptAt = &t
		}
		_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET attempts=attempts+1, status='retry', last_error=$2, next_attempt_at=$3, updated_at=now(), response_code=$4, latency_ms=$5 WHERE id=$1`,
			id, nullIfEmpty(lastError), *nextAttemptAt, responseCode, latencyMs)
		return err
	}
	_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET attempts=attempts+1, status='delivered', delivered_at=now(), updated_at=now(), response_code=$2, latency_ms=$3 WHERE id=$1`,
		id, responseCode, latencyMs)
	return err
}

func (p *Postgres) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	_, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='failed', last_error=$2, updated_at=now(), response_code=$3, latency_ms=$4 WHERE id=$1`,
		id, nullIfEmpty(lastError), responseCode, latencyMs)
	return err
}

func (p *Postgres) ListWebhookDeliveries(ctx context.Context, tenantID, status, cursor string, limit int) ([]map[string]any, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id::text, event_type, status, attempts, next_attempt_at, COALESCE(last_error,''), url FROM webhook_deliveries WHERE tenant_id=$1`
	args := []any{tenantID}
	idx := 2
	if status != "" {
		q += ` AND status=$` + fmt.Sprint(idx)
		args = append(args, status)
		idx++
	}
	if cursor != "" {
		q += ` AND id::text > $` + fmt.Sprint(idx)
		args = append(args, cursor)
		idx++
	}
	q += ` ORDER BY id LIMIT $` + fmt.Sprint(idx)
	args = append(args, limit)

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	out := []map[string]any{}
	var last string
	for rows.Next() {
		var id, typ, st, lastErr, url string
		var attempts int
		var nextAt sql.NullTime
		if err := rows.Scan(&id, &typ, &st, &attempts, &nextAt, &lastErr, &url); err != nil {
			return nil, "", err
		}
		item := map[string]any{"id": id, "eventType": typ, "status": st, "attempts": attempts, "url": url}
		if nextAt.Valid {
			item["nextAttemptAt"] = nextAt.Time
		}
		if lastErr != "" {
			item["lastError"] = lastErr
		}
		out = append(out, item)
		last = id
	}
	next := ""
	if len(out) == limit {
		next = last
	}
	return out, next, rows.Err()
}

func (p *Postgres) RetryWebhookDelivery(ctx context.Context, tenantID, id string) error {
	res, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='pending', next_attempt_at=now() WHERE tenant_id=$1 AND id=$2`, tenantID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
