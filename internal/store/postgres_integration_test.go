//go:build postgres_integration

package store

import (
	"os"
	"testing"
	"time"

	"chainopt/internal/model"
)

func TestPostgresConnectivityAndSchema(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	p, err := NewPostgres(dsn)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	if err := p.Ping(t.Context()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	run := model.RunRecord{
		ID:        "00000000-0000-0000-0000-00000000c0de",
		TenantID:  "t_itest",
		Kind:      "routing",
		Algorithm: "clarke_wright",
		Status:    "completed",
		CreatedAt: time.Now().UTC(),
	}
	if err := p.SaveRun(t.Context(), run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, _, err := p.ListRuns(t.Context(), "t_itest", "", "", 1); err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
}
