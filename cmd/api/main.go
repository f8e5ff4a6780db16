package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chainopt/internal/api"
	"chainopt/internal/config"
	"chainopt/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	metrics.RegisterDefault()

	srvDeps, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	mux := http.NewServeMux()

	// Optimization
	mux.HandleFunc("/v1/optimize/routes", srvDeps.OptimizeRoutesHandler)
	mux.HandleFunc("/v1/optimize/inventory", srvDeps.InventoryHandler)
	mux.HandleFunc("/v1/optimize/inventory/simulate", srvDeps.SimulateHandler)
	mux.HandleFunc("/v1/inventory/abc", srvDeps.ABCHandler)
	mux.HandleFunc("/v1/shortest-path", srvDeps.ShortestPathHandler)

	// Batch
	mux.HandleFunc("/v1/batch/routes", srvDeps.BatchHandler)
	mux.HandleFunc("/v1/batch/stream", srvDeps.BatchStreamHandler)

	// Runs
	mux.HandleFunc("/v1/runs", srvDeps.RunsHandler)
	mux.HandleFunc("/v1/runs/", srvDeps.RunByIDHandler)

	// Subscriptions
	mux.HandleFunc("/v1/subscriptions", srvDeps.SubscriptionsHandler)
	mux.HandleFunc("/v1/subscriptions/", srvDeps.SubscriptionByIDHandler)

	// Admin
	mux.HandleFunc("/v1/admin/runs/stats", srvDeps.RunStatsHandler)
	mux.HandleFunc("/v1/admin/webhook-deliveries", srvDeps.WebhookDeliveriesHandler)
	mux.HandleFunc("/v1/admin/webhook-deliveries/", srvDeps.WebhookDeliveryRetryHandler)

	// Config, docs, debug
	mux.HandleFunc("/v1/config", srvDeps.ConfigHandler)
	mux.HandleFunc("/openapi.yaml", srvDeps.OpenAPIHandler)
	mux.HandleFunc("/docs", srvDeps.DocsHandler)
	mux.HandleFunc("/debug", srvDeps.DebugJSON)

	// Health
	mux.HandleFunc("/healthz", srvDeps.HealthHandler)
	mux.HandleFunc("/readyz", srvDeps.ReadyHandler)

	// Metrics on the service registry
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	handler := api.LogMiddleware(api.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst, mux))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API listening on %s", addr)
	// Start webhook worker
	if srvDeps.Pub != nil {
		worker := srvDeps.NewWebhookWorker()
		worker.Start()
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
