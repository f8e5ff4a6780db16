package api

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"chainopt/internal/auth"
	"chainopt/internal/batch"
	"chainopt/internal/config"
	"chainopt/internal/inventory"
	"chainopt/internal/metrics"
	"chainopt/internal/model"
	"chainopt/internal/routing"
	"chainopt/internal/store"
	"chainopt/internal/webhooks"
)

type Server struct {
	Cfg        config.Config
	Store      store.Store
	Pub        *webhooks.Publisher
	Auth       *auth.Verifier
	Broker     EventBroker
	Inventory  *inventory.Calculator
	Dispatcher *batch.Dispatcher
}

// NewServer wires the server's dependencies from config. With no
// DATABASE_URL the in-memory store is used; with no REDIS_URL the
// in-process broker is used.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s = sp
	}

	var broker EventBroker
	if cfg.RedisURL != "" {
		rb, err := NewRedisBroker(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis broker: %w", err)
		}
		broker = rb
	} else {
		broker = NewBroker()
	}

	return &Server{
		Cfg:        cfg,
		Store:      s,
		Pub:        webhooks.NewPublisher(s),
		Auth:       auth.NewVerifierFromEnv(),
		Broker:     broker,
		Inventory:  inventory.NewCalculator(cfg.Inventory.HoldingCostRate, cfg.Inventory.OrderingCost, cfg.Inventory.ServiceLevel),
		Dispatcher: batch.NewDispatcher(batch.WithWorkers(cfg.Batch.Workers)),
	}, nil
}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
	return webhooks.NewWorker(s.Store)
}

// Ready reports whether dependencies are reachable.
func (s *Server) Ready(ctx context.Context) error {
	if p, ok := s.Store.(*store.Postgres); ok {
		return p.Ping(ctx)
	}
	return nil
}

// solveRouting runs one routing problem with per-request overrides on
// top of the configured defaults.
func (s *Server) solveRouting(ctx context.Context, req model.RoutingRequest) (*model.RoutingResponse, error) {
	algo := req.Algorithm
	if algo == "" {
		algo = s.Cfg.Routing.DefaultAlgorithm
	}
	strategy, err := routing.ParseStrategy(algo)
	if err != nil {
		return nil, err
	}

	capacity := req.VehicleCapacity
	if capacity <= 0 {
		capacity = s.Cfg.Routing.VehicleCapacity
	}
	maxDist := req.MaxDistance
	if maxDist <= 0 {
		maxDist = s.Cfg.Routing.MaxDistanceKm
	}
	opt := routing.NewOptimizer(capacity, maxDist)

	depot := routing.Stop{Name: req.Depot.Name, Lat: req.Depot.Lat, Lon: req.Depot.Lon}
	customers := make([]routing.Stop, len(req.Customers))
	for i, c := range req.Customers {
		customers[i] = routing.Stop{Name: c.Name, Lat: c.Lat, Lon: c.Lon, Demand: c.Demand}
	}

	start := time.Now()
	res, err := opt.Optimize(depot, customers, strategy)
	elapsed := time.Since(start)
	if err != nil {
		metrics.Optimizations.WithLabelValues("routing", algo, "failed").Inc()
		return nil, err
	}
	metrics.Optimizations.WithLabelValues("routing", algo, "completed").Inc()
	metrics.OptimizationDuration.WithLabelValues("routing", algo).Observe(elapsed.Seconds())

	out := &model.RoutingResponse{
		RunID:     uuid.New().String(),
		Algorithm: res.Algorithm,
		Routes:    make([]model.RouteOut, len(res.Routes)),
		Statistics: model.StatisticsOut{
			VehicleCount:        res.Statistics.VehicleCount,
			TotalDistance:       res.Statistics.TotalDistance,
			TotalDemand:         res.Statistics.TotalDemand,
			AvgDistancePerRoute: res.Statistics.AvgDistancePerRoute,
			UtilizationPercent:  res.Statistics.UtilizationPercent,
		},
		ElapsedMs: elapsed.Milliseconds(),
	}
	for i, r := range res.Routes {
		ro := model.RouteOut{
			VehicleID:     r.VehicleID,
			Stops:         make([]model.StopOut, len(r.Locations)),
			TotalDistance: r.TotalDistance,
			TotalDemand:   r.TotalDemand,
		}
		for k, loc := range r.Locations {
			ro.Stops[k] = model.StopOut{ID: loc.ID, Name: loc.Name, Lat: loc.Lat, Lon: loc.Lon, Demand: loc.Demand}
		}
		out.Routes[i] = ro
	}
	return out, nil
}

// recordRun persists a run record, best-effort.
func (s *Server) recordRun(ctx context.Context, tenant, id, kind, algo, status, errMsg string, stats model.StatisticsOut, elapsedMs int64) {
	run := model.RunRecord{
		ID:         id,
		TenantID:   tenant,
		Kind:       kind,
		Algorithm:  algo,
		Status:     status,
		Error:      errMsg,
		Statistics: stats,
		ElapsedMs:  elapsedMs,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Store.SaveRun(ctx, run); err != nil {
		log.Printf("save run %s: %v", id, err)
	}
}
