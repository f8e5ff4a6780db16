package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"chainopt/internal/batch"
	"chainopt/internal/inventory"
	"chainopt/internal/metrics"
	"chainopt/internal/model"
	"chainopt/internal/routing"
	"chainopt/internal/store"
	"chainopt/internal/webhooks"
)

// OptimizeRoutesHandler handles POST /v1/optimize/routes
func (s *Server) OptimizeRoutesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.CanPlan() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "planner or admin required", r.URL.Path)
		return
	}
	var req model.RoutingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateRoutingRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid routing request", err.Error(), r.URL.Path)
		return
	}

	resp, err := s.solveRouting(r.Context(), req)
	if err != nil {
		s.writeRoutingError(w, r, p.Tenant, req.Algorithm, err)
		return
	}
	s.recordRun(r.Context(), p.Tenant, resp.RunID, "routing", resp.Algorithm, "completed", "", resp.Statistics, resp.ElapsedMs)
	s.Pub.Emit(r.Context(), p.Tenant, webhooks.EventRunCompleted, map[string]any{
		"runId":      resp.RunID,
		"kind":       "routing",
		"algorithm":  resp.Algorithm,
		"statistics": resp.Statistics,
	})
	writeJSON(w, http.StatusOK, resp)
}

// writeRoutingError maps solver errors onto problem responses and
// records the failed run.
func (s *Server) writeRoutingError(w http.ResponseWriter, r *http.Request, tenant, algo string, err error) {
	id := uuid.New().String()
	var re *routing.Error
	if errors.As(err, &re) {
		if algo == "" {
			algo = re.Algorithm
		}
		switch re.Code {
		case routing.CodeConfiguration:
			s.recordRun(r.Context(), tenant, id, "routing", algo, "failed", err.Error(), model.StatisticsOut{}, 0)
			writeProblem(w, http.StatusBadRequest, "Unknown algorithm", err.Error(), r.URL.Path)
			return
		case routing.CodeOptimization:
			s.recordRun(r.Context(), tenant, id, "routing", algo, "failed", err.Error(), model.StatisticsOut{}, 0)
			writeProblem(w, http.StatusUnprocessableEntity, "Optimization failed", err.Error(), r.URL.Path)
			return
		}
	}
	s.recordRun(r.Context(), tenant, id, "routing", algo, "failed", err.Error(), model.StatisticsOut{}, 0)
	writeProblem(w, http.StatusInternalServerError, "Optimization failed", err.Error(), r.URL.Path)
}

// ShortestPathHandler handles POST /v1/shortest-path
func (s *Server) ShortestPathHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.ShortestPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateShortestPathRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid shortest-path request", err.Error(), r.URL.Path)
		return
	}

	locs := make([]routing.Location, len(req.Locations))
	for i, loc := range req.Locations {
		locs[i] = routing.Location{ID: i, Name: loc.Name, Lat: loc.Lat, Lon: loc.Lon}
	}
	m := routing.BuildMatrix(locs)
	dist, path := m.ShortestPath(req.Start, req.End)

	resp := model.ShortestPathResponse{Reachable: !math.IsInf(dist, 1)}
	if resp.Reachable {
		resp.DistanceKm = dist
		resp.Path = path
	}
	writeJSON(w, http.StatusOK, resp)
}

// InventoryHandler handles POST /v1/optimize/inventory
func (s *Server) InventoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	var req model.InventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateInventoryRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid inventory request", err.Error(), r.URL.Path)
		return
	}

	start := time.Now()
	policy, err := s.calculatorFor(req).OptimizePolicy(req.AnnualDemand, req.UnitCost, req.DemandStdDev, req.LeadTimeDays)
	elapsed := time.Since(start)
	if err != nil {
		metrics.Optimizations.WithLabelValues("inventory", "eoq", "failed").Inc()
		writeProblem(w, http.StatusUnprocessableEntity, "Inventory optimization failed", err.Error(), r.URL.Path)
		return
	}
	metrics.Optimizations.WithLabelValues("inventory", "eoq", "completed").Inc()
	metrics.OptimizationDuration.WithLabelValues("inventory", "eoq").Observe(elapsed.Seconds())

	runID := uuid.New().String()
	s.recordRun(r.Context(), p.Tenant, runID, "inventory", "eoq", "completed", "", model.StatisticsOut{}, elapsed.Milliseconds())
	out := policyOut(policy)
	s.Pub.Emit(r.Context(), p.Tenant, webhooks.EventRunCompleted, map[string]any{"runId": runID, "kind": "inventory", "policy": out})
	writeJSON(w, http.StatusOK, map[string]any{"runId": runID, "policy": out})
}

// SimulateHandler handles POST /v1/optimize/inventory/simulate
func (s *Server) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if len(req.DailyDemands) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid simulation request", "dailyDemands must not be empty", r.URL.Path)
		return
	}

	var policy inventory.Policy
	if req.Policy != nil {
		policy = inventory.Policy{
			EconomicOrderQuantity: req.Policy.EconomicOrderQuantity,
			ReorderPoint:          req.Policy.ReorderPoint,
			SafetyStock:           req.Policy.SafetyStock,
		}
	} else {
		if err := validateInventoryRequest(&req.Inventory); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid inventory request", err.Error(), r.URL.Path)
			return
		}
		var err error
		policy, err = s.calculatorFor(req.Inventory).OptimizePolicy(req.Inventory.AnnualDemand, req.Inventory.UnitCost, req.Inventory.DemandStdDev, req.Inventory.LeadTimeDays)
		if err != nil {
			writeProblem(w, http.StatusUnprocessableEntity, "Inventory optimization failed", err.Error(), r.URL.Path)
			return
		}
	}

	initial := req.InitialInventory
	if initial <= 0 {
		initial = policy.EconomicOrderQuantity + policy.SafetyStock
	}
	res, err := inventory.Simulate(policy, req.DailyDemands, req.LeadTimeDays, initial)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Simulation failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, model.SimulateResponse{
		Policy:               policyOut(policy),
		Days:                 res.Days,
		EndingInventory:      res.EndingInventory,
		AverageInventory:     res.AverageInventory,
		StockoutDays:         res.StockoutDays,
		StockoutRate:         res.StockoutRate,
		FillRate:             res.FillRate,
		OrdersPlaced:         res.OrdersPlaced,
		UnitsOrdered:         res.UnitsOrdered,
		ServiceLevelAchieved: res.ServiceLevelAchieved,
	})
}

// ABCHandler handles POST /v1/inventory/abc
func (s *Server) ABCHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.ABCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if len(req.Items) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ABC request", "items must not be empty", r.URL.Path)
		return
	}
	items := make([]inventory.Item, len(req.Items))
	for i, it := range req.Items {
		if it.AnnualDemand < 0 || it.UnitCost < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid ABC request", fmt.Sprintf("items[%d]: demand and cost must be >= 0", i), r.URL.Path)
			return
		}
		items[i] = inventory.Item{Name: it.Name, AnnualDemand: it.AnnualDemand, UnitCost: it.UnitCost}
	}
	res := inventory.Classify(items)
	resp := model.ABCResponse{
		Items:         make([]model.ABCItemOut, len(res.Items)),
		CountA:        res.Summary.CountA,
		CountB:        res.Summary.CountB,
		CountC:        res.Summary.CountC,
		ValueSharePct: res.Summary.ValueSharePct,
	}
	for i, it := range res.Items {
		resp.Items[i] = model.ABCItemOut{
			Name:              it.Name,
			AnnualValue:       it.AnnualValue,
			ValuePercent:      it.ValuePercent,
			CumulativePercent: it.CumulativePercent,
			Category:          it.Category,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// BatchHandler handles POST /v1/batch/routes
func (s *Server) BatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.CanPlan() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "planner or admin required", r.URL.Path)
		return
	}
	var req model.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateBatchRequest(&req, s.Cfg.Batch.MaxProblems); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid batch request", err.Error(), r.URL.Path)
		return
	}

	batchID := req.BatchID
	if batchID == "" {
		batchID = uuid.New().String()
	}

	opts := []batch.Option{batch.WithProgress(func(done, total int) {
		s.Broker.Publish(batchID, Event{Type: "batch.progress", Data: map[string]any{
			"batchId": batchID, "done": done, "total": total,
		}})
	})}
	if req.Workers > 0 {
		opts = append(opts, batch.WithWorkers(req.Workers))
	} else if s.Cfg.Batch.Workers > 0 {
		opts = append(opts, batch.WithWorkers(s.Cfg.Batch.Workers))
	}
	d := batch.NewDispatcher(opts...)

	start := time.Now()
	results := d.Run(r.Context(), req.Problems, s.solveRouting)
	elapsed := time.Since(start)

	resp := model.BatchResponse{
		BatchID:   batchID,
		Items:     make([]model.BatchItemResult, len(results)),
		ElapsedMs: elapsed.Milliseconds(),
	}
	for i, res := range results {
		item := model.BatchItemResult{Index: res.Index}
		if res.Err != nil {
			item.Error = res.Err.Error()
			resp.Failed++
			metrics.BatchItems.WithLabelValues("failed").Inc()
		} else {
			item.Result = res.Value
			resp.Succeeded++
			metrics.BatchItems.WithLabelValues("completed").Inc()
		}
		resp.Items[i] = item
	}

	status := "completed"
	if resp.Succeeded == 0 && resp.Failed > 0 {
		status = "failed"
	}
	s.recordRun(r.Context(), p.Tenant, batchID, "batch", "", status, "", model.StatisticsOut{}, resp.ElapsedMs)
	s.Broker.Publish(batchID, Event{Type: "batch.completed", Data: map[string]any{
		"batchId": batchID, "succeeded": resp.Succeeded, "failed": resp.Failed,
	}})
	s.Pub.Emit(r.Context(), p.Tenant, webhooks.EventBatchCompleted, map[string]any{
		"batchId": batchID, "succeeded": resp.Succeeded, "failed": resp.Failed, "elapsedMs": resp.ElapsedMs,
	})
	writeJSON(w, http.StatusOK, resp)
}

// RunsHandler handles GET /v1/runs
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	kind := r.URL.Query().Get("kind")
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListRuns(r.Context(), p.Tenant, kind, cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List runs failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// RunByIDHandler handles GET /v1/runs/{id}
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	p := s.getPrincipal(r)
	run, err := s.Store.GetRun(r.Context(), p.Tenant, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "run not found", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Get run failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// RunStatsHandler handles GET /v1/admin/runs/stats
func (s *Server) RunStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
		return
	}
	stats, err := s.Store.RunStats(r.Context(), p.Tenant)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Run stats failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	p := s.getPrincipal(r)
	switch r.Method {
	case http.MethodPost:
		var req model.SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateSubscriptionRequest(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid subscription", err.Error(), r.URL.Path)
			return
		}
		sub, err := s.Store.CreateSubscription(r.Context(), p.Tenant, req)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create subscription failed", err.Error(), r.URL.Path)
			return
		}
		sub.Secret = ""
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListSubscriptions(r.Context(), p.Tenant, cursor, limit)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List subscriptions failed", err.Error(), r.URL.Path)
			return
		}
		for i := range items {
			items[i].Secret = ""
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if err := s.Store.DeleteSubscription(r.Context(), p.Tenant, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "subscription not found", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Delete subscription failed", err.Error(), r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WebhookDeliveriesHandler handles GET /v1/admin/webhook-deliveries
func (s *Server) WebhookDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
		return
	}
	status := r.URL.Query().Get("status")
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListWebhookDeliveries(r.Context(), p.Tenant, status, cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List deliveries failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// WebhookDeliveryRetryHandler handles POST /v1/admin/webhook-deliveries/{id}/retry
func (s *Server) WebhookDeliveryRetryHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/admin/webhook-deliveries/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "retry" || parts[0] == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := s.getPrincipal(r)
	if !p.IsAdmin() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin required", r.URL.Path)
		return
	}
	if err := s.Store.RetryWebhookDelivery(r.Context(), p.Tenant, parts[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "delivery not found", r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Retry failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ConfigHandler handles GET /v1/config, exposing effective defaults.
func (s *Server) ConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"routing": map[string]any{
			"defaultAlgorithm": s.Cfg.Routing.DefaultAlgorithm,
			"vehicleCapacity":  s.Cfg.Routing.VehicleCapacity,
			"maxDistanceKm":    s.Cfg.Routing.MaxDistanceKm,
			"algorithms":       []string{"clarke_wright", "nearest_neighbor"},
		},
		"inventory": map[string]any{
			"holdingCostRate": s.Cfg.Inventory.HoldingCostRate,
			"orderingCost":    s.Cfg.Inventory.OrderingCost,
			"serviceLevel":    s.Cfg.Inventory.ServiceLevel,
		},
		"batch": map[string]any{
			"workers":     s.Dispatcher.Workers(),
			"maxProblems": s.Cfg.Batch.MaxProblems,
		},
	})
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Ready(r.Context()); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// calculatorFor returns the shared calculator unless the request
// overrides cost parameters.
func (s *Server) calculatorFor(req model.InventoryRequest) *inventory.Calculator {
	hold := req.HoldingCostRate
	order := req.OrderingCost
	level := req.ServiceLevel
	if hold == 0 && order == 0 && level == 0 {
		return s.Inventory
	}
	if hold == 0 {
		hold = s.Cfg.Inventory.HoldingCostRate
	}
	if order == 0 {
		order = s.Cfg.Inventory.OrderingCost
	}
	if level == 0 {
		level = s.Cfg.Inventory.ServiceLevel
	}
	return inventory.NewCalculator(hold, order, level)
}

func policyOut(p inventory.Policy) model.PolicyOut {
	return model.PolicyOut{
		EconomicOrderQuantity: p.EconomicOrderQuantity,
		ReorderPoint:          p.ReorderPoint,
		SafetyStock:           p.SafetyStock,
		AverageInventory:      p.AverageInventory,
		TotalAnnualCost:       p.TotalAnnualCost,
		ServiceLevel:          p.ServiceLevel,
		NumberOfOrders:        p.NumberOfOrders,
	}
}
