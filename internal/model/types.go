// Package model defines the wire types shared by the HTTP API, the
// store, and the webhook pipeline.
package model

import "time"

// LocationIn is a stop submitted in an optimization request.
type LocationIn struct {
	Name   string  `json:"name,omitempty"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Demand float64 `json:"demand,omitempty"`
}

// RoutingRequest is the body of POST /v1/optimize/routes.
type RoutingRequest struct {
	Algorithm       string       `json:"algorithm,omitempty"`
	Depot           LocationIn   `json:"depot"`
	Customers       []LocationIn `json:"customers"`
	VehicleCapacity float64      `json:"vehicleCapacity,omitempty"`
	MaxDistance     float64      `json:"maxDistance,omitempty"`
}

// StopOut is one visit on a planned route.
type StopOut struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Demand float64 `json:"demand"`
}

// RouteOut is one vehicle's planned tour, depot first and last.
type RouteOut struct {
	VehicleID     int       `json:"vehicleId"`
	Stops         []StopOut `json:"stops"`
	TotalDistance float64   `json:"totalDistanceKm"`
	TotalDemand   float64   `json:"totalDemand"`
}

// StatisticsOut summarizes a routing solution.
type StatisticsOut struct {
	VehicleCount        int     `json:"vehicleCount"`
	TotalDistance       float64 `json:"totalDistanceKm"`
	TotalDemand         float64 `json:"totalDemand"`
	AvgDistancePerRoute float64 `json:"avgDistancePerRouteKm"`
	UtilizationPercent  float64 `json:"utilizationPercent"`
}

// RoutingResponse is the body returned by POST /v1/optimize/routes.
type RoutingResponse struct {
	RunID      string        `json:"runId"`
	Algorithm  string        `json:"algorithm"`
	Routes     []RouteOut    `json:"routes"`
	Statistics StatisticsOut `json:"statistics"`
	ElapsedMs  int64         `json:"elapsedMs"`
}

// ShortestPathRequest is the body of POST /v1/shortest-path. Locations
// index the nodes; Start and End refer to positions in that slice.
type ShortestPathRequest struct {
	Locations []LocationIn `json:"locations"`
	Start     int          `json:"start"`
	End       int          `json:"end"`
}

// ShortestPathResponse reports the found path, or reachable=false when
// no path exists.
type ShortestPathResponse struct {
	DistanceKm float64 `json:"distanceKm"`
	Path       []int   `json:"path"`
	Reachable  bool    `json:"reachable"`
}

// InventoryRequest is the body of POST /v1/optimize/inventory.
type InventoryRequest struct {
	AnnualDemand    float64 `json:"annualDemand"`
	UnitCost        float64 `json:"unitCost"`
	DemandStdDev    float64 `json:"demandStdDev,omitempty"`
	LeadTimeDays    float64 `json:"leadTimeDays,omitempty"`
	HoldingCostRate float64 `json:"holdingCostRate,omitempty"`
	OrderingCost    float64 `json:"orderingCost,omitempty"`
	ServiceLevel    float64 `json:"serviceLevel,omitempty"`
}

// PolicyOut is the computed inventory policy.
type PolicyOut struct {
	EconomicOrderQuantity float64 `json:"economicOrderQuantity"`
	ReorderPoint          float64 `json:"reorderPoint"`
	SafetyStock           float64 `json:"safetyStock"`
	AverageInventory      float64 `json:"averageInventory"`
	TotalAnnualCost       float64 `json:"totalAnnualCost"`
	ServiceLevel          float64 `json:"serviceLevel"`
	NumberOfOrders        int     `json:"numberOfOrders"`
}

// SimulateRequest is the body of POST /v1/optimize/inventory/simulate.
// Policy is optional; when absent it is derived from the inventory
// parameters first.
type SimulateRequest struct {
	Inventory        InventoryRequest `json:"inventory"`
	Policy           *PolicyOut       `json:"policy,omitempty"`
	DailyDemands     []float64        `json:"dailyDemands"`
	LeadTimeDays     int              `json:"leadTimeDays,omitempty"`
	InitialInventory float64          `json:"initialInventory,omitempty"`
}

// SimulateResponse is the replayed policy performance.
type SimulateResponse struct {
	Policy               PolicyOut `json:"policy"`
	Days                 int       `json:"days"`
	EndingInventory      float64   `json:"endingInventory"`
	AverageInventory     float64   `json:"averageInventory"`
	StockoutDays         int       `json:"stockoutDays"`
	StockoutRate         float64   `json:"stockoutRate"`
	FillRate             float64   `json:"fillRate"`
	OrdersPlaced         int       `json:"ordersPlaced"`
	UnitsOrdered         float64   `json:"unitsOrdered"`
	ServiceLevelAchieved float64   `json:"serviceLevelAchieved"`
}

// ABCItemIn is one SKU in an ABC analysis request.
type ABCItemIn struct {
	Name         string  `json:"name"`
	AnnualDemand float64 `json:"annualDemand"`
	UnitCost     float64 `json:"unitCost"`
}

// ABCRequest is the body of POST /v1/inventory/abc.
type ABCRequest struct {
	Items []ABCItemIn `json:"items"`
}

// ABCItemOut is one classified SKU.
type ABCItemOut struct {
	Name              string  `json:"name"`
	AnnualValue       float64 `json:"annualValue"`
	ValuePercent      float64 `json:"valuePercent"`
	CumulativePercent float64 `json:"cumulativePercent"`
	Category          string  `json:"category"`
}

// ABCResponse is the full classification with per-category shares.
type ABCResponse struct {
	Items         []ABCItemOut       `json:"items"`
	CountA        int                `json:"countA"`
	CountB        int                `json:"countB"`
	CountC        int                `json:"countC"`
	ValueSharePct map[string]float64 `json:"valueSharePct"`
}

// BatchRequest is the body of POST /v1/batch/routes: many routing
// problems dispatched to a worker pool.
type BatchRequest struct {
	// BatchID lets a client pick the id up front so it can open the
	// progress stream before submitting. Server-assigned when empty.
	BatchID  string           `json:"batchId,omitempty"`
	Problems []RoutingRequest `json:"problems"`
	Workers  int              `json:"workers,omitempty"`
}

// BatchItemResult is the outcome of one problem in a batch, in input
// order. Exactly one of Result and Error is set.
type BatchItemResult struct {
	Index  int              `json:"index"`
	Result *RoutingResponse `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// BatchResponse is the body returned by POST /v1/batch/routes.
type BatchResponse struct {
	BatchID   string            `json:"batchId"`
	Items     []BatchItemResult `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	ElapsedMs int64             `json:"elapsedMs"`
}

// RunRecord is a persisted optimization run.
type RunRecord struct {
	ID         string        `json:"id"`
	TenantID   string        `json:"tenantId"`
	Kind       string        `json:"kind"` // routing, inventory, batch
	Algorithm  string        `json:"algorithm,omitempty"`
	Status     string        `json:"status"` // completed, failed
	Error      string        `json:"error,omitempty"`
	Statistics StatisticsOut `json:"statistics"`
	ElapsedMs  int64         `json:"elapsedMs"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// RunStats aggregates persisted runs for the admin endpoint.
type RunStats struct {
	TotalRuns     int            `json:"totalRuns"`
	CompletedRuns int            `json:"completedRuns"`
	FailedRuns    int            `json:"failedRuns"`
	ByAlgorithm   map[string]int `json:"byAlgorithm"`
	AvgElapsedMs  float64        `json:"avgElapsedMs"`
}

// SubscriptionRequest registers a webhook endpoint.
type SubscriptionRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret"`
}

// Subscription is a stored webhook registration.
type Subscription struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	Secret   string   `json:"secret,omitempty"`
}
