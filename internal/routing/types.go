// Package routing implements the vehicle-routing engine: great-circle
// distance matrices, the Clarke-Wright savings heuristic, a nearest-neighbor
// fallback, and Dijkstra shortest-path queries over the derived graph.
package routing

// Location is a node in the routing graph. ID 0 is always the depot.
type Location struct {
	ID     int
	Name   string
	Lat    float64
	Lon    float64
	Demand float64
}

// Stop describes a depot or customer before Locations are assigned IDs.
type Stop struct {
	Name   string
	Lat    float64
	Lon    float64
	Demand float64
}

// Route is one vehicle's tour. Locations starts and ends with the depot.
type Route struct {
	VehicleID     int
	Locations     []Location
	TotalDistance float64
	TotalDemand   float64
}

// saving is the Clarke-Wright pair metric; i and j are customer slice
// indices, not Location IDs. Value may be negative.
type saving struct {
	value float64
	i     int
	j     int
}

// Statistics aggregates a full optimization result.
type Statistics struct {
	VehicleCount        int
	TotalDistance       float64
	TotalDemand         float64
	AvgDistancePerRoute float64
	UtilizationPercent  float64
}

// Result is the output of one Optimize call.
type Result struct {
	Routes     []Route
	Statistics Statistics
	Algorithm  string
}
