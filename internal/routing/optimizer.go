package routing

import "fmt"

// Strategy is the closed set of route construction heuristics.
type Strategy int

const (
	StrategyClarkeWright Strategy = iota
	StrategyNearestNeighbor
)

// Wire names accepted by ParseStrategy.
const (
	nameClarkeWright    = "clarke_wright"
	nameNearestNeighbor = "nearest_neighbor"
)

func (s Strategy) String() string {
	switch s {
	case StrategyClarkeWright:
		return nameClarkeWright
	case StrategyNearestNeighbor:
		return nameNearestNeighbor
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a wire name to a Strategy. Unknown names yield a
// CONFIGURATION_ERROR naming the offending algorithm.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case nameClarkeWright:
		return StrategyClarkeWright, nil
	case nameNearestNeighbor:
		return StrategyNearestNeighbor, nil
	}
	return 0, configErr("vehicle_routing", fmt.Errorf("unknown algorithm: %s", name))
}

// Optimizer runs one strategy over one depot/customer set per call. It is
// stateless across calls apart from its construction-time configuration,
// so concurrent calls need no synchronization.
type Optimizer struct {
	capacity    float64
	maxDistance float64
}

// NewOptimizer configures the engine. maxDistance is carried through
// configuration but not enforced as a per-route cutoff by either
// heuristic, matching upstream behavior.
func NewOptimizer(capacity, maxDistance float64) *Optimizer {
	return &Optimizer{capacity: capacity, maxDistance: maxDistance}
}

func (o *Optimizer) Capacity() float64    { return o.capacity }
func (o *Optimizer) MaxDistance() float64 { return o.maxDistance }

// BuildLocations assigns IDs: depot 0 with zero demand, customers 1..N in
// input order. Empty names get stable defaults.
func BuildLocations(depot Stop, customers []Stop) (Location, []Location) {
	dName := depot.Name
	if dName == "" {
		dName = "Depot"
	}
	d := Location{ID: 0, Name: dName, Lat: depot.Lat, Lon: depot.Lon}
	locs := make([]Location, len(customers))
	for i, c := range customers {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("Customer %d", i+1)
		}
		locs[i] = Location{ID: i + 1, Name: name, Lat: c.Lat, Lon: c.Lon, Demand: c.Demand}
	}
	return d, locs
}

// Optimize builds the distance matrix once, dispatches to the selected
// strategy, and assembles routes with aggregate statistics. An empty
// customer list returns an empty result, not an error.
func (o *Optimizer) Optimize(depot Stop, customers []Stop, strategy Strategy) (*Result, error) {
	depotLoc, customerLocs := BuildLocations(depot, customers)
	if len(customerLocs) == 0 {
		return &Result{Routes: []Route{}, Algorithm: strategy.String()}, nil
	}

	all := make([]Location, 0, len(customerLocs)+1)
	all = append(all, depotLoc)
	all = append(all, customerLocs...)
	m := BuildMatrix(all)
	if !m.valid() {
		return nil, optErr(strategy.String(), fmt.Errorf("distance matrix contains non-finite entries"))
	}

	var routes []Route
	switch strategy {
	case StrategyClarkeWright:
		routes = clarkeWright(depotLoc, customerLocs, m, o.capacity)
	case StrategyNearestNeighbor:
		routes = nearestNeighbor(depotLoc, customerLocs, m, o.capacity)
	default:
		return nil, configErr("vehicle_routing", fmt.Errorf("unknown algorithm: %s", strategy))
	}

	return &Result{
		Routes:     routes,
		Statistics: o.statistics(routes),
		Algorithm:  strategy.String(),
	}, nil
}

// Matrix exposes the distance table for a depot/customer set, for
// point-to-point shortest-path queries outside a full optimization.
func (o *Optimizer) Matrix(depot Stop, customers []Stop) Matrix {
	depotLoc, customerLocs := BuildLocations(depot, customers)
	all := make([]Location, 0, len(customerLocs)+1)
	all = append(all, depotLoc)
	all = append(all, customerLocs...)
	return BuildMatrix(all)
}

func (o *Optimizer) statistics(routes []Route) Statistics {
	st := Statistics{VehicleCount: len(routes)}
	if len(routes) == 0 {
		return st
	}
	for _, r := range routes {
		st.TotalDistance += r.TotalDistance
		st.TotalDemand += r.TotalDemand
	}
	st.AvgDistancePerRoute = round2(st.TotalDistance / float64(len(routes)))
	st.UtilizationPercent = round2(st.TotalDemand / (float64(len(routes)) * o.capacity) * 100)
	st.TotalDistance = round2(st.TotalDistance)
	st.TotalDemand = round2(st.TotalDemand)
	return st
}
