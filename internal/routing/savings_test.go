package routing

import (
	"math"
	"testing"
)

func buildFixture(depot Stop, customers []Stop) (Location, []Location, Matrix) {
	d, cs := BuildLocations(depot, customers)
	all := append([]Location{d}, cs...)
	return d, cs, BuildMatrix(all)
}

func TestClarkeWrightMergesWhenCapacityAllows(t *testing.T) {
	depot := Stop{Lat: 0, Lon: 0}
	customers := []Stop{
		{Lat: 0, Lon: 1, Demand: 500},
		{Lat: 0, Lon: 2, Demand: 500},
	}
	d, cs, m := buildFixture(depot, customers)

	routes := clarkeWright(d, cs, m, 1000)
	if len(routes) != 1 {
		t.Fatalf("expected one merged route, got %d", len(routes))
	}
	r := routes[0]
	if r.TotalDemand != 1000 {
		t.Fatalf("merged demand: got %v, want 1000", r.TotalDemand)
	}
	if got := len(r.Locations); got != 4 {
		t.Fatalf("stop count: got %d, want 4 (depot, c1, c2, depot)", got)
	}
	if r.Locations[0].ID != 0 || r.Locations[3].ID != 0 {
		t.Fatal("route must start and end at the depot")
	}
}

func TestClarkeWrightRespectsCapacity(t *testing.T) {
	depot := Stop{Lat: 0, Lon: 0}
	customers := []Stop{
		{Lat: 0, Lon: 1, Demand: 600},
		{Lat: 0, Lon: 2, Demand: 600},
	}
	d, cs, m := buildFixture(depot, customers)

	routes := clarkeWright(d, cs, m, 1000)
	if len(routes) != 2 {
		t.Fatalf("expected two routes (merge over capacity), got %d", len(routes))
	}
	for _, r := range routes {
		if r.TotalDemand > 1000 {
			t.Fatalf("route %d demand %v exceeds capacity", r.VehicleID, r.TotalDemand)
		}
	}
}

func TestClarkeWrightPreservesAllCustomers(t *testing.T) {
	depot := Stop{Lat: 40.0, Lon: -75.0}
	customers := []Stop{
		{Lat: 40.1, Lon: -75.1, Demand: 120},
		{Lat: 40.2, Lon: -74.9, Demand: 340},
		{Lat: 39.9, Lon: -75.2, Demand: 210},
		{Lat: 40.3, Lon: -75.05, Demand: 90},
		{Lat: 39.8, Lon: -74.8, Demand: 450},
	}
	d, cs, m := buildFixture(depot, customers)

	routes := clarkeWright(d, cs, m, 500)
	seen := map[int]int{}
	demand := 0.0
	for _, r := range routes {
		for _, loc := range r.Locations[1 : len(r.Locations)-1] {
			seen[loc.ID]++
		}
		demand += r.TotalDemand
	}
	if len(seen) != len(customers) {
		t.Fatalf("visited %d distinct customers, want %d", len(seen), len(customers))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("customer %d appears %d times", id, count)
		}
	}
	want := 120.0 + 340 + 210 + 90 + 450
	if math.Abs(demand-want) > 1e-9 {
		t.Fatalf("total demand: got %v, want %v", demand, want)
	}
}

func TestClarkeWrightTotalDistanceMatchesStops(t *testing.T) {
	depot := Stop{Lat: 0, Lon: 0}
	customers := []Stop{
		{Lat: 0, Lon: 1, Demand: 100},
		{Lat: 0, Lon: 2, Demand: 100},
		{Lat: 1, Lon: 1, Demand: 100},
	}
	d, cs, m := buildFixture(depot, customers)

	for _, r := range clarkeWright(d, cs, m, 1000) {
		sum := 0.0
		for k := 0; k < len(r.Locations)-1; k++ {
			sum += m[r.Locations[k].ID][r.Locations[k+1].ID]
		}
		if math.Abs(r.TotalDistance-round2(sum)) > 1e-9 {
			t.Fatalf("route %d distance %v, recomputed %v", r.VehicleID, r.TotalDistance, round2(sum))
		}
	}
}

func TestClarkeWrightOversizedCustomerShipsAlone(t *testing.T) {
	depot := Stop{Lat: 0, Lon: 0}
	customers := []Stop{
		{Lat: 0, Lon: 1, Demand: 1500}, // above capacity on its own
		{Lat: 0, Lon: 1.1, Demand: 200},
	}
	d, cs, m := buildFixture(depot, customers)

	routes := clarkeWright(d, cs, m, 1000)
	if len(routes) != 2 {
		t.Fatalf("expected oversized customer in its own route, got %d routes", len(routes))
	}
	var oversized bool
	for _, r := range routes {
		if r.TotalDemand == 1500 && len(r.Locations) == 3 {
			oversized = true
		}
	}
	if !oversized {
		t.Fatal("oversized customer not shipped as a singleton route")
	}
}

func TestClarkeWrightDeterministic(t *testing.T) {
	depot := Stop{Lat: 10, Lon: 10}
	customers := []Stop{
		{Lat: 10.5, Lon: 10.5, Demand: 100},
		{Lat: 10.5, Lon: 9.5, Demand: 100},
		{Lat: 9.5, Lon: 10.5, Demand: 100},
		{Lat: 9.5, Lon: 9.5, Demand: 100}, // symmetric layout produces tied savings
	}
	d, cs, m := buildFixture(depot, customers)

	first := clarkeWright(d, cs, m, 250)
	for run := 0; run < 5; run++ {
		again := clarkeWright(d, cs, m, 250)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d routes, want %d", run, len(again), len(first))
		}
		for i := range first {
			if len(again[i].Locations) != len(first[i].Locations) {
				t.Fatalf("run %d route %d: stop count changed", run, i)
			}
			for k := range first[i].Locations {
				if again[i].Locations[k].ID != first[i].Locations[k].ID {
					t.Fatalf("run %d route %d: order changed at stop %d", run, i, k)
				}
			}
		}
	}
}
