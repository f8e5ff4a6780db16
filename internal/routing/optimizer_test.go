package routing

import (
	"errors"
	"math"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		name string
		want Strategy
	}{
		{"clarke_wright", StrategyClarkeWright},
		{"nearest_neighbor", StrategyNearestNeighbor},
	}
	for _, c := range cases {
		got, err := ParseStrategy(c.name)
		if err != nil {
			t.Fatalf("ParseStrategy(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("ParseStrategy(%q) = %v, want %v", c.name, got, c.want)
		}
		if got.String() != c.name {
			t.Fatalf("round trip: %q != %q", got.String(), c.name)
		}
	}
}

func TestParseStrategyUnknown(t *testing.T) {
	_, err := ParseStrategy("simulated_annealing")
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("expected *routing.Error, got %T", err)
	}
	if re.Code != CodeConfiguration {
		t.Fatalf("code: got %s, want %s", re.Code, CodeConfiguration)
	}
}

func TestOptimizeEmptyCustomers(t *testing.T) {
	o := NewOptimizer(1000, 500)
	res, err := o.Optimize(Stop{Lat: 0, Lon: 0}, nil, StrategyClarkeWright)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Routes) != 0 {
		t.Fatalf("routes: got %d, want 0", len(res.Routes))
	}
	st := res.Statistics
	if st.VehicleCount != 0 || st.TotalDistance != 0 || st.TotalDemand != 0 ||
		st.AvgDistancePerRoute != 0 || st.UtilizationPercent != 0 {
		t.Fatalf("statistics should be zero: %+v", st)
	}
}

func TestOptimizeStatistics(t *testing.T) {
	o := NewOptimizer(1000, 500)
	depot := Stop{Lat: 0, Lon: 0, Name: "Hub"}
	customers := []Stop{
		{Lat: 0, Lon: 1, Demand: 500},
		{Lat: 0, Lon: 2, Demand: 500},
	}
	res, err := o.Optimize(depot, customers, StrategyClarkeWright)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	st := res.Statistics
	if st.VehicleCount != 1 {
		t.Fatalf("vehicle count: got %d, want 1", st.VehicleCount)
	}
	if st.TotalDemand != 1000 {
		t.Fatalf("total demand: got %v, want 1000", st.TotalDemand)
	}
	if st.UtilizationPercent != 100 {
		t.Fatalf("utilization: got %v, want 100", st.UtilizationPercent)
	}
	if math.Abs(st.AvgDistancePerRoute-st.TotalDistance) > 1e-9 {
		t.Fatalf("avg distance %v should equal total %v for one route", st.AvgDistancePerRoute, st.TotalDistance)
	}
	if res.Algorithm != "clarke_wright" {
		t.Fatalf("algorithm: got %s", res.Algorithm)
	}
}

func TestOptimizeBothStrategiesPreserveDemand(t *testing.T) {
	o := NewOptimizer(700, 500)
	depot := Stop{Lat: 40.0, Lon: -75.0}
	customers := []Stop{
		{Lat: 40.1, Lon: -75.1, Demand: 120},
		{Lat: 40.2, Lon: -74.9, Demand: 340},
		{Lat: 39.9, Lon: -75.2, Demand: 210},
		{Lat: 40.3, Lon: -75.05, Demand: 90},
		{Lat: 39.8, Lon: -74.8, Demand: 450},
	}
	want := 120.0 + 340 + 210 + 90 + 450
	for _, s := range []Strategy{StrategyClarkeWright, StrategyNearestNeighbor} {
		res, err := o.Optimize(depot, customers, s)
		if err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		if math.Abs(res.Statistics.TotalDemand-want) > 1e-9 {
			t.Fatalf("%v: total demand %v, want %v", s, res.Statistics.TotalDemand, want)
		}
		for _, r := range res.Routes {
			if r.Locations[0].ID != 0 || r.Locations[len(r.Locations)-1].ID != 0 {
				t.Fatalf("%v: route %d does not start/end at depot", s, r.VehicleID)
			}
		}
	}
}

func TestOptimizeNaNCoordinates(t *testing.T) {
	o := NewOptimizer(1000, 500)
	_, err := o.Optimize(Stop{Lat: 0, Lon: 0}, []Stop{{Lat: math.NaN(), Lon: 1, Demand: 10}}, StrategyNearestNeighbor)
	if err == nil {
		t.Fatal("expected error for NaN coordinates")
	}
	var re *Error
	if !errors.As(err, &re) || re.Code != CodeOptimization {
		t.Fatalf("expected OPTIMIZATION_ERROR, got %v", err)
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	o := NewOptimizer(500, 500)
	depot := Stop{Lat: 10, Lon: 10}
	customers := []Stop{
		{Lat: 10.5, Lon: 10.5, Demand: 100},
		{Lat: 10.5, Lon: 9.5, Demand: 100},
		{Lat: 9.5, Lon: 10.5, Demand: 100},
		{Lat: 9.5, Lon: 9.5, Demand: 100},
	}
	first, err := o.Optimize(depot, customers, StrategyNearestNeighbor)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := o.Optimize(depot, customers, StrategyNearestNeighbor)
		if err != nil {
			t.Fatalf("Optimize: %v", err)
		}
		if again.Statistics != first.Statistics {
			t.Fatalf("statistics changed between runs: %+v vs %+v", again.Statistics, first.Statistics)
		}
	}
}
