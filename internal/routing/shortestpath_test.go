package routing

import (
	"math"
	"testing"
)

func TestShortestPathSameNode(t *testing.T) {
	locs := []Location{
		{ID: 0, Lat: 0, Lon: 0},
		{ID: 1, Lat: 0, Lon: 1},
	}
	m := BuildMatrix(locs)
	dist, path := m.ShortestPath(1, 1)
	if dist != 0 {
		t.Fatalf("distance: got %v, want 0", dist)
	}
	if len(path) != 1 || path[0] != 1 {
		t.Fatalf("path: got %v, want [1]", path)
	}
}

func TestShortestPathDirectEdge(t *testing.T) {
	// In a complete great-circle graph the direct edge is never beaten.
	locs := []Location{
		{ID: 0, Lat: 0, Lon: 0},
		{ID: 1, Lat: 0, Lon: 1},
		{ID: 2, Lat: 0, Lon: 2},
		{ID: 3, Lat: 1, Lon: 1},
	}
	m := BuildMatrix(locs)
	dist, path := m.ShortestPath(0, 2)
	if math.Abs(dist-m[0][2]) > 1e-9 {
		t.Fatalf("distance: got %v, want %v", dist, m[0][2])
	}
	if len(path) != 2 || path[0] != 0 || path[1] != 2 {
		t.Fatalf("path: got %v, want [0 2]", path)
	}
}

func TestShortestPathRoutesAroundMissingEdge(t *testing.T) {
	// Zero entries are not edges, so the search must go through node 1.
	m := Matrix{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	}
	dist, path := m.ShortestPath(0, 2)
	if dist != 2 {
		t.Fatalf("distance: got %v, want 2", dist)
	}
	want := []int{0, 1, 2}
	if len(path) != 3 {
		t.Fatalf("path: got %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path: got %v, want %v", path, want)
		}
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	m := Matrix{
		{0, 0},
		{0, 0},
	}
	dist, path := m.ShortestPath(0, 1)
	if !math.IsInf(dist, 1) {
		t.Fatalf("distance: got %v, want +Inf", dist)
	}
	if path != nil {
		t.Fatalf("path: got %v, want nil", path)
	}
}
