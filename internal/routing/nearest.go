package routing

import "math"

// nearestNeighbor builds routes greedily: each vehicle leaves the depot
// and repeatedly drives to the closest unvisited customer that still fits
// the remaining capacity, returning to the depot when none fits. Customers
// are scanned in ascending index order with a strict comparison, so the
// lowest index wins distance ties.
func nearestNeighbor(depot Location, customers []Location, m Matrix, capacity float64) []Route {
	visited := make([]bool, len(customers))
	remaining := len(customers)

	var routes []Route
	vehicleID := 0
	for remaining > 0 {
		locs := []Location{depot}
		demand := 0.0
		pos := 0 // matrix row of the current position; depot is 0

		for remaining > 0 {
			best := -1
			bestDist := math.Inf(1)
			for ci, c := range customers {
				if visited[ci] {
					continue
				}
				if d := m[pos][ci+1]; d < bestDist && demand+c.Demand <= capacity {
					bestDist = d
					best = ci
				}
			}
			if best == -1 {
				// Nothing fits. A fresh route that cannot take even one
				// customer means that customer alone exceeds capacity;
				// ship it by itself rather than stall (capacity
				// feasibility is validated upstream, not here).
				if len(locs) > 1 {
					break
				}
				best = nearestUnvisited(customers, visited, m, pos)
			}
			locs = append(locs, customers[best])
			demand += customers[best].Demand
			pos = best + 1
			visited[best] = true
			remaining--
		}
		locs = append(locs, depot)

		dist := 0.0
		for k := 0; k < len(locs)-1; k++ {
			dist += m[locs[k].ID][locs[k+1].ID]
		}
		routes = append(routes, Route{
			VehicleID:     vehicleID,
			Locations:     locs,
			TotalDistance: round2(dist),
			TotalDemand:   round2(demand),
		})
		vehicleID++
	}
	return routes
}

func nearestUnvisited(customers []Location, visited []bool, m Matrix, pos int) int {
	best := -1
	bestDist := math.Inf(1)
	for ci := range customers {
		if visited[ci] {
			continue
		}
		if d := m[pos][ci+1]; d < bestDist {
			bestDist = d
			best = ci
		}
	}
	return best
}
