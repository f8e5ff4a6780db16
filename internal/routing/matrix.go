package routing

import "math"

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// coordinates given in degrees. Inputs are assumed to be within valid
// latitude/longitude ranges; the caller validates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Matrix is a symmetric all-pairs distance table in kilometers, indexed by
// Location.ID with the depot at row/column 0. Built once per optimization
// call and read-only afterwards.
type Matrix [][]float64

// BuildMatrix computes the distance table for locations (depot first).
// Each unordered pair is evaluated once and mirrored; the diagonal stays 0.
// This is the dominant O(N²) cost for large inputs, which is why both
// route builders and shortest-path queries share one matrix.
func BuildMatrix(locations []Location) Matrix {
	n := len(locations)
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Haversine(locations[i].Lat, locations[i].Lon, locations[j].Lat, locations[j].Lon)
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// valid reports whether every entry is a finite number. NaN coordinates
// surface here rather than deep inside a heuristic.
func (m Matrix) valid() bool {
	for _, row := range m {
		for _, d := range row {
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return false
			}
		}
	}
	return true
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
