package track

import (
	"math"

	"github.com/panorace/race-processor/internal/geo"
)

// metersPerDegreeLat converts a planar degree-space deviation to approximate
// meters. Only accurate near the equator; see PlanarDeviation.
const metersPerDegreeLat = 111320.0

// epsilonSearchIterations caps the bisection over the RDP tolerance when
// converging on a target point count.
const epsilonSearchIterations = 20

// DeviationMetric measures how far a point deviates from the chord between
// two range endpoints, in meters. It parameterises the shape-preserving
// simplifier so planar and spherical variants can be compared.
type DeviationMetric func(p, start, end Point) float64

// PlanarDeviation is the perpendicular point-to-line distance computed in
// raw degree space and scaled by ~111320 m/degree latitude. This matches the
// historical output of the pipeline but under-scales longitude away from the
// equator; SphericalDeviation is the geometrically honest alternative.
func PlanarDeviation(p, start, end Point) float64 {
	if start.Lat == end.Lat && start.Lon == end.Lon {
		return geo.Distance(p.Lat, p.Lon, start.Lat, start.Lon)
	}

	dx := end.Lon - start.Lon
	dy := end.Lat - start.Lat
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return geo.Distance(p.Lat, p.Lon, start.Lat, start.Lon)
	}

	dist := math.Abs((end.Lat-start.Lat)*(start.Lon-p.Lon)-(start.Lat-p.Lat)*(end.Lon-start.Lon)) / length
	return dist * metersPerDegreeLat
}

// SphericalDeviation is the great-circle cross-track distance from the point
// to the chord between start and end.
func SphericalDeviation(p, start, end Point) float64 {
	if start.Lat == end.Lat && start.Lon == end.Lon {
		return geo.Distance(p.Lat, p.Lon, start.Lat, start.Lon)
	}

	d13 := geo.Distance(start.Lat, start.Lon, p.Lat, p.Lon) / geo.EarthRadiusMeters
	theta13 := geo.Bearing(start.Lat, start.Lon, p.Lat, p.Lon) * math.Pi / 180
	theta12 := geo.Bearing(start.Lat, start.Lon, end.Lat, end.Lon) * math.Pi / 180

	return math.Abs(math.Asin(math.Sin(d13)*math.Sin(theta13-theta12))) * geo.EarthRadiusMeters
}

// SimplifyUniform reduces the track to roughly target points by keeping the
// first point whose cumulative distance crosses each of target-1 equal-width
// distance thresholds. First and last points are always kept. Favors even
// spatial coverage over shape fidelity, which suits minimap rendering.
func SimplifyUniform(points []Point, target int) []Point {
	if target <= 0 || len(points) <= target {
		return points
	}

	distances := CumulativeDistances(points)
	total := distances[len(distances)-1]
	if total == 0 {
		return points[:target]
	}

	simplified := []Point{points[0]}
	interval := total / float64(target-1)
	targetDist := interval

	for i := 1; i < len(points)-1; i++ {
		if distances[i] >= targetDist {
			simplified = append(simplified, points[i])
			targetDist += interval
		}
	}

	last := points[len(points)-1]
	if simplified[len(simplified)-1] != last {
		simplified = append(simplified, last)
	}
	return simplified
}

// SimplifyShape reduces the track to roughly target points with a recursive
// split at the point of maximum deviation from the range chord, wrapped in a
// bisection over the tolerance since target count, not tolerance, is the
// caller's knob. The closest result found within the iteration cap wins.
// A nil metric selects PlanarDeviation.
func SimplifyShape(points []Point, target int, metric DeviationMetric) []Point {
	if target <= 0 || len(points) <= target {
		return points
	}
	if metric == nil {
		metric = PlanarDeviation
	}

	epsLow, epsHigh := 0.0, 10000.0 // meters; 10km caps the tolerance
	best := points
	bestDiff := len(points)

	for iter := 0; iter < epsilonSearchIterations; iter++ {
		eps := (epsLow + epsHigh) / 2
		result := rdp(points, eps, metric)

		diff := absInt(len(result) - target)
		if diff < bestDiff {
			bestDiff = diff
			best = result
		}

		switch {
		case len(result) < target:
			epsHigh = eps
		case len(result) > target:
			epsLow = eps
		default:
			return result
		}
	}
	return best
}

func rdp(points []Point, epsilon float64, metric DeviationMetric) []Point {
	if len(points) < 3 {
		return points
	}

	start, end := points[0], points[len(points)-1]
	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(points)-1; i++ {
		if d := metric(points[i], start, end); d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= epsilon {
		return []Point{start, end}
	}

	left := rdp(points[:maxIdx+1], epsilon, metric)
	right := rdp(points[maxIdx:], epsilon, metric)

	// left can alias the input when a sub-range comes back unsimplified, so
	// joining must not append through it.
	out := make([]Point, 0, len(left)+len(right)-1)
	out = append(out, left[:len(left)-1]...)
	return append(out, right...)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
