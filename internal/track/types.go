// Package track holds the GPS track data model and the algorithms that run
// over it: the time/distance index used for photo correlation, the
// noise-filtered elevation accumulator, and the polyline simplifier.
package track

import (
	"time"

	"github.com/panorace/race-processor/internal/geo"
)

// Point is a single track point as parsed from a GPS exchange file.
// Time is the zero value when the source point carried no timestamp.
type Point struct {
	Time      time.Time
	Lat       float64
	Lon       float64
	Elevation float64
}

// HasTime reports whether the point carries a timestamp.
func (p Point) HasTime() bool { return !p.Time.IsZero() }

// LatLon is the wire shape of a polyline vertex for client display.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CumulativeDistances returns the running great-circle distance in meters
// from the first point to each point. The result has the same length as the
// input; the first entry is always 0.
func CumulativeDistances(points []Point) []float64 {
	if len(points) == 0 {
		return nil
	}
	distances := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		seg := geo.Distance(prev.Lat, prev.Lon, curr.Lat, curr.Lon)
		distances[i] = distances[i-1] + seg
	}
	return distances
}

// Elevations extracts the elevation series from a point sequence.
func Elevations(points []Point) []float64 {
	elevs := make([]float64, len(points))
	for i, p := range points {
		elevs[i] = p.Elevation
	}
	return elevs
}
