// Package gpx loads GPS exchange files into the pipeline's track model.
package gpx

import (
	"fmt"
	"os"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/panorace/race-processor/internal/track"
)

// Parse converts raw GPX bytes into a flat point sequence, walking every
// track and segment in file order. Points without elevation get 0; points
// without a timestamp keep the zero time.Time.
func Parse(data []byte) ([]track.Point, error) {
	doc, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	var points []track.Point
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				pt := track.Point{
					Lat: p.Latitude,
					Lon: p.Longitude,
				}
				if p.Elevation.NotNull() {
					pt.Elevation = p.Elevation.Value()
				}
				if !p.Timestamp.IsZero() {
					pt.Time = p.Timestamp.UTC()
				}
				points = append(points, pt)
			}
		}
	}
	return points, nil
}

// ParseFile reads and parses a GPX file from disk.
func ParseFile(path string) ([]track.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read GPX file: %w", err)
	}
	return Parse(data)
}

// ParseFileWithTime reads a GPX file and returns only the points usable for
// time-based correlation, sorted ascending by timestamp.
func ParseFileWithTime(path string) ([]track.Point, error) {
	points, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	timed := track.WithTime(points)
	if len(timed) == 0 {
		return nil, fmt.Errorf("no track points with timestamps in %s", path)
	}
	return timed, nil
}
