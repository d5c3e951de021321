package track

import (
	"fmt"
	"math"
)

// BoundsBox is the geographic bounding box of a track.
type BoundsBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Bounds returns the min/max latitude and longitude over the full point
// sequence. Bounds must reflect the true track, so callers pass the
// unsimplified sequence.
func Bounds(points []Point) BoundsBox {
	if len(points) == 0 {
		return BoundsBox{}
	}
	b := BoundsBox{
		North: points[0].Lat, South: points[0].Lat,
		East: points[0].Lon, West: points[0].Lon,
	}
	for _, p := range points[1:] {
		b.North = math.Max(b.North, p.Lat)
		b.South = math.Min(b.South, p.Lat)
		b.East = math.Max(b.East, p.Lon)
		b.West = math.Min(b.West, p.Lon)
	}
	return b
}

// ProfileSample is one elevation checkpoint along the distance axis.
type ProfileSample struct {
	DistanceKm float64 `json:"distance_km"`
	ElevationM float64 `json:"elevation_m"`
}

// ElevationProfile linearly interpolates elevation at samples equally-spaced
// distance checkpoints along the unsimplified track.
func ElevationProfile(points []Point, samples int) []ProfileSample {
	if len(points) == 0 || samples <= 0 {
		return nil
	}

	distances := CumulativeDistances(points)
	total := distances[len(distances)-1]
	if total == 0 || samples == 1 {
		return []ProfileSample{{DistanceKm: 0, ElevationM: round1(points[0].Elevation)}}
	}

	profile := make([]ProfileSample, 0, samples)
	interval := total / float64(samples-1)

	seg := 0
	for i := 0; i < samples; i++ {
		targetDist := float64(i) * interval

		for seg < len(distances)-1 && distances[seg+1] < targetDist {
			seg++
		}

		var elevation float64
		if seg >= len(points)-1 {
			elevation = points[len(points)-1].Elevation
		} else {
			d1, d2 := distances[seg], distances[seg+1]
			e1, e2 := points[seg].Elevation, points[seg+1].Elevation
			if d2-d1 > 0 {
				t := (targetDist - d1) / (d2 - d1)
				elevation = e1 + t*(e2-e1)
			} else {
				elevation = e1
			}
		}

		profile = append(profile, ProfileSample{
			DistanceKm: round3(targetDist / 1000),
			ElevationM: round1(elevation),
		})
	}
	return profile
}

// RaceStats is the track-level summary persisted on race records.
type RaceStats struct {
	DistanceMeters int `json:"distance_meters"`
	ElevationGain  int `json:"elevation_gain"`
	ElevationLoss  int `json:"elevation_loss"`
	ElevationMin   int `json:"elevation_min"`
	ElevationMax   int `json:"elevation_max"`
}

// ExtractRaceStats computes total distance and filtered elevation figures for
// updating a race record.
func ExtractRaceStats(points []Point, elevationThreshold float64) RaceStats {
	if len(points) == 0 {
		return RaceStats{}
	}

	distances := CumulativeDistances(points)
	elevs := Elevations(points)
	gain, loss := ElevationStats(elevs, elevationThreshold)

	minElev, maxElev := elevs[0], elevs[0]
	for _, e := range elevs[1:] {
		minElev = math.Min(minElev, e)
		maxElev = math.Max(maxElev, e)
	}

	return RaceStats{
		DistanceMeters: int(math.Round(distances[len(distances)-1])),
		ElevationGain:  int(math.Round(gain)),
		ElevationLoss:  int(math.Round(loss)),
		ElevationMin:   int(math.Round(minElev)),
		ElevationMax:   int(math.Round(maxElev)),
	}
}

// ProcessedStats summarises a processed track for display.
type ProcessedStats struct {
	OriginalPoints   int     `json:"original_points"`
	SimplifiedPoints int     `json:"simplified_points"`
	MinElevationM    float64 `json:"min_elevation_m"`
	MaxElevationM    float64 `json:"max_elevation_m"`
	TotalGainM       float64 `json:"total_gain_m"`
	TotalLossM       float64 `json:"total_loss_m"`
}

// Processed is the display-ready track document: simplified polyline, true
// bounds, elevation profile and summary stats.
type Processed struct {
	Polyline         []LatLon        `json:"polyline"`
	Bounds           BoundsBox       `json:"bounds"`
	ElevationProfile []ProfileSample `json:"elevation_profile"`
	TotalDistanceKm  float64         `json:"total_distance_km"`
	Stats            ProcessedStats  `json:"stats"`
}

// ProcessOptions controls track processing. Zero values select defaults.
type ProcessOptions struct {
	TargetPoints       int     // simplified polyline size, default 200
	ElevationSamples   int     // profile checkpoints, default 100
	Method             string  // "uniform" (default) or "rdp"
	ElevationThreshold float64 // noise threshold, default DefaultElevationThreshold
	Metric             DeviationMetric
}

// Process turns a full point sequence into a display-ready document. The only
// fatal condition is an empty track.
func Process(points []Point, opts ProcessOptions) (*Processed, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("track has no points")
	}

	if opts.TargetPoints <= 0 {
		opts.TargetPoints = 200
	}
	if opts.ElevationSamples <= 0 {
		opts.ElevationSamples = 100
	}
	if opts.ElevationThreshold <= 0 {
		opts.ElevationThreshold = DefaultElevationThreshold
	}

	var simplified []Point
	if opts.Method == "rdp" {
		simplified = SimplifyShape(points, opts.TargetPoints, opts.Metric)
	} else {
		simplified = SimplifyUniform(points, opts.TargetPoints)
	}

	polyline := make([]LatLon, len(simplified))
	for i, p := range simplified {
		polyline[i] = LatLon{Lat: p.Lat, Lon: p.Lon}
	}

	distances := CumulativeDistances(points)
	elevs := Elevations(points)
	gain, loss := ElevationStats(elevs, opts.ElevationThreshold)

	minElev, maxElev := elevs[0], elevs[0]
	for _, e := range elevs[1:] {
		minElev = math.Min(minElev, e)
		maxElev = math.Max(maxElev, e)
	}

	return &Processed{
		Polyline:         polyline,
		Bounds:           Bounds(points),
		ElevationProfile: ElevationProfile(points, opts.ElevationSamples),
		TotalDistanceKm:  round2(distances[len(distances)-1] / 1000),
		Stats: ProcessedStats{
			OriginalPoints:   len(points),
			SimplifiedPoints: len(simplified),
			MinElevationM:    round1(minElev),
			MaxElevationM:    round1(maxElev),
			TotalGainM:       round1(gain),
			TotalLossM:       round1(loss),
		},
	}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
