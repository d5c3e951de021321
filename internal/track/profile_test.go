package track

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBounds(t *testing.T) {
	points := []Point{
		{Lat: 1, Lon: -3},
		{Lat: -2, Lon: 7},
		{Lat: 5, Lon: 2},
	}
	got := Bounds(points)
	want := BoundsBox{North: 5, South: -2, East: 7, West: -3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestBounds_Empty(t *testing.T) {
	if got := Bounds(nil); got != (BoundsBox{}) {
		t.Errorf("empty bounds = %+v, want zero box", got)
	}
}

func TestElevationProfile_InterpolatesLinearly(t *testing.T) {
	// Two points 111.19m apart, climbing from 100 to 200: the midpoint sample
	// must interpolate to ~150.
	points := []Point{
		{Lat: 0, Lon: 0, Elevation: 100},
		{Lat: 0.001, Lon: 0, Elevation: 200},
	}
	profile := ElevationProfile(points, 3)
	if len(profile) != 3 {
		t.Fatalf("len = %d, want 3", len(profile))
	}
	if profile[0].ElevationM != 100 {
		t.Errorf("first sample = %v, want 100", profile[0].ElevationM)
	}
	if math.Abs(profile[1].ElevationM-150) > 1 {
		t.Errorf("midpoint sample = %v, want ~150", profile[1].ElevationM)
	}
	if profile[2].ElevationM != 200 {
		t.Errorf("last sample = %v, want 200", profile[2].ElevationM)
	}
}

func TestElevationProfile_ZeroDistance(t *testing.T) {
	points := []Point{{Elevation: 42}, {Elevation: 42}}
	profile := ElevationProfile(points, 10)
	if len(profile) != 1 {
		t.Fatalf("zero-distance track: len = %d, want 1", len(profile))
	}
	if profile[0].ElevationM != 42 {
		t.Errorf("elevation = %v, want 42", profile[0].ElevationM)
	}
}

func TestExtractRaceStats(t *testing.T) {
	points := []Point{
		{Lat: 0, Lon: 0, Elevation: 100},
		{Lat: 0, Lon: 0.001, Elevation: 103},
		{Lat: 0, Lon: 0.002, Elevation: 98},
	}
	got := ExtractRaceStats(points, 1.0)

	if got.DistanceMeters < 221 || got.DistanceMeters > 224 {
		t.Errorf("distance = %d, want ~222", got.DistanceMeters)
	}
	if got.ElevationGain != 3 {
		t.Errorf("gain = %d, want 3", got.ElevationGain)
	}
	if got.ElevationLoss != 5 {
		t.Errorf("loss = %d, want 5", got.ElevationLoss)
	}
	if got.ElevationMin != 98 || got.ElevationMax != 103 {
		t.Errorf("min/max = %d/%d, want 98/103", got.ElevationMin, got.ElevationMax)
	}
}

func TestProcess_EmptyTrackFails(t *testing.T) {
	if _, err := Process(nil, ProcessOptions{}); err == nil {
		t.Error("expected error for empty track")
	}
}

func TestProcess_Defaults(t *testing.T) {
	points := zigzagTrack(600)
	for i := range points {
		points[i].Elevation = 100 + float64(i%50)
	}

	got, err := Process(points, ProcessOptions{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got.Stats.OriginalPoints != 600 {
		t.Errorf("original points = %d, want 600", got.Stats.OriginalPoints)
	}
	if len(got.Polyline) > 210 {
		t.Errorf("polyline = %d points, want about the 200 default", len(got.Polyline))
	}
	if len(got.ElevationProfile) != 100 {
		t.Errorf("profile = %d samples, want 100 default", len(got.ElevationProfile))
	}
	if got.TotalDistanceKm <= 0 {
		t.Error("total distance must be positive")
	}
	if got.Bounds.East <= got.Bounds.West {
		t.Error("bounds east must exceed west for an eastward track")
	}
}

func TestProcess_RDPMethod(t *testing.T) {
	points := zigzagTrack(600)
	got, err := Process(points, ProcessOptions{TargetPoints: 50, Method: "rdp"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got.Polyline) >= 600 {
		t.Errorf("rdp did not reduce: %d points", len(got.Polyline))
	}
	first := got.Polyline[0]
	if first != (LatLon{Lat: points[0].Lat, Lon: points[0].Lon}) {
		t.Error("rdp dropped the first point")
	}

	// Distance and bounds come from the full track, which simplification
	// must leave untouched.
	distances := CumulativeDistances(points)
	wantKm := distances[len(distances)-1] / 1000
	if math.Abs(got.TotalDistanceKm-wantKm) > 0.01 {
		t.Errorf("TotalDistanceKm = %v, want %v", got.TotalDistanceKm, wantKm)
	}
	if got.Bounds.North != 0.002 || got.Bounds.South != 0 {
		t.Errorf("bounds computed from mutated track: %+v", got.Bounds)
	}
}
