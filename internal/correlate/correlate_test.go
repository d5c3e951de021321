package correlate

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/panorace/race-processor/internal/geo"
	"github.com/panorace/race-processor/internal/photo"
	"github.com/panorace/race-processor/internal/track"
)

// threePointTrack is the canonical fixture: points at t=0s/10s/20s moving
// due east in 0.001-degree steps.
func threePointTrack(t *testing.T) *track.Index {
	t.Helper()
	t0 := time.Date(2025, 6, 14, 1, 0, 0, 0, time.UTC)
	points := []track.Point{
		{Time: t0, Lat: 0, Lon: 0, Elevation: 0},
		{Time: t0.Add(10 * time.Second), Lat: 0, Lon: 0.001, Elevation: 0},
		{Time: t0.Add(20 * time.Second), Lat: 0, Lon: 0.002, Elevation: 0},
	}
	ix, err := track.NewIndex(points, track.DefaultElevationThreshold)
	require.NoError(t, err)
	return ix
}

// capturedAt renders a camera-local timestamp for UTC+8 so that the UTC
// conversion lands on the track times above.
func capturedAt(secondsAfterStart int) string {
	utc := time.Date(2025, 6, 14, 1, 0, 0, 0, time.UTC).Add(time.Duration(secondsAfterStart) * time.Second)
	return utc.Add(8 * time.Hour).Format("2006-01-02T15:04:05")
}

func TestApply_ExactScenario(t *testing.T) {
	ix := threePointTrack(t)
	photos := []*photo.Record{
		{PositionIndex: 0, CapturedAt: capturedAt(0)},
		{PositionIndex: 1, CapturedAt: capturedAt(20)},
	}

	rep, err := Apply(photos, ix, Options{UTCOffsetHours: 8})
	require.NoError(t, err)

	require.Equal(t, 2, rep.Updated)
	require.Equal(t, 0, rep.NoTimestamp)
	require.Equal(t, 0, rep.LowConfidence)
	require.Equal(t, 0.0, rep.MeanResidualSeconds)

	// Photo 0 matches point 0, photo 1 matches point 2.
	require.NotNil(t, photos[0].Longitude)
	require.Equal(t, 0.0, *photos[0].Longitude)
	require.NotNil(t, photos[1].Longitude)
	require.Equal(t, 0.002, *photos[1].Longitude)

	// distance_from_start for photo 1 is ~2x one 0.001-degree step.
	step := geo.Distance(0, 0, 0, 0.001)
	require.NotNil(t, photos[1].DistanceFromStart)
	got := float64(*photos[1].DistanceFromStart)
	require.InDelta(t, 2*step, got, 1.0)

	require.Equal(t, 0, *photos[0].DistanceFromStart)
}

func TestApply_OffsetShiftsMatch(t *testing.T) {
	ix := threePointTrack(t)

	for _, tt := range []struct {
		offset  float64
		wantLon float64
	}{
		{0, 0.0},
		{10, 0.001},
		{20, 0.002},
	} {
		photos := []*photo.Record{{CapturedAt: capturedAt(0)}}
		_, err := Apply(photos, ix, Options{UTCOffsetHours: 8, OffsetSeconds: tt.offset})
		require.NoError(t, err)
		require.Equal(t, tt.wantLon, *photos[0].Longitude, "offset %v", tt.offset)
	}
}

func TestApply_Deterministic(t *testing.T) {
	ix := threePointTrack(t)
	run := func() []*photo.Record {
		photos := []*photo.Record{
			{PositionIndex: 0, CapturedAt: capturedAt(0)},
			{PositionIndex: 1, CapturedAt: capturedAt(7)},
			{PositionIndex: 2, CapturedAt: capturedAt(20)},
		}
		_, err := Apply(photos, ix, Options{UTCOffsetHours: 8, OffsetSeconds: 3})
		require.NoError(t, err)
		return photos
	}

	first := run()
	second := run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("correlation not deterministic (-first +second):\n%s", diff)
	}
}

func TestApply_NoTimestampSkipped(t *testing.T) {
	ix := threePointTrack(t)
	existingLat := 55.5
	photos := []*photo.Record{
		{PositionIndex: 0, CapturedAt: capturedAt(0)},
		{PositionIndex: 1, Latitude: &existingLat}, // no timestamp, keeps prior GPS
		{PositionIndex: 2, CapturedAt: capturedAt(20)},
	}

	rep, err := Apply(photos, ix, Options{UTCOffsetHours: 8})
	require.NoError(t, err)

	require.Equal(t, 2, rep.Updated)
	require.Equal(t, 1, rep.NoTimestamp)
	require.Equal(t, 3, rep.TotalPhotos)
	require.Equal(t, 55.5, *photos[1].Latitude, "prior GPS must be left untouched")
	require.Nil(t, photos[1].DistanceFromStart)
}

func TestApply_LowConfidenceStillApplied(t *testing.T) {
	ix := threePointTrack(t)
	photos := []*photo.Record{
		{PositionIndex: 0, CapturedAt: capturedAt(0)},
		{PositionIndex: 1, CapturedAt: capturedAt(500)}, // 480s past track end
	}

	rep, err := Apply(photos, ix, Options{UTCOffsetHours: 8})
	require.NoError(t, err)

	require.Equal(t, 2, rep.Updated, "low-confidence match is applied, not dropped")
	require.Equal(t, 1, rep.LowConfidence)
	require.Equal(t, 0.002, *photos[1].Longitude, "snaps to last track point")
}

func TestApply_NeighbourHeadings(t *testing.T) {
	ix := threePointTrack(t)
	photos := []*photo.Record{
		{PositionIndex: 0, CapturedAt: capturedAt(0)},
		{PositionIndex: 1}, // no timestamp, no coordinates
		{PositionIndex: 2, CapturedAt: capturedAt(20)},
	}

	_, err := Apply(photos, ix, Options{UTCOffsetHours: 8})
	require.NoError(t, err)

	// Photo 0 is westmost, photo 2 eastmost; photo 1 has no coordinates and
	// must be skipped when finding neighbours.
	require.Nil(t, photos[0].HeadingToPrev)
	require.NotNil(t, photos[0].HeadingToNext)
	require.InDelta(t, 90, *photos[0].HeadingToNext, 0.1)

	require.NotNil(t, photos[2].HeadingToPrev)
	require.InDelta(t, 270, *photos[2].HeadingToPrev, 0.1)
	require.Nil(t, photos[2].HeadingToNext)

	require.Nil(t, photos[1].HeadingToPrev)
	require.Nil(t, photos[1].HeadingToNext)
}

func TestApply_ConfigurationErrors(t *testing.T) {
	ix := threePointTrack(t)

	if _, err := Apply(nil, ix, Options{}); err == nil {
		t.Error("expected error for empty photo list")
	}
	if _, err := Apply([]*photo.Record{{}}, nil, Options{}); err == nil {
		t.Error("expected error for nil track index")
	}
}

func TestApply_ReportRanges(t *testing.T) {
	ix := threePointTrack(t)
	photos := []*photo.Record{
		{PositionIndex: 0, CapturedAt: capturedAt(0)},
		{PositionIndex: 1, CapturedAt: capturedAt(10)},
		{PositionIndex: 2, CapturedAt: capturedAt(20)},
	}

	rep, err := Apply(photos, ix, Options{UTCOffsetHours: 8})
	require.NoError(t, err)

	require.NotNil(t, rep.Bounds)
	require.Equal(t, 0.0, rep.Bounds.West)
	require.Equal(t, 0.002, rep.Bounds.East)
	require.NotNil(t, rep.HeadingMin)
	require.NotNil(t, rep.HeadingMax)
	require.Equal(t, 20*time.Second, rep.PhotoDuration)
	require.Equal(t, 20*time.Second, rep.TrackDuration)

	if math.IsNaN(rep.StddevResidualSeconds) {
		t.Error("stddev must not be NaN")
	}
}
