package track

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/panorace/race-processor/internal/geo"
)

// bearingWindow is the number of points spanned when smoothing the direction
// of travel. Bearing to the immediate neighbour is dominated by GPS jitter;
// a wider chord gives the coarse motion direction instead.
const bearingWindow = 5

// Index is a time- and distance-indexed view over a track, built once and
// then shared read-only across photo lookups. All per-point annotations
// (cumulative distance, filtered cumulative gain) are precomputed so that
// each lookup after correlation is O(1).
type Index struct {
	points  []Point
	cumDist []float64
	cumGain []int
	start   time.Time
	end     time.Time
}

// NewIndex builds an Index from a point sequence. Every point must carry a
// timestamp and the sequence must be sorted ascending by time; anything else
// is a configuration error, not a per-point degradation.
func NewIndex(points []Point, elevationThreshold float64) (*Index, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("track has no points")
	}
	for i, p := range points {
		if !p.HasTime() {
			return nil, fmt.Errorf("track point %d has no timestamp; time-based lookup needs timestamps on every point", i)
		}
		if i > 0 && p.Time.Before(points[i-1].Time) {
			return nil, fmt.Errorf("track points not sorted by time at index %d", i)
		}
	}

	return &Index{
		points:  points,
		cumDist: CumulativeDistances(points),
		cumGain: CumulativeElevationGain(Elevations(points), elevationThreshold),
		start:   points[0].Time,
		end:     points[len(points)-1].Time,
	}, nil
}

// Len returns the number of points in the track.
func (ix *Index) Len() int { return len(ix.points) }

// Point returns the i-th track point.
func (ix *Index) Point(i int) Point { return ix.points[i] }

// Start returns the timestamp of the first track point.
func (ix *Index) Start() time.Time { return ix.start }

// Duration returns the recorded time span of the track.
func (ix *Index) Duration() time.Duration { return ix.end.Sub(ix.start) }

// CumulativeDistances returns the per-point running distance in meters.
// The slice is shared; callers must treat it as read-only.
func (ix *Index) CumulativeDistances() []float64 { return ix.cumDist }

// CumulativeGain returns the per-point filtered cumulative elevation gain in
// whole meters. The slice is shared; callers must treat it as read-only.
func (ix *Index) CumulativeGain() []int { return ix.cumGain }

// NearestByElapsed finds the point whose timestamp is closest to the track
// start plus the given elapsed seconds. It returns the point index and the
// absolute residual in seconds for caller-side quality reporting. Points are
// time-sorted, so this is a binary search plus a neighbour comparison.
func (ix *Index) NearestByElapsed(elapsedSeconds float64) (int, float64) {
	target := ix.start.Add(time.Duration(elapsedSeconds * float64(time.Second)))

	// First point at or after the target.
	i := sort.Search(len(ix.points), func(n int) bool {
		return !ix.points[n].Time.Before(target)
	})

	if i == 0 {
		return 0, math.Abs(ix.points[0].Time.Sub(target).Seconds())
	}
	if i == len(ix.points) {
		last := len(ix.points) - 1
		return last, math.Abs(ix.points[last].Time.Sub(target).Seconds())
	}

	after := math.Abs(ix.points[i].Time.Sub(target).Seconds())
	before := math.Abs(ix.points[i-1].Time.Sub(target).Seconds())
	if before <= after {
		return i - 1, before
	}
	return i, after
}

// SmoothedBearing returns the direction of travel in degrees at a point,
// computed over a 5-point window centered on it. Near the ends of the track
// the window shifts so it still spans 5 points; tracks shorter than the
// window fall back to the bearing from first to last point.
func (ix *Index) SmoothedBearing(i int) float64 {
	n := len(ix.points)
	if n < bearingWindow {
		first, last := ix.points[0], ix.points[n-1]
		return geo.Bearing(first.Lat, first.Lon, last.Lat, last.Lon)
	}

	lo := i - bearingWindow/2
	if lo < 0 {
		lo = 0
	}
	if lo > n-bearingWindow {
		lo = n - bearingWindow
	}
	hi := lo + bearingWindow - 1

	from, to := ix.points[lo], ix.points[hi]
	return geo.Bearing(from.Lat, from.Lon, to.Lat, to.Lon)
}

// WithTime returns the subset of points that carry timestamps, sorted
// ascending by time. The input is not modified.
func WithTime(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.HasTime() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Time.Before(out[b].Time) })
	return out
}
