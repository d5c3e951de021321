// Package correlate aligns a photo sequence with a GPS track by capture time
// and derives per-photo position, elevation, distance and heading fields.
package correlate

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/panorace/race-processor/internal/geo"
	"github.com/panorace/race-processor/internal/photo"
	"github.com/panorace/race-processor/internal/track"
)

// DefaultWarnThresholdSeconds is the residual above which a time match is
// flagged low-confidence. The match is still applied.
const DefaultWarnThresholdSeconds = 60.0

// Options configures a correlation run.
type Options struct {
	// OffsetSeconds compensates for the camera being started before or after
	// the track recorder. Positive means the camera started later. The model
	// is a single constant offset: no drift correction is applied, which is
	// a known accuracy boundary for multi-hour captures.
	OffsetSeconds float64

	// UTCOffsetHours converts camera-local EXIF timestamps to UTC. Only the
	// spacing between photos matters for matching, so this mainly keeps the
	// reported durations honest.
	UTCOffsetHours int

	// WarnThresholdSeconds flags matches with a larger residual as
	// low-confidence. Zero selects DefaultWarnThresholdSeconds.
	WarnThresholdSeconds float64
}

// Report aggregates the quality metrics of a correlation run. Data-quality
// problems degrade individual photos and show up here; they never abort the
// batch.
type Report struct {
	TotalPhotos   int
	Updated       int
	NoTimestamp   int
	LowConfidence int

	MeanResidualSeconds   float64
	StddevResidualSeconds float64

	// Bounds of the assigned coordinates, present when at least one photo
	// was updated.
	Bounds *track.BoundsBox

	// Min/max assigned heading in degrees, present when at least one photo
	// received a heading.
	HeadingMin *float64
	HeadingMax *float64

	PhotoDuration time.Duration
	TrackDuration time.Duration
}

// Apply assigns GPS position, altitude, cumulative distance, cumulative
// elevation gain and headings to each photo in place, matching photos to the
// track by elapsed capture time plus the configured offset. Photos without a
// timestamp are skipped and counted. Returns the aggregate report.
//
// Only structurally invalid input is an error: an empty photo list or a nil
// index.
func Apply(photos []*photo.Record, ix *track.Index, opts Options) (*Report, error) {
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photos to correlate")
	}
	if ix == nil {
		return nil, fmt.Errorf("no track index")
	}

	warnThreshold := opts.WarnThresholdSeconds
	if warnThreshold <= 0 {
		warnThreshold = DefaultWarnThresholdSeconds
	}

	rep := &Report{
		TotalPhotos:   len(photos),
		TrackDuration: ix.Duration(),
	}

	// Anchor elapsed time at the first photo with a usable timestamp; also
	// find the last one for the duration diagnostic.
	var base time.Time
	var baseFound bool
	var last time.Time
	for _, p := range photos {
		t, ok := p.CaptureTimeUTC(opts.UTCOffsetHours)
		if !ok {
			continue
		}
		if !baseFound {
			base = t
			baseFound = true
		}
		last = t
	}
	if baseFound {
		rep.PhotoDuration = last.Sub(base)
	}

	cumDist := ix.CumulativeDistances()
	cumGain := ix.CumulativeGain()

	var residuals []float64
	for _, p := range photos {
		t, ok := p.CaptureTimeUTC(opts.UTCOffsetHours)
		if !ok {
			rep.NoTimestamp++
			continue
		}

		elapsed := t.Sub(base).Seconds() + opts.OffsetSeconds
		idx, residual := ix.NearestByElapsed(elapsed)
		if residual > warnThreshold {
			rep.LowConfidence++
		}
		residuals = append(residuals, residual)

		pt := ix.Point(idx)
		p.Latitude = ptrFloat(round8(pt.Lat))
		p.Longitude = ptrFloat(round8(pt.Lon))
		p.AltitudeMeters = ptrFloat(round2(pt.Elevation))
		p.HeadingDegrees = ptrFloat(round2(ix.SmoothedBearing(idx)))
		p.DistanceFromStart = ptrInt(int(math.Round(cumDist[idx])))
		p.ElevationGainFromStart = ptrInt(cumGain[idx])

		rep.Updated++
		rep.extendBounds(pt.Lat, pt.Lon)
		rep.extendHeading(*p.HeadingDegrees)
	}

	if len(residuals) > 0 {
		rep.MeanResidualSeconds = stat.Mean(residuals, nil)
		if len(residuals) > 1 {
			rep.StddevResidualSeconds = stat.StdDev(residuals, nil)
		}
	}

	assignNeighbourHeadings(photos)

	return rep, nil
}

// assignNeighbourHeadings computes HeadingToPrev/HeadingToNext for every
// photo with coordinates from photo-to-photo geometry, independent of the
// track. Nearest valid neighbours are resolved with one forward and one
// backward pass so each photo's lookup is O(1).
func assignNeighbourHeadings(photos []*photo.Record) {
	n := len(photos)
	prevValid := make([]int, n)
	nextValid := make([]int, n)

	last := -1
	for i := 0; i < n; i++ {
		prevValid[i] = last
		if photos[i].HasCoordinates() {
			last = i
		}
	}
	next := -1
	for i := n - 1; i >= 0; i-- {
		nextValid[i] = next
		if photos[i].HasCoordinates() {
			next = i
		}
	}

	for i, p := range photos {
		if !p.HasCoordinates() {
			continue
		}
		if j := prevValid[i]; j >= 0 {
			q := photos[j]
			p.HeadingToPrev = ptrFloat(round2(geo.Bearing(*p.Latitude, *p.Longitude, *q.Latitude, *q.Longitude)))
		}
		if j := nextValid[i]; j >= 0 {
			q := photos[j]
			p.HeadingToNext = ptrFloat(round2(geo.Bearing(*p.Latitude, *p.Longitude, *q.Latitude, *q.Longitude)))
		}
	}
}

func (r *Report) extendBounds(lat, lon float64) {
	if r.Bounds == nil {
		r.Bounds = &track.BoundsBox{North: lat, South: lat, East: lon, West: lon}
		return
	}
	r.Bounds.North = math.Max(r.Bounds.North, lat)
	r.Bounds.South = math.Min(r.Bounds.South, lat)
	r.Bounds.East = math.Max(r.Bounds.East, lon)
	r.Bounds.West = math.Min(r.Bounds.West, lon)
}

func (r *Report) extendHeading(h float64) {
	if r.HeadingMin == nil {
		r.HeadingMin = ptrFloat(h)
		r.HeadingMax = ptrFloat(h)
		return
	}
	*r.HeadingMin = math.Min(*r.HeadingMin, h)
	*r.HeadingMax = math.Max(*r.HeadingMax, h)
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round8(v float64) float64 { return math.Round(v*1e8) / 1e8 }
