// Package photo holds the per-image metadata record and the intake manifest
// document that carries it between pipeline steps.
package photo

import (
	"sort"
	"time"
)

// Timestamp layouts accepted for captured_at. EXIF timestamps carry no zone
// and are stored as bare ISO 8601 local time.
var captureLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	time.RFC3339,
}

// Record is the metadata for a single panorama image. GPS and heading fields
// are pointers: nil means the value is unknown, which the correlator and the
// database layer both need to distinguish from zero.
//
// HeadingDegrees is the direction of travel; HeadingToPrev/HeadingToNext are
// the bearings toward the neighbouring images, used for navigation arrows.
type Record struct {
	PositionIndex    int    `json:"position_index"`
	OriginalFilename string `json:"original_filename"`
	CapturedAt       string `json:"captured_at"` // bare ISO 8601, empty when unknown

	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AltitudeMeters *float64 `json:"altitude_meters"`

	HeadingDegrees *float64 `json:"heading_degrees"`
	HeadingToPrev  *float64 `json:"heading_to_prev"`
	HeadingToNext  *float64 `json:"heading_to_next"`

	DistanceFromStart      *int `json:"distance_from_start"`
	ElevationGainFromStart *int `json:"elevation_gain_from_start"`
}

// CaptureTime parses the record's capture timestamp. The second return is
// false when the record has no usable timestamp.
func (r *Record) CaptureTime() (time.Time, bool) {
	if r.CapturedAt == "" {
		return time.Time{}, false
	}
	for _, layout := range captureLayouts {
		if t, err := time.Parse(layout, r.CapturedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CaptureTimeUTC converts the camera-local capture timestamp to UTC using a
// whole-hour offset (hours ahead of UTC, e.g. 8 for UTC+8).
func (r *Record) CaptureTimeUTC(utcOffsetHours int) (time.Time, bool) {
	t, ok := r.CaptureTime()
	if !ok {
		return time.Time{}, false
	}
	return t.Add(-time.Duration(utcOffsetHours) * time.Hour), true
}

// HasCoordinates reports whether the record carries both latitude and
// longitude.
func (r *Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// SortAndIndex orders records by capture timestamp (records without one sort
// to the end, by filename) and reassigns PositionIndex as a gap-free 0..N-1
// sequence. This is the intake ordering contract every later step relies on.
func SortAndIndex(records []*Record) {
	sort.SliceStable(records, func(a, b int) bool {
		ra, rb := records[a], records[b]
		aHas := ra.CapturedAt != ""
		bHas := rb.CapturedAt != ""
		if aHas != bHas {
			return aHas
		}
		if aHas && ra.CapturedAt != rb.CapturedAt {
			return ra.CapturedAt < rb.CapturedAt
		}
		return ra.OriginalFilename < rb.OriginalFilename
	})
	for i, r := range records {
		r.PositionIndex = i
	}
}
