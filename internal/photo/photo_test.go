package photo

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCaptureTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"empty", "", false},
		{"bare iso", "2025-06-14T09:30:00", true},
		{"fractional", "2025-06-14T09:30:00.125000", true},
		{"rfc3339", "2025-06-14T09:30:00Z", true},
		{"garbage", "yesterday-ish", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{CapturedAt: tt.in}
			_, ok := r.CaptureTime()
			if ok != tt.ok {
				t.Errorf("CaptureTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
		})
	}
}

func TestCaptureTimeUTC(t *testing.T) {
	r := Record{CapturedAt: "2025-06-14T09:30:00"}
	got, ok := r.CaptureTimeUTC(8)
	if !ok {
		t.Fatal("expected usable timestamp")
	}
	want := time.Date(2025, 6, 14, 1, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("UTC+8 conversion = %v, want %v", got, want)
	}
}

func TestSortAndIndex(t *testing.T) {
	records := []*Record{
		{OriginalFilename: "zz.jpg"}, // no timestamp, goes last
		{OriginalFilename: "b.jpg", CapturedAt: "2025-06-14T09:00:02"},
		{OriginalFilename: "a.jpg", CapturedAt: "2025-06-14T09:00:01"},
		{OriginalFilename: "aa.jpg"}, // no timestamp, before zz by name
	}
	SortAndIndex(records)

	var names []string
	for i, r := range records {
		if r.PositionIndex != i {
			t.Errorf("record %d has index %d", i, r.PositionIndex)
		}
		names = append(names, r.OriginalFilename)
	}
	want := []string{"a.jpg", "b.jpg", "aa.jpg", "zz.jpg"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestManifestRoundtrip(t *testing.T) {
	lat, lon := 22.28, 114.16
	m := NewManifest("harbour-10k", []*Record{
		{OriginalFilename: "one.jpg", CapturedAt: "2025-06-14T09:00:00", Latitude: &lat, Longitude: &lon},
		{OriginalFilename: "two.jpg", CapturedAt: "2025-06-14T09:00:05"},
	})

	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	if got.RaceSlug != "harbour-10k" || got.TotalImages != 2 {
		t.Errorf("header mismatch: %+v", got)
	}
	if diff := cmp.Diff(m.Images, got.Images); diff != "" {
		t.Errorf("images mismatch (-want +got):\n%s", diff)
	}
	if !got.Images[0].HasCoordinates() {
		t.Error("first record lost its coordinates")
	}
	if got.Images[1].HasCoordinates() {
		t.Error("second record should have no coordinates")
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
