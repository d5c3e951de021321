package photo

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest is the metadata.json document produced by intake and consumed by
// every later pipeline step.
type Manifest struct {
	RaceSlug    string    `json:"race_slug"`
	CreatedAt   string    `json:"created_at"`
	TotalImages int       `json:"total_images"`
	Images      []*Record `json:"images"`
}

// NewManifest builds a manifest for a freshly-intaken image set. Records are
// sorted and reindexed; TotalImages is derived.
func NewManifest(raceSlug string, records []*Record) *Manifest {
	SortAndIndex(records)
	return &Manifest{
		RaceSlug:    raceSlug,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		TotalImages: len(records),
		Images:      records,
	}
}

// LoadManifest reads a manifest document from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest as indented JSON.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
