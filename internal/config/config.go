// Package config loads the pipeline's tuning parameters from a JSON file.
// Fields are pointers so a partial config file is safe: anything omitted
// falls back to the default supplied by its Get accessor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Pipeline holds all tunable parameters for a processing run. The JSON
// schema doubles as the on-disk config file format.
type Pipeline struct {
	// Correlation params
	UTCOffsetHours     *int     `json:"utc_offset_hours,omitempty"`
	OffsetSeconds      *float64 `json:"offset_seconds,omitempty"`
	MaxTimeDiffSeconds *float64 `json:"max_time_diff_seconds,omitempty"`

	// Track processing params
	ElevationThresholdM  *float64 `json:"elevation_threshold_m,omitempty"`
	SimplifyTargetPoints *int     `json:"simplify_target_points,omitempty"`
	SimplifyMethod       *string  `json:"simplify_method,omitempty"` // "uniform" or "rdp"
	ElevationSamples     *int     `json:"elevation_samples,omitempty"`

	// Blur ensemble params
	IoUThreshold        *float64 `json:"iou_threshold,omitempty"`
	EdgePadFraction     *float64 `json:"edge_pad_fraction,omitempty"`
	DemoRegionsPerImage *int     `json:"demo_regions_per_image,omitempty"`
}

// Load reads a Pipeline config from a JSON file. The file must have a .json
// extension and stay under 1MB. Omitted fields keep their defaults, so
// partial configs are safe.
func Load(path string) (*Pipeline, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Pipeline{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that configured values are usable.
func (c *Pipeline) Validate() error {
	if c.MaxTimeDiffSeconds != nil && *c.MaxTimeDiffSeconds <= 0 {
		return fmt.Errorf("max_time_diff_seconds must be positive, got %f", *c.MaxTimeDiffSeconds)
	}
	if c.ElevationThresholdM != nil && *c.ElevationThresholdM <= 0 {
		return fmt.Errorf("elevation_threshold_m must be positive, got %f", *c.ElevationThresholdM)
	}
	if c.SimplifyTargetPoints != nil && *c.SimplifyTargetPoints < 2 {
		return fmt.Errorf("simplify_target_points must be at least 2, got %d", *c.SimplifyTargetPoints)
	}
	if c.SimplifyMethod != nil {
		if m := *c.SimplifyMethod; m != "uniform" && m != "rdp" {
			return fmt.Errorf("simplify_method must be \"uniform\" or \"rdp\", got %q", m)
		}
	}
	if c.IoUThreshold != nil {
		if v := *c.IoUThreshold; v <= 0 || v >= 1 {
			return fmt.Errorf("iou_threshold must be in (0, 1), got %f", v)
		}
	}
	if c.EdgePadFraction != nil {
		if v := *c.EdgePadFraction; v <= 0 || v > 0.5 {
			return fmt.Errorf("edge_pad_fraction must be in (0, 0.5], got %f", v)
		}
	}
	return nil
}

// GetUTCOffsetHours returns the camera UTC offset or the default (+8).
func (c *Pipeline) GetUTCOffsetHours() int {
	if c.UTCOffsetHours == nil {
		return 8
	}
	return *c.UTCOffsetHours
}

// GetOffsetSeconds returns the camera/track clock offset or the default (0).
func (c *Pipeline) GetOffsetSeconds() float64 {
	if c.OffsetSeconds == nil {
		return 0
	}
	return *c.OffsetSeconds
}

// GetMaxTimeDiffSeconds returns the low-confidence residual threshold or the
// default (60s).
func (c *Pipeline) GetMaxTimeDiffSeconds() float64 {
	if c.MaxTimeDiffSeconds == nil {
		return 60
	}
	return *c.MaxTimeDiffSeconds
}

// GetElevationThresholdM returns the elevation noise threshold or the
// default (1m).
func (c *Pipeline) GetElevationThresholdM() float64 {
	if c.ElevationThresholdM == nil {
		return 1.0
	}
	return *c.ElevationThresholdM
}

// GetSimplifyTargetPoints returns the polyline target size or the default
// (200).
func (c *Pipeline) GetSimplifyTargetPoints() int {
	if c.SimplifyTargetPoints == nil {
		return 200
	}
	return *c.SimplifyTargetPoints
}

// GetSimplifyMethod returns the simplification strategy or the default
// ("uniform").
func (c *Pipeline) GetSimplifyMethod() string {
	if c.SimplifyMethod == nil {
		return "uniform"
	}
	return *c.SimplifyMethod
}

// GetElevationSamples returns the profile sample count or the default (100).
func (c *Pipeline) GetElevationSamples() int {
	if c.ElevationSamples == nil {
		return 100
	}
	return *c.ElevationSamples
}

// GetIoUThreshold returns the region-merge overlap threshold or the default
// (0.3).
func (c *Pipeline) GetIoUThreshold() float64 {
	if c.IoUThreshold == nil {
		return 0.3
	}
	return *c.IoUThreshold
}

// GetEdgePadFraction returns the equirectangular edge padding or the default
// (0.15).
func (c *Pipeline) GetEdgePadFraction() float64 {
	if c.EdgePadFraction == nil {
		return 0.15
	}
	return *c.EdgePadFraction
}

// GetDemoRegionsPerImage returns the demo detector density or the default (3).
func (c *Pipeline) GetDemoRegionsPerImage() int {
	if c.DemoRegionsPerImage == nil {
		return 3
	}
	return *c.DemoRegionsPerImage
}
