package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/panorace/race-processor/internal/track"
)

// SaveElevationPlot writes a static PNG of the elevation profile, for race
// pages that embed an image rather than the interactive chart.
func SaveElevationPlot(path, raceName string, profile []track.ProfileSample) error {
	if len(profile) == 0 {
		return fmt.Errorf("empty elevation profile")
	}

	pts := make(plotter.XYs, len(profile))
	for i, s := range profile {
		pts[i].X = s.DistanceKm
		pts[i].Y = s.ElevationM
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Elevation Profile: %s", raceName)
	p.X.Label.Text = "Distance (km)"
	p.Y.Label.Text = "Elevation (m)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build elevation line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(12*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save elevation plot: %w", err)
	}
	return nil
}
