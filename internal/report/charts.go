package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/panorace/race-processor/internal/track"
)

// RenderElevationChart writes an interactive HTML elevation profile built
// with go-echarts. Distance runs along the x-axis in kilometres.
func RenderElevationChart(w io.Writer, raceName string, profile []track.ProfileSample) error {
	if len(profile) == 0 {
		return fmt.Errorf("empty elevation profile")
	}

	xAxis := make([]string, 0, len(profile))
	data := make([]opts.LineData, 0, len(profile))
	for _, s := range profile {
		xAxis = append(xAxis, fmt.Sprintf("%.1f", s.DistanceKm))
		data = append(data, opts.LineData{Value: s.ElevationM})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Elevation Profile",
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Elevation Profile",
			Subtitle: fmt.Sprintf("%s, %.1f km", raceName, profile[len(profile)-1].DistanceKm),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (km)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Elevation (m)", NameLocation: "middle", NameGap: 40}),
	)

	line.SetXAxis(xAxis)
	line.AddSeries("elevation", data, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.3)}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render elevation chart: %w", err)
	}
	return nil
}
