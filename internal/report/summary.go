// Package report renders run results for humans: plain-text summaries for
// the terminal, an HTML elevation chart, and a PNG profile plot.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/panorace/race-processor/internal/correlate"
	"github.com/panorace/race-processor/internal/track"
)

// WriteCorrelationSummary prints the outcome of a photo/track correlation
// run as an aligned table.
func WriteCorrelationSummary(w io.Writer, rep *correlate.Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Total photos:\t%d\n", rep.TotalPhotos)
	fmt.Fprintf(tw, "Updated:\t%d\n", rep.Updated)
	fmt.Fprintf(tw, "No timestamp:\t%d\n", rep.NoTimestamp)
	fmt.Fprintf(tw, "Low confidence:\t%d\n", rep.LowConfidence)
	fmt.Fprintf(tw, "Residual mean:\t%.2fs\n", rep.MeanResidualSeconds)
	fmt.Fprintf(tw, "Residual stddev:\t%.2fs\n", rep.StddevResidualSeconds)
	fmt.Fprintf(tw, "Photo span:\t%s\n", rep.PhotoDuration)
	fmt.Fprintf(tw, "Track span:\t%s\n", rep.TrackDuration)

	if rep.Bounds != nil {
		fmt.Fprintf(tw, "Bounds:\t%.5f..%.5f lat, %.5f..%.5f lon\n",
			rep.Bounds.South, rep.Bounds.North, rep.Bounds.West, rep.Bounds.East)
	}
	if rep.HeadingMin != nil && rep.HeadingMax != nil {
		fmt.Fprintf(tw, "Headings:\t%.1f°..%.1f°\n", *rep.HeadingMin, *rep.HeadingMax)
	}

	return tw.Flush()
}

// WriteTrackSummary prints the processed track's headline figures.
func WriteTrackSummary(w io.Writer, p *track.Processed) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Distance:\t%.2f km\n", p.TotalDistanceKm)
	fmt.Fprintf(tw, "Polyline points:\t%d (from %d)\n", p.Stats.SimplifiedPoints, p.Stats.OriginalPoints)
	fmt.Fprintf(tw, "Elevation gain:\t%.0f m\n", p.Stats.TotalGainM)
	fmt.Fprintf(tw, "Elevation loss:\t%.0f m\n", p.Stats.TotalLossM)
	fmt.Fprintf(tw, "Elevation range:\t%.0f..%.0f m\n", p.Stats.MinElevationM, p.Stats.MaxElevationM)
	fmt.Fprintf(tw, "Bounds:\t%.5f..%.5f lat, %.5f..%.5f lon\n",
		p.Bounds.South, p.Bounds.North, p.Bounds.West, p.Bounds.East)

	return tw.Flush()
}
