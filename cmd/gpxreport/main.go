// gpxreport prints a quick summary of a GPX file without touching the
// database or manifest: distance, elevation figures, bounds, and optionally
// an elevation chart. Useful for sanity-checking a track before a full run.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/panorace/race-processor/internal/gpx"
	"github.com/panorace/race-processor/internal/report"
	"github.com/panorace/race-processor/internal/track"
)

func main() {
	gpxPath := flag.String("gpx", "", "GPX track file")
	threshold := flag.Float64("elevation-threshold", track.DefaultElevationThreshold, "Elevation noise threshold in metres")
	chart := flag.String("chart", "", "Optional HTML elevation chart output path")
	samples := flag.Int("samples", 100, "Elevation profile sample count")
	flag.Parse()

	if *gpxPath == "" {
		log.Fatal("gpxreport requires -gpx")
	}

	points, err := gpx.ParseFile(*gpxPath)
	if err != nil {
		log.Fatalf("Failed to parse GPX: %v", err)
	}

	stats := track.ExtractRaceStats(points, *threshold)
	bounds := track.Bounds(points)

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", *gpxPath)
	fmt.Fprintf(tw, "Points:\t%d\n", len(points))
	fmt.Fprintf(tw, "Distance:\t%.2f km\n", float64(stats.DistanceMeters)/1000)
	fmt.Fprintf(tw, "Elevation gain:\t%d m\n", stats.ElevationGain)
	fmt.Fprintf(tw, "Elevation loss:\t%d m\n", stats.ElevationLoss)
	fmt.Fprintf(tw, "Elevation range:\t%d..%d m\n", stats.ElevationMin, stats.ElevationMax)
	fmt.Fprintf(tw, "Bounds:\t%.5f..%.5f lat, %.5f..%.5f lon\n", bounds.South, bounds.North, bounds.West, bounds.East)
	if err := tw.Flush(); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}

	if *chart != "" {
		profile := track.ElevationProfile(points, *samples)
		f, err := os.Create(*chart)
		if err != nil {
			log.Fatalf("Failed to create chart file: %v", err)
		}
		defer f.Close()
		if err := report.RenderElevationChart(f, *gpxPath, profile); err != nil {
			log.Fatalf("Failed to render chart: %v", err)
		}
		fmt.Printf("Wrote elevation chart to %s\n", *chart)
	}
}
