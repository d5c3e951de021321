// race-processor turns a raw race capture (a GPX track plus a directory of
// 360° photos) into published, geo-tagged race imagery. Each subcommand is
// one pipeline stage; stages communicate through the metadata.json manifest.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/panorace/race-processor/internal/blur"
	"github.com/panorace/race-processor/internal/config"
	"github.com/panorace/race-processor/internal/correlate"
	"github.com/panorace/race-processor/internal/db"
	"github.com/panorace/race-processor/internal/gpx"
	"github.com/panorace/race-processor/internal/monitoring"
	"github.com/panorace/race-processor/internal/photo"
	"github.com/panorace/race-processor/internal/publish"
	"github.com/panorace/race-processor/internal/report"
	"github.com/panorace/race-processor/internal/track"
	"github.com/panorace/race-processor/internal/version"
)

const defaultDBFile = "race_data.db"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "intake":
		runIntake(args)
	case "correlate":
		runCorrelate(args)
	case "track":
		runTrack(args)
	case "record":
		runRecord(args)
	case "publish":
		runPublish(args)
	case "blur-demo":
		runBlurDemo(args)
	case "migrate":
		runMigrate(args)
	case "version":
		fmt.Printf("race-processor %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: race-processor <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  intake      Scan an image directory and write the race manifest")
	fmt.Println("  correlate   Assign GPS data to manifest photos from a GPX track")
	fmt.Println("  track       Simplify a GPX track and extract its elevation profile")
	fmt.Println("  record      Store a correlated race in the local database")
	fmt.Println("  publish     Upload a correlated race to the shared Postgres")
	fmt.Println("  blur-demo   Run the synthetic detector and region pipeline")
	fmt.Println("  migrate     Manage the local database schema")
	fmt.Println("  version     Show build information")
	fmt.Println("  help        Show this help message")
}

// loadConfig loads the pipeline config when a path was given, or returns an
// all-defaults config.
func loadConfig(path string) *config.Pipeline {
	if path == "" {
		return &config.Pipeline{}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runIntake(args []string) {
	fs := flag.NewFlagSet("intake", flag.ExitOnError)
	photosDir := fs.String("photos", "", "Directory of race photos")
	slug := fs.String("slug", "", "Race slug, e.g. hk100-2026")
	out := fs.String("out", "metadata.json", "Manifest output path")
	fs.Parse(args)

	if *photosDir == "" || *slug == "" {
		log.Fatal("intake requires -photos and -slug")
	}

	records, err := photo.ScanDirectory(*photosDir)
	if err != nil {
		log.Fatalf("Intake failed: %v", err)
	}

	manifest := photo.NewManifest(*slug, records)
	if err := manifest.Save(*out); err != nil {
		log.Fatalf("Failed to write manifest: %v", err)
	}
	monitoring.Logf("intake complete: %d images -> %s", manifest.TotalImages, *out)
}

func runCorrelate(args []string) {
	fs := flag.NewFlagSet("correlate", flag.ExitOnError)
	manifestPath := fs.String("manifest", "metadata.json", "Race manifest path")
	gpxPath := fs.String("gpx", "", "GPX track file")
	configPath := fs.String("config", "", "Pipeline config file (JSON)")
	offset := fs.Float64("offset", 0, "Camera clock offset in seconds (overrides config)")
	debug := fs.Bool("debug", false, "Per-photo debug output")
	fs.Parse(args)

	if *gpxPath == "" {
		log.Fatal("correlate requires -gpx")
	}
	monitoring.SetDebug(*debug)
	cfg := loadConfig(*configPath)

	manifest, err := photo.LoadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}

	points, err := gpx.ParseFileWithTime(*gpxPath)
	if err != nil {
		log.Fatalf("Failed to parse GPX track: %v", err)
	}

	ix, err := track.NewIndex(points, cfg.GetElevationThresholdM())
	if err != nil {
		log.Fatalf("Failed to index track: %v", err)
	}

	opts := correlateOptions(cfg, fs, *offset)

	rep, err := correlate.Apply(manifest.Images, ix, opts)
	if err != nil {
		log.Fatalf("Correlation failed: %v", err)
	}

	if err := manifest.Save(*manifestPath); err != nil {
		log.Fatalf("Failed to update manifest: %v", err)
	}

	if err := report.WriteCorrelationSummary(os.Stdout, rep); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}
}

// correlateOptions builds correlation options from config, letting an
// explicitly-set -offset flag win even when its value is zero.
func correlateOptions(cfg *config.Pipeline, fs *flag.FlagSet, offset float64) correlate.Options {
	opts := correlate.Options{
		OffsetSeconds:        cfg.GetOffsetSeconds(),
		UTCOffsetHours:       cfg.GetUTCOffsetHours(),
		WarnThresholdSeconds: cfg.GetMaxTimeDiffSeconds(),
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "offset" {
			opts.OffsetSeconds = offset
		}
	})
	return opts
}

func runTrack(args []string) {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	gpxPath := fs.String("gpx", "", "GPX track file")
	configPath := fs.String("config", "", "Pipeline config file (JSON)")
	name := fs.String("name", "", "Race name for chart titles")
	out := fs.String("out", "track.json", "Processed track output path")
	chart := fs.String("chart", "", "Optional HTML elevation chart output path")
	plot := fs.String("plot", "", "Optional PNG elevation plot output path")
	fs.Parse(args)

	if *gpxPath == "" {
		log.Fatal("track requires -gpx")
	}
	cfg := loadConfig(*configPath)

	points, err := gpx.ParseFile(*gpxPath)
	if err != nil {
		log.Fatalf("Failed to parse GPX track: %v", err)
	}

	processed, err := track.Process(points, track.ProcessOptions{
		TargetPoints:       cfg.GetSimplifyTargetPoints(),
		ElevationSamples:   cfg.GetElevationSamples(),
		Method:             cfg.GetSimplifyMethod(),
		ElevationThreshold: cfg.GetElevationThresholdM(),
	})
	if err != nil {
		log.Fatalf("Track processing failed: %v", err)
	}

	data, err := json.MarshalIndent(processed, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal processed track: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write processed track: %v", err)
	}

	if *chart != "" {
		f, err := os.Create(*chart)
		if err != nil {
			log.Fatalf("Failed to create chart file: %v", err)
		}
		defer f.Close()
		if err := report.RenderElevationChart(f, *name, processed.ElevationProfile); err != nil {
			log.Fatalf("Failed to render chart: %v", err)
		}
	}
	if *plot != "" {
		if err := report.SaveElevationPlot(*plot, *name, processed.ElevationProfile); err != nil {
			log.Fatalf("Failed to save plot: %v", err)
		}
	}

	if err := report.WriteTrackSummary(os.Stdout, processed); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}
}

func runRecord(args []string) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	dbPath := fs.String("db-path", defaultDBFile, "Path to the local database")
	manifestPath := fs.String("manifest", "metadata.json", "Race manifest path")
	gpxPath := fs.String("gpx", "", "GPX track file for race stats")
	name := fs.String("name", "", "Race display name")
	configPath := fs.String("config", "", "Pipeline config file (JSON)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)

	manifest, err := photo.LoadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := database.MigrateUp("db/migrations"); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	race := &db.Race{
		Slug:        manifest.RaceSlug,
		Name:        *name,
		TotalImages: manifest.TotalImages,
	}
	if *gpxPath != "" {
		points, err := gpx.ParseFile(*gpxPath)
		if err != nil {
			log.Fatalf("Failed to parse GPX track: %v", err)
		}
		stats := track.ExtractRaceStats(points, cfg.GetElevationThresholdM())
		race.TotalDistanceKm = float64(stats.DistanceMeters) / 1000
		race.ElevationGainM = stats.ElevationGain
		race.ElevationLossM = stats.ElevationLoss
	}

	raceID, err := database.InsertRace(race)
	if err != nil {
		log.Fatalf("Failed to insert race: %v", err)
	}
	if err := database.InsertImages(raceID, manifest.Images); err != nil {
		log.Fatalf("Failed to insert images: %v", err)
	}
	monitoring.Logf("recorded race %s (id %d): %d images", race.Slug, raceID, manifest.TotalImages)
}

func runPublish(args []string) {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	dbURL := fs.String("db-url", os.Getenv("RACE_DB_URL"), "Postgres connection URL")
	manifestPath := fs.String("manifest", "metadata.json", "Race manifest path")
	gpxPath := fs.String("gpx", "", "GPX track file for race stats and polyline")
	name := fs.String("name", "", "Race display name")
	configPath := fs.String("config", "", "Pipeline config file (JSON)")
	fs.Parse(args)

	if *dbURL == "" {
		log.Fatal("publish requires -db-url or RACE_DB_URL")
	}
	cfg := loadConfig(*configPath)

	manifest, err := photo.LoadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}

	race := &publish.Race{Slug: manifest.RaceSlug, Name: *name}
	if *gpxPath != "" {
		points, err := gpx.ParseFile(*gpxPath)
		if err != nil {
			log.Fatalf("Failed to parse GPX track: %v", err)
		}
		processed, err := track.Process(points, track.ProcessOptions{
			TargetPoints:       cfg.GetSimplifyTargetPoints(),
			ElevationSamples:   cfg.GetElevationSamples(),
			Method:             cfg.GetSimplifyMethod(),
			ElevationThreshold: cfg.GetElevationThresholdM(),
		})
		if err != nil {
			log.Fatalf("Track processing failed: %v", err)
		}
		race.TotalDistanceKm = processed.TotalDistanceKm
		race.Polyline = processed.Polyline
		race.Stats = track.ExtractRaceStats(points, cfg.GetElevationThresholdM())
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pool.Close()

	batchID, err := publish.NewPublisher(pool).Publish(ctx, race, manifest.Images)
	if err != nil {
		log.Fatalf("Publish failed: %v", err)
	}
	fmt.Printf("Published race %s as batch %s\n", race.Slug, batchID)
}

func runBlurDemo(args []string) {
	fs := flag.NewFlagSet("blur-demo", flag.ExitOnError)
	width := fs.Int("width", 5760, "Image width in pixels")
	height := fs.Int("height", 2880, "Image height in pixels")
	configPath := fs.String("config", "", "Pipeline config file (JSON)")
	fs.Parse(args)

	if fs.NArg() == 0 {
		log.Fatal("blur-demo requires at least one image name argument")
	}
	cfg := loadConfig(*configPath)

	detector := blur.DemoDetector{
		Width:  *width,
		Height: *height,
		Count:  cfg.GetDemoRegionsPerImage(),
	}

	out := map[string][]blur.Region{}
	for _, name := range fs.Args() {
		original := detector.Detect(name)
		// A second detector pass over the horizontally padded frame catches
		// subjects split by the 360° seam.
		padded := blur.DemoDetector{
			Width:  blur.PaddedWidth(*width, cfg.GetEdgePadFraction()),
			Height: *height,
			Count:  cfg.GetDemoRegionsPerImage(),
		}.Detect(name + "#padded")

		out[name] = blur.Resolve(original, padded, *width, cfg.GetEdgePadFraction(), cfg.GetIoUThreshold())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Failed to encode regions: %v", err)
	}
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db-path", defaultDBFile, "Path to the local database")
	migrationsDir := fs.String("migrations", "db/migrations", "Migrations directory")
	fs.Parse(args)

	if fs.NArg() < 1 {
		log.Fatal("Usage: race-processor migrate [options] <up|down|status|force N>")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	switch action := fs.Arg(0); action {
	case "up":
		if err := database.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		version, dirty, _ := database.MigrateVersion(*migrationsDir)
		fmt.Printf("Migrated up. Current version: %d (dirty: %v)\n", version, dirty)
	case "down":
		if err := database.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		version, dirty, _ := database.MigrateVersion(*migrationsDir)
		fmt.Printf("Rolled back one migration. Current version: %d (dirty: %v)\n", version, dirty)
	case "status":
		version, dirty, err := database.MigrateVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		fmt.Printf("Current version: %d\nDirty: %v\n", version, dirty)
	case "force":
		if fs.NArg() < 2 {
			log.Fatal("Usage: race-processor migrate force <version>")
		}
		var version int
		if _, err := fmt.Sscanf(fs.Arg(1), "%d", &version); err != nil {
			log.Fatalf("Invalid version number: %s", fs.Arg(1))
		}
		if err := database.MigrateForce(*migrationsDir, version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		fmt.Printf("Migration version forced to %d\n", version)
	default:
		log.Fatalf("Unknown migrate action: %s", action)
	}
}
