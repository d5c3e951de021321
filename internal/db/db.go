// Package db stores processed race results in a local sqlite database.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/panorace/race-processor/internal/photo"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the sqlite database at path. Schema setup is
// handled by migrations, not here.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY on concurrent inserts.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	return &DB{db}, nil
}

// Race is one processed race event.
type Race struct {
	ID              int64
	Slug            string
	Name            string
	TotalDistanceKm float64
	ElevationGainM  int
	ElevationLossM  int
	TotalImages     int
	CreatedAt       time.Time
}

// InsertRace stores a race row and returns its id. Slug collisions are an
// error; reprocessing a race should go through UpdateRaceStats.
func (db *DB) InsertRace(r *Race) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO races (slug, name, total_distance_km, elevation_gain_m, elevation_loss_m, total_images)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Slug, r.Name, r.TotalDistanceKm, r.ElevationGainM, r.ElevationLossM, r.TotalImages,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert race %q: %w", r.Slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get race id: %w", err)
	}
	return id, nil
}

// UpdateRaceStats refreshes the aggregate columns of an existing race.
func (db *DB) UpdateRaceStats(slug string, totalDistanceKm float64, gainM, lossM, totalImages int) error {
	res, err := db.Exec(
		`UPDATE races SET total_distance_km = ?, elevation_gain_m = ?, elevation_loss_m = ?, total_images = ?
		 WHERE slug = ?`,
		totalDistanceKm, gainM, lossM, totalImages, slug,
	)
	if err != nil {
		return fmt.Errorf("failed to update race %q: %w", slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of race %q: %w", slug, err)
	}
	if n == 0 {
		return fmt.Errorf("race %q not found", slug)
	}
	return nil
}

// GetRace loads a race by slug.
func (db *DB) GetRace(slug string) (*Race, error) {
	r := &Race{}
	err := db.QueryRow(
		`SELECT id, slug, name, total_distance_km, elevation_gain_m, elevation_loss_m, total_images, created_at
		 FROM races WHERE slug = ?`, slug,
	).Scan(&r.ID, &r.Slug, &r.Name, &r.TotalDistanceKm, &r.ElevationGainM, &r.ElevationLossM, &r.TotalImages, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load race %q: %w", slug, err)
	}
	return r, nil
}

// InsertImages stores all correlated photo records for a race in one
// transaction. Records without coordinates are stored with NULL GPS columns.
func (db *DB) InsertImages(raceID int64, records []*photo.Record) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO images (
			race_id, position_index, original_filename, captured_at,
			latitude, longitude, altitude_meters, heading_degrees,
			heading_to_prev, heading_to_next, distance_from_start, elevation_gain_from_start
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare image insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(
			raceID, rec.PositionIndex, rec.OriginalFilename, rec.CapturedAt,
			rec.Latitude, rec.Longitude, rec.AltitudeMeters, rec.HeadingDegrees,
			rec.HeadingToPrev, rec.HeadingToNext, rec.DistanceFromStart, rec.ElevationGainFromStart,
		)
		if err != nil {
			return fmt.Errorf("failed to insert image %q: %w", rec.OriginalFilename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit image inserts: %w", err)
	}
	return nil
}

// CountImages returns the number of image rows stored for a race.
func (db *DB) CountImages(raceID int64) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM images WHERE race_id = ?`, raceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return n, nil
}
