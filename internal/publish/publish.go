// Package publish uploads processed race results to the shared Postgres
// instance that serves the public site. The local sqlite database remains
// the working store; this is the final, outward step of a run.
package publish

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/panorace/race-processor/internal/monitoring"
	"github.com/panorace/race-processor/internal/photo"
	"github.com/panorace/race-processor/internal/track"
)

// Querier is the minimal pgx surface the publisher needs. Both
// *pgxpool.Pool and pgxmock pools satisfy it.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Race is the published form of a processed race.
type Race struct {
	Slug            string
	Name            string
	TotalDistanceKm float64
	Stats           track.RaceStats
	Polyline        []track.LatLon
}

type Publisher struct {
	db Querier
}

func NewPublisher(db Querier) *Publisher {
	return &Publisher{db: db}
}

// Publish uploads one race and its correlated images in a single
// transaction. Each upload gets a fresh batch id so repeated publishes of
// the same race are distinguishable downstream.
func (p *Publisher) Publish(ctx context.Context, race *Race, records []*photo.Record) (string, error) {
	if race == nil || race.Slug == "" {
		return "", fmt.Errorf("race slug is required")
	}

	batchID := uuid.New().String()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin publish transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO published_races (batch_id, slug, name, total_distance_km, elevation_gain_m, elevation_loss_m, total_images)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		batchID, race.Slug, race.Name, race.TotalDistanceKm,
		race.Stats.ElevationGain, race.Stats.ElevationLoss, len(records),
	)
	if err != nil {
		return "", fmt.Errorf("failed to publish race %q: %w", race.Slug, err)
	}

	for _, rec := range records {
		_, err := tx.Exec(ctx,
			`INSERT INTO published_images (
				batch_id, position_index, original_filename, captured_at,
				latitude, longitude, altitude_meters, heading_degrees,
				heading_to_prev, heading_to_next, distance_from_start, elevation_gain_from_start
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			batchID, rec.PositionIndex, rec.OriginalFilename, rec.CapturedAt,
			rec.Latitude, rec.Longitude, rec.AltitudeMeters, rec.HeadingDegrees,
			rec.HeadingToPrev, rec.HeadingToNext, rec.DistanceFromStart, rec.ElevationGainFromStart,
		)
		if err != nil {
			return "", fmt.Errorf("failed to publish image %q: %w", rec.OriginalFilename, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit publish: %w", err)
	}

	monitoring.Logf("published race %s: %d images, batch %s", race.Slug, len(records), batchID)
	return batchID, nil
}
