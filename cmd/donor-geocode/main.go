// Command donor-geocode backfills coordinates for users who filled in an
// address but never shared a map position.
package main

import (
	"context"
	"time"

	"bloodconnect_backend/internal/discovery/geocode"
	"bloodconnect_backend/platform/config"
	"bloodconnect_backend/platform/db"
	"bloodconnect_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type donorAddress struct {
	id      uuid.UUID
	email   string
	address string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting donor geocode backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	geocoder := geocode.New(geocode.Config{
		BaseURL:   cfg.GetNominatimBaseURL(),
		UserAgent: cfg.GetGeocodeUserAgent(),
	}, log)

	const batchSize = 25
	for {
		donorsBatch, err := listDonorsMissingCoordinates(ctx, pool, batchSize)
		if err != nil {
			log.Error("failed to list donors", "error", err)
			return
		}
		if len(donorsBatch) == 0 {
			log.Info("no donors left to geocode")
			return
		}

		progress := false

		for _, donor := range donorsBatch {
			results, err := geocoder.Search(ctx, donor.address)
			if err != nil {
				log.Error("geocode failed", "userId", donor.id, "error", err)
				time.Sleep(time.Second)
				continue
			}
			if len(results) == 0 {
				log.Info("no geocode result", "userId", donor.id, "address", donor.address)
				time.Sleep(time.Second)
				continue
			}

			loc := results[0].Location
			if err := updateDonorCoordinates(ctx, pool, donor.id, loc.Lat, loc.Lng); err != nil {
				log.Error("failed to update donor", "userId", donor.id, "error", err)
				time.Sleep(time.Second)
				continue
			}

			log.Info("donor geocoded", "userId", donor.id, "lat", loc.Lat, "lng", loc.Lng)
			progress = true
			// Nominatim usage policy: at most one request per second.
			time.Sleep(time.Second)
		}

		if !progress {
			log.Info("no geocode progress in batch, stopping")
			return
		}
	}
}

func listDonorsMissingCoordinates(ctx context.Context, pool *pgxpool.Pool, limit int) ([]donorAddress, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, email, address
		FROM users
		WHERE address IS NOT NULL AND address <> ''
		  AND (lat IS NULL OR lng IS NULL)
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donors := make([]donorAddress, 0)
	for rows.Next() {
		var d donorAddress
		if err := rows.Scan(&d.id, &d.email, &d.address); err != nil {
			return nil, err
		}
		donors = append(donors, d)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return donors, nil
}

func updateDonorCoordinates(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, lat, lng float64) error {
	_, err := pool.Exec(ctx, `
		UPDATE users
		SET lat = $2, lng = $3, updated_at = now()
		WHERE id = $1
	`, id, lat, lng)
	return err
}
