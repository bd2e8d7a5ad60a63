package app

import (
	"context"
	"database/sql"
)

// Migrate creates the schema if it does not exist yet. The schema is
// small enough that idempotent DDL beats a migration tool here.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at TIMESTAMPTZ NOT NULL,
			distance_meters DOUBLE PRECISION NOT NULL,
			duration_seconds BIGINT NOT NULL,
			start_region TEXT NOT NULL,
			end_region TEXT NOT NULL,
			start_display TEXT NOT NULL DEFAULT '',
			end_display TEXT NOT NULL DEFAULT '',
			base_fare BIGINT NOT NULL,
			distance_fare BIGINT NOT NULL,
			time_fare BIGINT NOT NULL,
			region_surcharge BIGINT NOT NULL,
			night_surcharge BIGINT NOT NULL,
			total_fare BIGINT NOT NULL,
			ended_by TEXT NOT NULL,
			path JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_device_started
			ON trips (device_id, started_at DESC)`,
		`CREATE TABLE IF NOT EXISTS region_fares (
			code TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			tiers JSONB NOT NULL,
			surcharge_amount BIGINT NOT NULL DEFAULT 0,
			is_user_created BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
