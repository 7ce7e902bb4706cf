package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the database schema. The DDL is shared by SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT ''
	);
	`

	createDistancesQuery := `
	CREATE TABLE IF NOT EXISTS distances (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		miles DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createPackagesQuery := `
	CREATE TABLE IF NOT EXISTS packages (
		package_id INTEGER PRIMARY KEY,
		location TEXT NOT NULL,
		deadline TEXT NOT NULL DEFAULT 'EOD',
		weight_kg INTEGER NOT NULL DEFAULT 0,
		deliver_with TEXT NOT NULL DEFAULT '',
		vehicle_only INTEGER NOT NULL DEFAULT 0,
		arrives_at TEXT NOT NULL DEFAULT '',
		corrected_location TEXT NOT NULL DEFAULT '',
		corrected_at TEXT NOT NULL DEFAULT ''
	);
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total_miles DOUBLE PRECISION NOT NULL,
		missed_deadlines INTEGER NOT NULL
	);
	`

	createRunDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS run_deliveries (
		run_id TEXT NOT NULL,
		package_id INTEGER NOT NULL,
		vehicle_id INTEGER NOT NULL,
		delivered_at TEXT NOT NULL,
		late INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, package_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distances_destination_origin
	ON distances(destination, origin);
	`

	statements := []string{
		createLocationsQuery,
		createDistancesQuery,
		createPackagesQuery,
		createRunsQuery,
		createRunDeliveriesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
