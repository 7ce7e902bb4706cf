package repositories

import (
	"context"
	"database/sql"
	"delivery-day-simulator/internal/distance"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type LocationSeed struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

type PackageSeed struct {
	PackageID         int    `json:"package_id"`
	Location          string `json:"location"`
	Deadline          string `json:"deadline"`
	WeightKg          int    `json:"weight_kg"`
	DeliverWith       []int  `json:"deliver_with,omitempty"`
	VehicleOnly       int    `json:"vehicle_only,omitempty"`
	ArrivesAt         string `json:"arrives_at,omitempty"`
	CorrectedLocation string `json:"corrected_location,omitempty"`
	CorrectedAt       string `json:"corrected_at,omitempty"`
}

// Seed is the demo data file: locations in matrix order, a lower-triangular
// distance matrix in miles, and the day's packages.
type Seed struct {
	Locations []LocationSeed `json:"locations"`
	Distances [][]float64    `json:"distances"`
	Packages  []PackageSeed  `json:"packages"`
}

// LoadSeed reads and validates a seed file.
func LoadSeed(jsonPath string) (*Seed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("load seed: parse json: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	return &seed, nil
}

// Validate checks the matrix through distance.FromMatrix and every package
// row for ids, known locations and pairing of correction fields.
func (s *Seed) Validate() error {
	names := make([]string, 0, len(s.Locations))
	for i, l := range s.Locations {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return fmt.Errorf("location at index %d: name cannot be empty", i+1)
		}
		names = append(names, name)
	}

	table, err := distance.FromMatrix(names, s.Distances)
	if err != nil {
		return err
	}

	seen := make(map[int]struct{}, len(s.Packages))
	for i, p := range s.Packages {
		if p.PackageID <= 0 {
			return fmt.Errorf("invalid package_id at index %d: %d", i+1, p.PackageID)
		}
		if _, dup := seen[p.PackageID]; dup {
			return fmt.Errorf("duplicate package_id %d", p.PackageID)
		}
		seen[p.PackageID] = struct{}{}

		if strings.TrimSpace(p.Location) == "" {
			return fmt.Errorf("package_id=%d: location cannot be empty", p.PackageID)
		}
		if (p.CorrectedLocation == "") != (p.CorrectedAt == "") {
			return fmt.Errorf("package_id=%d: corrected_location and corrected_at go together", p.PackageID)
		}
		if p.CorrectedLocation != "" && !table.Has(p.CorrectedLocation) {
			return fmt.Errorf("package_id=%d: unknown corrected location %q", p.PackageID, p.CorrectedLocation)
		}
		if p.CorrectedLocation == "" && !table.Has(p.Location) {
			return fmt.Errorf("package_id=%d: unknown location %q", p.PackageID, p.Location)
		}
	}
	return nil
}

// Populate the database from a JSON seed file. Rows are upserted, so
// seeding twice is harmless.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) error {
	seed, err := LoadSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	return Apply(ctx, db, dialect, seed)
}

// Apply writes a validated seed in one transaction.
func Apply(ctx context.Context, db *sql.DB, dialect Dialect, seed *Seed) error {
	if db == nil {
		return errors.New("seed database: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed database: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locStmt, err := tx.PrepareContext(ctx, dialect.rebind(`
	INSERT INTO locations (name, position, address, city, zip)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE
	SET position = excluded.position,
		address = excluded.address,
		city = excluded.city,
		zip = excluded.zip;
	`))
	if err != nil {
		return fmt.Errorf("seed locations: prepare insert: %w", err)
	}
	defer locStmt.Close()

	for i, l := range seed.Locations {
		if _, err := locStmt.ExecContext(ctx, strings.TrimSpace(l.Name), i, l.Address, l.City, l.Zip); err != nil {
			return fmt.Errorf("seed locations: insert %q: %w", l.Name, err)
		}
	}

	distStmt, err := tx.PrepareContext(ctx, dialect.rebind(`
	INSERT INTO distances (origin, destination, miles)
	VALUES (?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET miles = excluded.miles;
	`))
	if err != nil {
		return fmt.Errorf("seed distances: prepare insert: %w", err)
	}
	defer distStmt.Close()

	for i, row := range seed.Distances {
		for j := 0; j < i && j < len(row); j++ {
			from, to := strings.TrimSpace(seed.Locations[i].Name), strings.TrimSpace(seed.Locations[j].Name)
			if _, err := distStmt.ExecContext(ctx, from, to, row[j]); err != nil {
				return fmt.Errorf("seed distances: insert %q -> %q: %w", from, to, err)
			}
		}
	}

	pkgStmt, err := tx.PrepareContext(ctx, dialect.rebind(`
	INSERT INTO packages (
		package_id,
		location,
		deadline,
		weight_kg,
		deliver_with,
		vehicle_only,
		arrives_at,
		corrected_location,
		corrected_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (package_id) DO UPDATE
	SET location = excluded.location,
		deadline = excluded.deadline,
		weight_kg = excluded.weight_kg,
		deliver_with = excluded.deliver_with,
		vehicle_only = excluded.vehicle_only,
		arrives_at = excluded.arrives_at,
		corrected_location = excluded.corrected_location,
		corrected_at = excluded.corrected_at;
	`))
	if err != nil {
		return fmt.Errorf("seed packages: prepare insert: %w", err)
	}
	defer pkgStmt.Close()

	for _, p := range seed.Packages {
		deadline := strings.TrimSpace(p.Deadline)
		if deadline == "" {
			deadline = "EOD"
		}
		_, err := pkgStmt.ExecContext(ctx,
			p.PackageID,
			strings.TrimSpace(p.Location),
			deadline,
			p.WeightKg,
			joinIDs(p.DeliverWith),
			p.VehicleOnly,
			p.ArrivesAt,
			p.CorrectedLocation,
			p.CorrectedAt,
		)
		if err != nil {
			return fmt.Errorf("seed packages: insert package_id=%d: %w", p.PackageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed database: commit tx: %w", err)
	}

	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

func splitIDs(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse package id list %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
