package repositories

import (
	"context"
	"database/sql"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"errors"
	"fmt"
)

// SQL-backed implementation of the PackageRepository port. Stored clock
// times ("10:30", "EOD") are anchored on Day when read.
type SQLPackageRepository struct {
	DB  *sql.DB
	Day domain.ServiceDay
}

func NewSQLPackageRepository(db *sql.DB, day domain.ServiceDay) *SQLPackageRepository {
	return &SQLPackageRepository{DB: db, Day: day}
}

// Return all packages stored in the database, ordered by id.
func (s *SQLPackageRepository) ListPackages(ctx context.Context) (_ []*domain.Package, err error) {
	defer obs.Time(ctx, "packages.repo.ListPackages")(&err)

	if s.DB == nil {
		return nil, errors.New("sql package repository: DB is nil")
	}

	query := `
	SELECT
		package_id,
		location,
		deadline,
		weight_kg,
		deliver_with,
		vehicle_only,
		arrives_at,
		corrected_location,
		corrected_at
	FROM packages
	ORDER BY package_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: query packages table: %w", err)
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0, 64)
	for rows.Next() {
		var r PackageSeed
		var deliverWith string
		err := rows.Scan(
			&r.PackageID,
			&r.Location,
			&r.Deadline,
			&r.WeightKg,
			&deliverWith,
			&r.VehicleOnly,
			&r.ArrivesAt,
			&r.CorrectedLocation,
			&r.CorrectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list packages: scan row: %w", err)
		}

		if r.DeliverWith, err = splitIDs(deliverWith); err != nil {
			return nil, fmt.Errorf("list packages: package_id=%d: %w", r.PackageID, err)
		}

		pkg, err := packageFromSeed(s.Day, r)
		if err != nil {
			return nil, fmt.Errorf("list packages: %w", err)
		}
		packages = append(packages, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: row iteration: %w", err)
	}

	return packages, nil
}

// packageFromSeed anchors a stored package row on the service day.
func packageFromSeed(day domain.ServiceDay, r PackageSeed) (*domain.Package, error) {
	deadline, eod, err := domain.ParseDeadline(day.Start, day.End, r.Deadline)
	if err != nil {
		return nil, fmt.Errorf("package_id=%d: %w", r.PackageID, err)
	}

	pkg := &domain.Package{
		PackageID: r.PackageID,
		Location:  r.Location,
		Deadline:  deadline,
		EndOfDay:  eod,
		WeightKg:  r.WeightKg,
		Status:    domain.StatusAtHub,
		Notes: domain.Notes{
			DeliverWith: r.DeliverWith,
			VehicleOnly: r.VehicleOnly,
		},
	}

	if r.ArrivesAt != "" {
		at, err := day.Clock(r.ArrivesAt)
		if err != nil {
			return nil, fmt.Errorf("package_id=%d: arrives_at: %w", r.PackageID, err)
		}
		pkg.Notes.ArrivesAt = &at
	}

	if r.CorrectedLocation != "" {
		at, err := day.Clock(r.CorrectedAt)
		if err != nil {
			return nil, fmt.Errorf("package_id=%d: corrected_at: %w", r.PackageID, err)
		}
		pkg.Notes.Correction = &domain.AddressCorrection{At: at, Location: r.CorrectedLocation}
	}

	return pkg, nil
}
