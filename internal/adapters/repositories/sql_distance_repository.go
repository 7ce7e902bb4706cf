package repositories

import (
	"context"
	"database/sql"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"errors"
	"fmt"
)

// SQLDistanceRepository reads the precomputed distance matrix.
type SQLDistanceRepository struct {
	DB *sql.DB
}

func NewSQLDistanceRepository(db *sql.DB) *SQLDistanceRepository {
	return &SQLDistanceRepository{DB: db}
}

// Return every location in seed order.
func (s *SQLDistanceRepository) ListLocations(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "distance.repo.ListLocations")(&err)

	if s.DB == nil {
		return nil, errors.New("distance repository: db is nil")
	}

	q := `
	SELECT name, address, city, zip
	FROM locations
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Location, 0, 32)
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.Name, &l.Address, &l.City, &l.Zip); err != nil {
			return nil, fmt.Errorf("list locations: scan rows: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return out, nil
}

// Return one entry per stored origin/destination pair.
func (s *SQLDistanceRepository) ListDistances(ctx context.Context) (_ []domain.DistanceEntry, err error) {
	defer obs.Time(ctx, "distance.repo.ListDistances")(&err)

	if s.DB == nil {
		return nil, errors.New("distance repository: db is nil")
	}

	q := `
	SELECT origin, destination, miles
	FROM distances
	ORDER BY origin, destination;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list distances: query distances table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DistanceEntry, 0, 512)
	for rows.Next() {
		var e domain.DistanceEntry
		if err := rows.Scan(&e.From, &e.To, &e.Miles); err != nil {
			return nil, fmt.Errorf("list distances: scan rows: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list distances: row iteration: %w", err)
	}

	return out, nil
}
