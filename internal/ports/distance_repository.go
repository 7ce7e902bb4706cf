package ports

import (
	"context"
	"delivery-day-simulator/internal/domain"
)

// Contract for retrieving the precomputed distance matrix.
type DistanceRepository interface {
	// Return every known location in load order.
	ListLocations(ctx context.Context) ([]domain.Location, error)
	// Return the stored distance entries, one per unordered pair.
	ListDistances(ctx context.Context) ([]domain.DistanceEntry, error)
}
