package ports

import (
	"context"
	"delivery-day-simulator/internal/domain"
)

// Port: a boundary for retrieving Package entities from a data source.
type PackageRepository interface {
	// Retrieve all packages for the simulated day, in AT_HUB state.
	ListPackages(ctx context.Context) ([]*domain.Package, error)
}
