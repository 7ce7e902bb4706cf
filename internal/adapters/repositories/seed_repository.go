package repositories

import (
	"context"
	"delivery-day-simulator/internal/domain"
	"fmt"
	"strings"
)

// SeedRepository serves a seed file straight from memory. It implements
// both PackageRepository and DistanceRepository for runs without a database.
type SeedRepository struct {
	Seed *Seed
	Day  domain.ServiceDay
}

func NewSeedRepository(seed *Seed, day domain.ServiceDay) *SeedRepository {
	return &SeedRepository{Seed: seed, Day: day}
}

func (s *SeedRepository) ListPackages(context.Context) ([]*domain.Package, error) {
	out := make([]*domain.Package, 0, len(s.Seed.Packages))
	for _, p := range s.Seed.Packages {
		p.Location = strings.TrimSpace(p.Location)
		pkg, err := packageFromSeed(s.Day, p)
		if err != nil {
			return nil, fmt.Errorf("list packages: %w", err)
		}
		out = append(out, pkg)
	}
	return out, nil
}

func (s *SeedRepository) ListLocations(context.Context) ([]domain.Location, error) {
	out := make([]domain.Location, 0, len(s.Seed.Locations))
	for _, l := range s.Seed.Locations {
		out = append(out, domain.Location{Name: strings.TrimSpace(l.Name), Address: l.Address, City: l.City, Zip: l.Zip})
	}
	return out, nil
}

func (s *SeedRepository) ListDistances(context.Context) ([]domain.DistanceEntry, error) {
	var out []domain.DistanceEntry
	for i, row := range s.Seed.Distances {
		for j := 0; j < i && j < len(row); j++ {
			out = append(out, domain.DistanceEntry{
				From:  strings.TrimSpace(s.Seed.Locations[i].Name),
				To:    strings.TrimSpace(s.Seed.Locations[j].Name),
				Miles: row[j],
			})
		}
	}
	return out, nil
}
