package services

import (
	"delivery-day-simulator/internal/distance"
	"delivery-day-simulator/internal/domain"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// A package as seen by stop ordering: where it goes and when it is due.
type stopPackage struct {
	PackageID int
	Location  string
	Deadline  time.Time
}

// Order a trip's stops using a greedy nearest-neighbor walk within
// deadline tiers.
//
// Each distinct location is one stop, due at the earliest deadline among its
// packages. Stops are visited tier by tier in ascending due time, and inside
// a tier the nearest unvisited stop from the current location comes next.
// It does not attempt global route optimization (e.g., TSP solvers).
// The design prioritizes determinism and simplicity over optimality.
func NearestNeighborStops(
	table *distance.Table,
	startLocation string,
	packages []stopPackage,
) ([]domain.RouteStop, float64, error) {
	if startLocation == "" {
		return nil, 0, errors.New("order stops: startLocation must be non-empty")
	}

	if len(packages) == 0 {
		return []domain.RouteStop{}, 0, nil
	}

	byLocation := make(map[string][]int)
	due := make(map[string]time.Time)
	for _, pkg := range packages {
		byLocation[pkg.Location] = append(byLocation[pkg.Location], pkg.PackageID)
		if d, ok := due[pkg.Location]; !ok || pkg.Deadline.Before(d) {
			due[pkg.Location] = pkg.Deadline
		}
	}

	remaining := make(map[string]struct{}, len(byLocation))
	for loc := range byLocation {
		remaining[loc] = struct{}{}
	}

	currentLocation := startLocation
	stops := make([]domain.RouteStop, 0, len(byLocation))
	totalMiles := 0.0

	for len(remaining) > 0 {
		var tier time.Time
		for loc := range remaining {
			if tier.IsZero() || due[loc].Before(tier) {
				tier = due[loc]
			}
		}

		var bestLocation string
		minMiles := math.MaxFloat64

		// Select next stop by minimum leg distance (greedy step).
		for loc := range remaining {
			if !due[loc].Equal(tier) {
				continue
			}
			miles, err := table.Distance(currentLocation, loc)
			if err != nil {
				return nil, 0, fmt.Errorf("order stops: %w", err)
			}
			// Tie-breaker ensures deterministic ordering when distances are equal.
			if miles < minMiles || (miles == minMiles && loc < bestLocation) {
				minMiles = miles
				bestLocation = loc
			}
		}

		if bestLocation == "" {
			return nil, 0, errors.New("order stops: failed to select next location")
		}

		ids := slices.Clone(byLocation[bestLocation])
		slices.Sort(ids)
		stops = append(stops, domain.RouteStop{
			Location:   bestLocation,
			PackageIDs: ids,
			LegMiles:   minMiles,
		})
		totalMiles += minMiles

		delete(remaining, bestLocation)
		currentLocation = bestLocation
	}

	return stops, totalMiles, nil
}
