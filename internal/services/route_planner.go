package services

import (
	"delivery-day-simulator/internal/domain"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// loadUnit is the atomic thing the planner loads: a single package or a
// whole GroupWith cluster.
type loadUnit struct {
	ids       []int
	locations []string
	deadline  time.Time
	timed     bool
	vehicleID int
}

func (u loadUnit) firstID() int { return u.ids[0] }

func (u loadUnit) size() int { return len(u.ids) }

// compareUrgency orders units by earliest deadline, then lowest package id.
func compareUrgency(a, b loadUnit) int {
	if c := a.deadline.Compare(b.deadline); c != 0 {
		return c
	}
	return a.firstID() - b.firstID()
}

// eligibleUnits collects the pending units the vehicle may carry at now:
// every member unassigned and available, and no pin to another vehicle.
func eligibleUnits(s *SimulationState, v *domain.Vehicle, now time.Time) ([]loadUnit, error) {
	seen := make(map[int]struct{}, len(s.pending))
	units := make([]loadUnit, 0, len(s.pending))

	for _, id := range s.PendingIDs() {
		if _, ok := seen[id]; ok {
			continue
		}

		c, ok := s.Constraints.Get(id)
		if !ok {
			return nil, &domain.KeyNotFoundError{PackageID: id}
		}

		members := []int{id}
		if len(c.Group) > 1 {
			members = c.Group
		}
		for _, m := range members {
			seen[m] = struct{}{}
		}

		if !c.AvailableAt(now) {
			continue
		}
		if c.VehicleID != 0 && c.VehicleID != v.VehicleID {
			continue
		}

		u := loadUnit{ids: members, vehicleID: c.VehicleID}
		complete := true
		for _, m := range members {
			if _, ok := s.pending[m]; !ok {
				complete = false
				break
			}
			pkg, err := s.Packages.Lookup(m)
			if err != nil {
				return nil, err
			}
			mc, _ := s.Constraints.Get(m)
			if !slices.Contains(u.locations, mc.Location) {
				u.locations = append(u.locations, mc.Location)
			}
			if u.deadline.IsZero() || pkg.Deadline.Before(u.deadline) {
				u.deadline = pkg.Deadline
			}
			if !pkg.EndOfDay {
				u.timed = true
			}
		}
		if complete {
			units = append(units, u)
		}
	}

	return units, nil
}

// distanceTo is the leg from cursor to the unit's nearest member location.
func distanceTo(s *SimulationState, cursor string, u loadUnit) (float64, string, error) {
	best := math.MaxFloat64
	bestLoc := ""
	for _, loc := range u.locations {
		d, err := s.Distances.Distance(cursor, loc)
		if err != nil {
			return 0, "", err
		}
		if d < best || (d == best && loc < bestLoc) {
			best = d
			bestLoc = loc
		}
	}
	return best, bestLoc, nil
}

// PlanTrip selects the next load for an idle vehicle at the hub and orders
// its stops. It returns nil when nothing is eligible at now.
//
// Pinned packages and GroupWith clusters seed the load first, earliest
// deadline first. The remaining capacity is filled greedily with the unit
// nearest to the last chosen location; timed-deadline units and units bound
// for a stop already on the trip are considered before end-of-day ones.
// Distance ties go to the earlier deadline, then to the lower package id.
func PlanTrip(s *SimulationState, v *domain.Vehicle, now time.Time) (*domain.Trip, error) {
	if v == nil {
		return nil, errors.New("plan trip: vehicle must be non-nil")
	}
	if !s.atHub(v) {
		return nil, fmt.Errorf("plan trip: vehicle %d is at %q, not the hub", v.VehicleID, v.Location)
	}

	units, err := eligibleUnits(s, v, now)
	if err != nil {
		return nil, fmt.Errorf("plan trip: vehicle %d: %w", v.VehicleID, err)
	}
	if len(units) == 0 {
		return nil, nil
	}

	capacity := v.Capacity - len(v.Load)
	taken := make([]bool, len(units))
	stopsOnTrip := make(map[string]struct{})
	var chosen []int
	cursor := s.Fleet.Hub

	take := func(i int, at string) {
		taken[i] = true
		chosen = append(chosen, units[i].ids...)
		for _, loc := range units[i].locations {
			stopsOnTrip[loc] = struct{}{}
		}
		cursor = at
	}

	seeds := make([]int, 0)
	for i, u := range units {
		if u.vehicleID != 0 || u.size() > 1 {
			seeds = append(seeds, i)
		}
	}
	slices.SortFunc(seeds, func(a, b int) int { return compareUrgency(units[a], units[b]) })

	for _, i := range seeds {
		if len(chosen)+units[i].size() > capacity {
			continue
		}
		_, at, err := distanceTo(s, cursor, units[i])
		if err != nil {
			return nil, fmt.Errorf("plan trip: vehicle %d: %w", v.VehicleID, err)
		}
		take(i, at)
	}

	for len(chosen) < capacity {
		var fits, preferred []int
		for i, u := range units {
			if taken[i] || len(chosen)+u.size() > capacity {
				continue
			}
			fits = append(fits, i)

			rides := false
			for _, loc := range u.locations {
				if _, ok := stopsOnTrip[loc]; ok {
					rides = true
					break
				}
			}
			if u.timed || rides {
				preferred = append(preferred, i)
			}
		}

		candidates := preferred
		if len(candidates) == 0 {
			candidates = fits
		}
		if len(candidates) == 0 {
			break
		}

		best := -1
		bestMiles := math.MaxFloat64
		bestAt := ""
		for _, i := range candidates {
			miles, at, err := distanceTo(s, cursor, units[i])
			if err != nil {
				return nil, fmt.Errorf("plan trip: vehicle %d: %w", v.VehicleID, err)
			}
			if best < 0 || miles < bestMiles || (miles == bestMiles && compareUrgency(units[i], units[best]) < 0) {
				best, bestMiles, bestAt = i, miles, at
			}
		}
		take(best, bestAt)
	}

	if len(chosen) == 0 {
		return nil, nil
	}
	slices.Sort(chosen)

	stopPkgs := make([]stopPackage, 0, len(chosen))
	for _, id := range chosen {
		pkg, err := s.Packages.Lookup(id)
		if err != nil {
			return nil, fmt.Errorf("plan trip: %w", err)
		}
		c, _ := s.Constraints.Get(id)
		stopPkgs = append(stopPkgs, stopPackage{PackageID: id, Location: c.Location, Deadline: pkg.Deadline})
	}

	stops, _, err := NearestNeighborStops(s.Distances, s.Fleet.Hub, stopPkgs)
	if err != nil {
		return nil, fmt.Errorf("plan trip: vehicle %d: %w", v.VehicleID, err)
	}

	back, err := s.Distances.Distance(stops[len(stops)-1].Location, s.Fleet.Hub)
	if err != nil {
		return nil, fmt.Errorf("plan trip: return leg for vehicle %d: %w", v.VehicleID, err)
	}

	s.nextTripID++
	return &domain.Trip{
		TripID:     s.nextTripID,
		VehicleID:  v.VehicleID,
		Stops:      stops,
		ReturnLeg:  back,
		PackageIDs: chosen,
	}, nil
}
