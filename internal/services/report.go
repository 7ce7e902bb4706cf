package services

import (
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/store"
	"slices"
	"time"
)

// Report answers read-only queries over a finished day. It never mutates
// the package store.
type Report struct {
	packages *store.PackageStore
	vehicles []*domain.Vehicle
	trips    []*domain.Trip
	missed   []domain.MissedDeadline
	sites    map[string]domain.Location
}

func indexLocations(locs []domain.Location) map[string]domain.Location {
	if len(locs) == 0 {
		return nil
	}
	out := make(map[string]domain.Location, len(locs))
	for _, l := range locs {
		out[l.Name] = l
	}
	return out
}

func NewReport(s *SimulationState) *Report {
	return &Report{
		packages: s.Packages,
		vehicles: s.Vehicles,
		trips:    s.Trips,
		missed:   s.Missed,
	}
}

// StatusAt returns every package's status as of t, ordered by package id.
// Statuses are derived from the recorded load and delivery timestamps, so
// repeated calls with the same t return identical results.
func (r *Report) StatusAt(t time.Time) []domain.PackageSnapshot {
	out := make([]domain.PackageSnapshot, 0, r.packages.Len())
	for pkg := range r.packages.All() {
		snap := domain.PackageSnapshot{
			PackageID: pkg.PackageID,
			Location:  pkg.LocationAt(t),
			Deadline:  pkg.DeadlineLabel(),
			WeightKg:  pkg.WeightKg,
			Status:    pkg.StatusAt(t),
		}
		if site, ok := r.sites[snap.Location]; ok {
			snap.Address, snap.City, snap.Zip = site.Address, site.City, site.Zip
		}
		if snap.Status != domain.StatusAtHub && pkg.VehicleID != nil {
			vid := *pkg.VehicleID
			snap.VehicleID = &vid
		}
		if snap.Status == domain.StatusDelivered {
			at := *pkg.DeliveredAt
			snap.DeliveredAt = &at
			snap.Late = pkg.Late()
		}
		out = append(out, snap)
	}

	slices.SortFunc(out, func(a, b domain.PackageSnapshot) int { return a.PackageID - b.PackageID })
	return out
}

// TotalMileage sums the odometers of every vehicle.
func (r *Report) TotalMileage() float64 {
	total := 0.0
	for _, v := range r.vehicles {
		total += v.Odometer
	}
	return total
}

// MileageAt returns the miles each vehicle had driven by t, counting a leg
// in progress in proportion to the time spent on it.
func (r *Report) MileageAt(t time.Time) map[int]float64 {
	speed := make(map[int]float64, len(r.vehicles))
	out := make(map[int]float64, len(r.vehicles))
	for _, v := range r.vehicles {
		speed[v.VehicleID] = v.SpeedMPH
		out[v.VehicleID] = 0
	}

	for _, trip := range r.trips {
		if !t.After(trip.DepartAt) {
			continue
		}
		driven := speed[trip.VehicleID] * t.Sub(trip.DepartAt).Hours()
		out[trip.VehicleID] += min(driven, trip.Miles)
	}
	return out
}

// TotalMileageAt sums MileageAt(t) over the fleet.
func (r *Report) TotalMileageAt(t time.Time) float64 {
	total := 0.0
	for _, miles := range r.MileageAt(t) {
		total += miles
	}
	return total
}

// MissedDeadlines lists the ids of packages delivered late, ascending.
func (r *Report) MissedDeadlines() []int {
	ids := make([]int, 0, len(r.missed))
	for _, m := range r.missed {
		ids = append(ids, m.PackageID)
	}
	slices.Sort(ids)
	return ids
}

// Trips returns the executed trips in departure order.
func (r *Report) Trips() []*domain.Trip {
	return slices.Clone(r.trips)
}

// Summary aggregates mileage and trip counts per vehicle.
func (r *Report) Summary() domain.DaySummary {
	sum := domain.DaySummary{
		TotalMiles:      r.TotalMileage(),
		TripsPerVehicle: make(map[int]int, len(r.vehicles)),
		MilesPerVehicle: make(map[int]float64, len(r.vehicles)),
		MissedDeadlines: slices.Clone(r.missed),
	}
	for _, v := range r.vehicles {
		sum.TripsPerVehicle[v.VehicleID] = v.Trips
		sum.MilesPerVehicle[v.VehicleID] = v.Odometer
	}
	for _, trip := range r.trips {
		end := trip.Stops[len(trip.Stops)-1].ArriveAt
		if trip.ReturnAt != nil {
			end = *trip.ReturnAt
		}
		if end.After(sum.FinishedAt) {
			sum.FinishedAt = end
		}
	}
	return sum
}
