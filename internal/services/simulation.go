package services

import (
	"delivery-day-simulator/internal/distance"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"delivery-day-simulator/internal/store"
	"errors"
	"fmt"
	"slices"
	"time"
)

// FleetConfig fixes the combinatorial shape of one simulated day.
type FleetConfig struct {
	Hub         string
	Vehicles    int
	Drivers     int
	Capacity    int
	SpeedMPH    float64
	Day         domain.ServiceDay
	ReturnToHub bool
}

// Validate allows as many drivers as vehicles so a one-vehicle fleet is
// expressible; the configured fleet keeps fewer drivers than vehicles.
func (f FleetConfig) Validate() error {
	switch {
	case f.Hub == "":
		return errors.New("fleet config: hub must be non-empty")
	case f.Vehicles < 1:
		return fmt.Errorf("fleet config: vehicles must be at least 1, got %d", f.Vehicles)
	case f.Drivers < 1 || f.Drivers > f.Vehicles:
		return fmt.Errorf("fleet config: drivers must be between 1 and %d, got %d", f.Vehicles, f.Drivers)
	case f.Capacity < 1:
		return fmt.Errorf("fleet config: capacity must be at least 1, got %d", f.Capacity)
	case f.SpeedMPH <= 0:
		return fmt.Errorf("fleet config: speed must be positive, got %v", f.SpeedMPH)
	case !f.Day.End.After(f.Day.Start):
		return errors.New("fleet config: day end must be after day start")
	}
	return nil
}

// SimulationState is everything one simulated day mutates. It is created
// per run and passed explicitly through the planner and scheduler, so
// independent days never share state.
type SimulationState struct {
	Fleet       FleetConfig
	Clock       time.Time
	Distances   *distance.Table
	Packages    *store.PackageStore
	Constraints *ConstraintSet
	Vehicles    []*domain.Vehicle
	Drivers     []*domain.Driver
	Trips       []*domain.Trip
	Missed      []domain.MissedDeadline

	metrics *obs.Metrics

	// packages not yet assigned to any trip
	pending map[int]struct{}
	// loaded or running trip per vehicle id
	active     map[int]*domain.Trip
	events     eventQueue
	nextTripID int
	eventSeq   int
}

// NewSimulationState builds the fleet and the package store for one day.
// Every package starts AT_HUB and unassigned.
func NewSimulationState(
	fleet FleetConfig,
	pkgs []domain.Package,
	table *distance.Table,
	cs *ConstraintSet,
	metrics *obs.Metrics,
) (*SimulationState, error) {
	if err := fleet.Validate(); err != nil {
		return nil, err
	}
	if !table.Has(fleet.Hub) {
		return nil, fmt.Errorf("simulation state: hub: %w", &domain.LookupError{From: fleet.Hub, To: fleet.Hub})
	}

	s := &SimulationState{
		Fleet:       fleet,
		Clock:       fleet.Day.Start,
		Distances:   table,
		Packages:    store.NewPackageStore(len(pkgs)),
		Constraints: cs,
		metrics:     metrics,
		pending:     make(map[int]struct{}, len(pkgs)),
		active:      make(map[int]*domain.Trip, fleet.Vehicles),
	}

	for i := 1; i <= fleet.Vehicles; i++ {
		s.Vehicles = append(s.Vehicles, domain.NewVehicle(i, fleet.Capacity, fleet.SpeedMPH, fleet.Hub))
	}
	for i := 1; i <= fleet.Drivers; i++ {
		s.Drivers = append(s.Drivers, domain.NewDriver(i))
	}

	for _, p := range pkgs {
		p.Status = domain.StatusAtHub
		p.VehicleID = nil
		p.LoadedAt = nil
		p.DeliveredAt = nil
		s.Packages.Insert(p)
		s.pending[p.PackageID] = struct{}{}
	}

	return s, nil
}

// PendingIDs returns the unassigned package ids in ascending order.
func (s *SimulationState) PendingIDs() []int {
	ids := make([]int, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *SimulationState) vehicle(id int) *domain.Vehicle {
	return s.Vehicles[id-1]
}

func (s *SimulationState) atHub(v *domain.Vehicle) bool {
	return v.Location == s.Fleet.Hub
}
