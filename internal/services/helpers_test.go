package services

import (
	"delivery-day-simulator/internal/distance"
	"delivery-day-simulator/internal/domain"
	"testing"
	"time"
)

var testDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func clock(h, m int) time.Time {
	return testDate.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// testFleet runs at 6 mph so one mile takes exactly ten minutes.
func testFleet(vehicles, drivers, capacity int) FleetConfig {
	return FleetConfig{
		Hub:      "HUB",
		Vehicles: vehicles,
		Drivers:  drivers,
		Capacity: capacity,
		SpeedMPH: 6,
		Day:      domain.ServiceDay{Start: clock(8, 0), End: clock(17, 0)},
	}
}

func eod(id int, loc string) domain.Package {
	return domain.Package{PackageID: id, Location: loc, Deadline: clock(17, 0), EndOfDay: true}
}

func due(id int, loc string, at time.Time) domain.Package {
	return domain.Package{PackageID: id, Location: loc, Deadline: at}
}

// HUB, A, B, C
func triangleTable(t *testing.T) *distance.Table {
	t.Helper()
	tbl, err := distance.FromMatrix(
		[]string{"HUB", "A", "B", "C"},
		[][]float64{
			{0},
			{1.0, 0},
			{2.0, 0.8, 0},
			{1.5, 0.7, 0.9, 0},
		},
	)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return tbl
}

func newState(t *testing.T, fleet FleetConfig, pkgs []domain.Package, tbl *distance.Table) *SimulationState {
	t.Helper()
	cs, err := ResolveConstraints(pkgs, fleet, tbl)
	if err != nil {
		t.Fatalf("resolve constraints: %v", err)
	}
	s, err := NewSimulationState(fleet, pkgs, tbl, cs, nil)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	return s
}
