package services

import (
	"delivery-day-simulator/internal/distance"
	"delivery-day-simulator/internal/domain"
	"slices"
	"testing"
)

func TestNearestNeighborStops(t *testing.T) {
	tbl := triangleTable(t)

	packages := []stopPackage{
		{PackageID: 1, Location: "A", Deadline: clock(17, 0)},
		{PackageID: 2, Location: "B", Deadline: clock(17, 0)},
		{PackageID: 3, Location: "C", Deadline: clock(17, 0)},
		{PackageID: 4, Location: "A", Deadline: clock(17, 0)},
	}

	stops, miles, err := NearestNeighborStops(tbl, "HUB", packages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(stops))
	}
	if stops[0].Location != "A" {
		t.Fatalf("expected first stop A, got %q", stops[0].Location)
	}
	if stops[1].Location != "C" {
		t.Fatalf("expected second stop C, got %q", stops[1].Location)
	}
	if stops[2].Location != "B" {
		t.Fatalf("expected third stop B, got %q", stops[2].Location)
	}
	if !slices.Equal(stops[0].PackageIDs, []int{1, 4}) {
		t.Fatalf("stop A packages = %v, want [1 4]", stops[0].PackageIDs)
	}

	if miles < 2.5999 || miles > 2.6001 {
		t.Fatalf("distance = %v, want 2.6", miles)
	}
}

func TestNearestNeighborStopsDeadlineTiers(t *testing.T) {
	tbl := triangleTable(t)

	// B is the farthest stop but holds the earliest deadline.
	packages := []stopPackage{
		{PackageID: 1, Location: "A", Deadline: clock(17, 0)},
		{PackageID: 2, Location: "B", Deadline: clock(9, 0)},
		{PackageID: 3, Location: "C", Deadline: clock(10, 30)},
	}

	stops, _, err := NearestNeighborStops(tbl, "HUB", packages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []string{stops[0].Location, stops[1].Location, stops[2].Location}
	if !slices.Equal(got, []string{"B", "C", "A"}) {
		t.Fatalf("stop order = %v, want [B C A]", got)
	}
}

func TestNearestNeighborStopsUnknownLocation(t *testing.T) {
	tbl := triangleTable(t)
	_, _, err := NearestNeighborStops(tbl, "HUB", []stopPackage{{PackageID: 1, Location: "Q", Deadline: clock(17, 0)}})
	if err == nil {
		t.Fatalf("expected lookup error")
	}
}

// squareTable has D and E equidistant from the hub.
func squareTable(t *testing.T) *distance.Table {
	t.Helper()
	tbl, err := distance.FromMatrix(
		[]string{"HUB", "D", "E", "F"},
		[][]float64{
			{0},
			{1.0, 0},
			{1.0, 1.4, 0},
			{3.0, 2.0, 2.0, 0},
		},
	)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return tbl
}

func TestPlanTripTieBreakEarlierDeadline(t *testing.T) {
	tbl := squareTable(t)
	pkgs := []domain.Package{
		due(7, "E", clock(10, 30)),
		due(8, "D", clock(9, 0)),
	}
	s := newState(t, testFleet(1, 1, 1), pkgs, tbl)

	trip, err := PlanTrip(s, s.Vehicles[0], s.Clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(trip.PackageIDs, []int{8}) {
		t.Fatalf("trip packages = %v, want [8]", trip.PackageIDs)
	}
}

func TestPlanTripTieBreakLowerID(t *testing.T) {
	tbl := squareTable(t)
	pkgs := []domain.Package{eod(4, "E"), eod(3, "D")}
	s := newState(t, testFleet(1, 1, 1), pkgs, tbl)

	trip, err := PlanTrip(s, s.Vehicles[0], s.Clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(trip.PackageIDs, []int{3}) {
		t.Fatalf("trip packages = %v, want [3]", trip.PackageIDs)
	}
}

func TestPlanTripPrefersNearest(t *testing.T) {
	tbl := squareTable(t)
	pkgs := []domain.Package{eod(1, "F"), eod(2, "D"), eod(3, "F")}
	s := newState(t, testFleet(1, 1, 2), pkgs, tbl)

	trip, err := PlanTrip(s, s.Vehicles[0], s.Clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// D first (1.0), then F at 2.0 from D; 1 beats 3 on id.
	if !slices.Equal(trip.PackageIDs, []int{1, 2}) {
		t.Fatalf("trip packages = %v, want [1 2]", trip.PackageIDs)
	}
	if trip.Stops[0].Location != "D" || trip.Stops[1].Location != "F" {
		t.Fatalf("stops = %+v", trip.Stops)
	}
	if trip.ReturnLeg != 3.0 {
		t.Fatalf("return leg = %v, want 3", trip.ReturnLeg)
	}
}

func TestPlanTripTimedBeforeEndOfDay(t *testing.T) {
	tbl := squareTable(t)
	pkgs := []domain.Package{
		eod(1, "D"),
		due(2, "F", clock(10, 30)),
	}
	s := newState(t, testFleet(1, 1, 1), pkgs, tbl)

	trip, err := PlanTrip(s, s.Vehicles[0], s.Clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(trip.PackageIDs, []int{2}) {
		t.Fatalf("trip packages = %v, want [2]", trip.PackageIDs)
	}
}

func TestPlanTripRespectsPinsAndAvailability(t *testing.T) {
	tbl := triangleTable(t)
	late := clock(9, 5)
	pinned := eod(1, "A")
	pinned.Notes.VehicleOnly = 2
	delayed := eod(2, "B")
	delayed.Notes.ArrivesAt = &late
	pkgs := []domain.Package{pinned, delayed, eod(3, "C")}

	s := newState(t, testFleet(2, 2, 16), pkgs, tbl)

	trip, err := PlanTrip(s, s.Vehicles[0], clock(8, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(trip.PackageIDs, []int{3}) {
		t.Fatalf("vehicle 1 packages = %v, want [3]", trip.PackageIDs)
	}

	trip, err = PlanTrip(s, s.Vehicles[1], clock(9, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(trip.PackageIDs, []int{1, 2, 3}) {
		t.Fatalf("vehicle 2 packages = %v, want [1 2 3]", trip.PackageIDs)
	}
}

func TestPlanTripKeepsGroupsTogether(t *testing.T) {
	tbl := triangleTable(t)
	p1 := eod(1, "A")
	p1.Notes.DeliverWith = []int{2}
	p2 := eod(2, "B")
	p2.Notes.DeliverWith = []int{3}
	pkgs := []domain.Package{p1, p2, eod(3, "C"), eod(4, "A"), eod(5, "A")}

	s := newState(t, testFleet(1, 1, 4), pkgs, tbl)

	trip, err := PlanTrip(s, s.Vehicles[0], s.Clock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range []int{1, 2, 3} {
		if !slices.Contains(trip.PackageIDs, id) {
			t.Fatalf("group member %d missing from %v", id, trip.PackageIDs)
		}
	}
	if len(trip.PackageIDs) != 4 {
		t.Fatalf("trip packages = %v, want 4", trip.PackageIDs)
	}
}

func TestPlanTripNothingEligible(t *testing.T) {
	tbl := triangleTable(t)
	late := clock(10, 0)
	p := eod(1, "A")
	p.Notes.ArrivesAt = &late
	s := newState(t, testFleet(1, 1, 16), []domain.Package{p}, tbl)

	trip, err := PlanTrip(s, s.Vehicles[0], clock(8, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip != nil {
		t.Fatalf("expected no trip, got %+v", trip)
	}
}
