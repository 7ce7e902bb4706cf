package services

import (
	"delivery-day-simulator/internal/domain"
	"errors"
	"slices"
	"testing"
)

func TestResolveConstraintsTransitiveGroup(t *testing.T) {
	tbl := triangleTable(t)
	late := clock(9, 5)

	p1 := eod(1, "A")
	p1.Notes.DeliverWith = []int{2}
	p2 := eod(2, "B")
	p2.Notes.DeliverWith = []int{3}
	p3 := eod(3, "C")
	p3.Notes.VehicleOnly = 2
	p3.Notes.ArrivesAt = &late

	cs, err := ResolveConstraints([]domain.Package{p3, p2, p1, eod(4, "A")}, testFleet(2, 2, 16), tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cs.Clusters) != 1 || !slices.Equal(cs.Clusters[0], []int{1, 2, 3}) {
		t.Fatalf("clusters = %v, want [[1 2 3]]", cs.Clusters)
	}
	for _, id := range []int{1, 2, 3} {
		c, _ := cs.Get(id)
		if c.VehicleID != 2 {
			t.Fatalf("package %d vehicle = %d, want 2", id, c.VehicleID)
		}
		if !c.AvailableAfter.Equal(late) {
			t.Fatalf("package %d available after %v, want %v", id, c.AvailableAfter, late)
		}
	}

	c4, _ := cs.Get(4)
	if len(c4.Kinds()) != 1 || c4.Kinds()[0] != domain.Independent {
		t.Fatalf("package 4 kinds = %v", c4.Kinds())
	}
}

func TestResolveConstraintsCorrection(t *testing.T) {
	tbl := triangleTable(t)
	p := eod(9, "nowhere")
	p.Notes.Correction = &domain.AddressCorrection{At: clock(10, 20), Location: "B"}

	cs, err := ResolveConstraints([]domain.Package{p}, testFleet(1, 1, 16), tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ := cs.Get(9)
	if c.Location != "B" || !c.AvailableAfter.Equal(clock(10, 20)) {
		t.Fatalf("constraint = %+v", c)
	}
	if c.AvailableAt(clock(10, 19)) || !c.AvailableAt(clock(10, 20)) {
		t.Fatalf("availability threshold not honored")
	}
}

func TestResolveConstraintsConflicts(t *testing.T) {
	tbl := triangleTable(t)

	pinnedA := eod(1, "A")
	pinnedA.Notes.VehicleOnly = 1
	pinnedA.Notes.DeliverWith = []int{2}
	pinnedB := eod(2, "B")
	pinnedB.Notes.VehicleOnly = 2

	big := eod(1, "A")
	big.Notes.DeliverWith = []int{2, 3}

	dangling := eod(1, "A")
	dangling.Notes.DeliverWith = []int{99}

	outOfRange := eod(1, "A")
	outOfRange.Notes.VehicleOnly = 5

	tests := []struct {
		name  string
		fleet FleetConfig
		pkgs  []domain.Package
	}{
		{"group pinned to two vehicles", testFleet(2, 2, 16), []domain.Package{pinnedA, pinnedB}},
		{"group larger than capacity", testFleet(2, 2, 2), []domain.Package{big, eod(2, "B"), eod(3, "C")}},
		{"unknown group member", testFleet(1, 1, 16), []domain.Package{dangling}},
		{"vehicle outside fleet", testFleet(2, 2, 16), []domain.Package{outOfRange}},
		{"duplicate id", testFleet(1, 1, 16), []domain.Package{eod(1, "A"), eod(1, "B")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveConstraints(tt.pkgs, tt.fleet, tbl)
			if !errors.Is(err, domain.ErrConstraintConflict) {
				t.Fatalf("expected constraint conflict, got %v", err)
			}
			var conflict *domain.ConstraintConflictError
			if !errors.As(err, &conflict) || len(conflict.PackageIDs) == 0 {
				t.Fatalf("expected *ConstraintConflictError with ids, got %v", err)
			}
		})
	}
}

func TestResolveConstraintsUnknownLocation(t *testing.T) {
	tbl := triangleTable(t)
	_, err := ResolveConstraints([]domain.Package{eod(1, "Q")}, testFleet(1, 1, 16), tbl)
	if !errors.Is(err, domain.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestCheckFeasibility(t *testing.T) {
	tbl := triangleTable(t)
	fleet := testFleet(1, 1, 16)
	afterHours := clock(16, 55)

	// C is 15 minutes out; B is 20.
	tooSoon := due(1, "C", clock(8, 10))
	stranded := eod(2, "B")
	stranded.Notes.ArrivesAt = &afterHours
	pkgs := []domain.Package{tooSoon, stranded, due(3, "A", clock(8, 10))}

	cs, err := ResolveConstraints(pkgs, fleet, tbl)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	err = CheckFeasibility(pkgs, cs, fleet, tbl)
	if !errors.Is(err, domain.ErrDeadlineMiss) {
		t.Fatalf("expected deadline miss, got %v", err)
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined errors, got %T", err)
	}
	var ids []int
	for _, e := range joined.Unwrap() {
		var miss *domain.DeadlineMissError
		if !errors.As(e, &miss) {
			t.Fatalf("unexpected error %v", e)
		}
		ids = append(ids, miss.PackageID)
	}
	if !slices.Equal(ids, []int{1, 2}) {
		t.Fatalf("infeasible packages = %v, want [1 2]", ids)
	}
}

func TestTravelTime(t *testing.T) {
	if got := travelTime(1.5, 6); got.Minutes() != 15 {
		t.Fatalf("travel time = %v, want 15m", got)
	}
	if got := travelTime(3, 18); got.Minutes() != 10 {
		t.Fatalf("travel time = %v, want 10m", got)
	}
}
