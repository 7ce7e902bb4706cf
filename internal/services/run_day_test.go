package services

import (
	"context"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePackages struct {
	pkgs []*domain.Package
	err  error
}

func (f fakePackages) ListPackages(context.Context) ([]*domain.Package, error) {
	return f.pkgs, f.err
}

type fakeDistances struct{}

func (fakeDistances) ListLocations(context.Context) ([]domain.Location, error) {
	return []domain.Location{
		{Name: "HUB"},
		{Name: "A", Address: "410 S State St", City: "Salt Lake City", Zip: "84111"},
		{Name: "B"},
		{Name: "C"},
	}, nil
}

func (fakeDistances) ListDistances(context.Context) ([]domain.DistanceEntry, error) {
	return []domain.DistanceEntry{
		{From: "HUB", To: "A", Miles: 1.0},
		{From: "HUB", To: "B", Miles: 2.0},
		{From: "HUB", To: "C", Miles: 1.5},
		{From: "A", To: "B", Miles: 0.8},
		{From: "A", To: "C", Miles: 0.7},
		{From: "B", To: "C", Miles: 0.9},
	}, nil
}

func TestRunDay(t *testing.T) {
	tbl := triangleTable(t)
	metrics := obs.NewMetrics()
	pkgs := []domain.Package{
		due(1, "A", clock(8, 15)),
		due(2, "A", clock(8, 15)),
		eod(3, "C"),
	}

	res, err := RunDay(context.Background(), RunDayRequest{RunID: "day-1", Fleet: testFleet(1, 1, 1), Metrics: metrics}, pkgs, tbl)
	require.NoError(t, err)

	require.Equal(t, "day-1", res.Summary.RunID)
	require.Equal(t, []int{2}, res.MissedDeadlines())
	require.Len(t, res.Summary.MissedDeadlines, 1)
	require.Equal(t, res.TotalMileage(), res.Summary.TotalMiles)
}

func TestRunDayGeneratesRunID(t *testing.T) {
	tbl := triangleTable(t)
	res, err := RunDay(context.Background(), RunDayRequest{Fleet: testFleet(1, 1, 16)}, []domain.Package{eod(1, "A")}, tbl)
	require.NoError(t, err)
	require.NotEmpty(t, res.Summary.RunID)
	require.Equal(t, clock(8, 0), res.Summary.StartedAt)
}

func TestRunDayExecutionIDUniquePerRun(t *testing.T) {
	tbl := triangleTable(t)
	req := RunDayRequest{RunID: "same", Fleet: testFleet(1, 1, 16)}

	first, err := RunDay(context.Background(), req, []domain.Package{eod(1, "A")}, tbl)
	require.NoError(t, err)
	second, err := RunDay(context.Background(), req, []domain.Package{eod(1, "A")}, tbl)
	require.NoError(t, err)

	require.Equal(t, first.Summary.RunID, second.Summary.RunID)
	require.NotEmpty(t, first.ExecutionID)
	require.NotEqual(t, first.ExecutionID, second.ExecutionID)
}

func TestRunDayAbortsBeforeDeparture(t *testing.T) {
	tbl := triangleTable(t)

	grouped := eod(1, "A")
	grouped.Notes.DeliverWith = []int{2, 3}
	_, err := RunDay(context.Background(), RunDayRequest{Fleet: testFleet(1, 1, 2)},
		[]domain.Package{grouped, eod(2, "B"), eod(3, "C")}, tbl)
	require.ErrorIs(t, err, domain.ErrConstraintConflict)

	_, err = RunDay(context.Background(), RunDayRequest{Fleet: testFleet(1, 1, 16)},
		[]domain.Package{due(1, "B", clock(8, 5))}, tbl)
	require.ErrorIs(t, err, domain.ErrDeadlineMiss)
	var miss *domain.DeadlineMissError
	require.True(t, errors.As(err, &miss))
	require.Equal(t, 1, miss.PackageID)

	_, err = RunDay(context.Background(), RunDayRequest{Fleet: testFleet(2, 3, 16)}, []domain.Package{eod(1, "A")}, tbl)
	require.Error(t, err)
}

func TestLoadAndRunDay(t *testing.T) {
	pkgs := []*domain.Package{
		{PackageID: 1, Location: "A", Deadline: clock(17, 0), EndOfDay: true},
		{PackageID: 2, Location: "B", Deadline: clock(10, 30)},
	}

	res, err := LoadAndRunDay(context.Background(), RunDayRequest{Fleet: testFleet(1, 1, 16)}, fakePackages{pkgs: pkgs}, fakeDistances{})
	require.NoError(t, err)
	require.Len(t, res.Trips(), 1)
	snaps := res.StatusAt(clock(17, 0))
	for _, snap := range snaps {
		require.Equal(t, domain.StatusDelivered, snap.Status)
	}
	require.Equal(t, "410 S State St", snaps[0].Address)
	require.Equal(t, "Salt Lake City", snaps[0].City)
	require.Equal(t, "84111", snaps[0].Zip)
	require.Empty(t, snaps[1].Address)

	boom := errors.New("boom")
	_, err = LoadAndRunDay(context.Background(), RunDayRequest{Fleet: testFleet(1, 1, 16)}, fakePackages{err: boom}, fakeDistances{})
	require.ErrorIs(t, err, boom)
}

func TestFleetConfigValidateDrivers(t *testing.T) {
	tests := []struct {
		vehicles, drivers int
		ok                bool
	}{
		{3, 2, true},
		{1, 1, true},
		{2, 2, true},
		{2, 3, false},
		{2, 0, false},
	}
	for _, tc := range tests {
		err := testFleet(tc.vehicles, tc.drivers, 16).Validate()
		if tc.ok {
			require.NoError(t, err, "vehicles=%d drivers=%d", tc.vehicles, tc.drivers)
		} else {
			require.Error(t, err, "vehicles=%d drivers=%d", tc.vehicles, tc.drivers)
		}
	}
}
