package services

import (
	"context"
	"delivery-day-simulator/internal/distance"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"delivery-day-simulator/internal/ports"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type RunDayRequest struct {
	RunID   string
	Fleet   FleetConfig
	Metrics *obs.Metrics
	// Locations carry display addresses for status reports; optional.
	Locations []domain.Location
}

// DayResult is a finished day: the query interface plus its summary.
type DayResult struct {
	*Report
	Summary domain.DaySummary
	State   *SimulationState
	// ExecutionID is unique per call to RunDay, even when a caller reuses
	// a run id.
	ExecutionID string
}

// RunDay plans and simulates one operating day.
//
// Planning-phase failures (unknown locations, constraint conflicts,
// provably unreachable deadlines) abort before any vehicle departs.
// Late deliveries during simulation are collected in the summary instead.
func RunDay(
	ctx context.Context,
	req RunDayRequest,
	pkgs []domain.Package,
	table *distance.Table,
) (_ *DayResult, err error) {
	defer obs.Time(ctx, "services.RunDay")(&err)

	if table == nil {
		return nil, fmt.Errorf("run day: distance table must be non-nil")
	}
	if err := req.Fleet.Validate(); err != nil {
		return nil, fmt.Errorf("run day: %w", err)
	}

	cs, err := ResolveConstraints(pkgs, req.Fleet, table)
	if err != nil {
		return nil, fmt.Errorf("run day: resolve constraints: %w", err)
	}

	if err := CheckFeasibility(pkgs, cs, req.Fleet, table); err != nil {
		return nil, fmt.Errorf("run day: check feasibility: %w", err)
	}

	state, err := NewSimulationState(req.Fleet, pkgs, table, cs, req.Metrics)
	if err != nil {
		return nil, fmt.Errorf("run day: %w", err)
	}

	if err := Simulate(ctx, state); err != nil {
		return nil, fmt.Errorf("run day: simulate: %w", err)
	}

	report := NewReport(state)
	report.sites = indexLocations(req.Locations)
	summary := report.Summary()
	summary.RunID = req.RunID
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}
	summary.StartedAt = req.Fleet.Day.Start
	req.Metrics.ObserveDay(summary.TotalMiles, len(summary.MissedDeadlines))

	log.Info().Int("trips", len(state.Trips)).
		Float64("miles", summary.TotalMiles).
		Int("missed", len(summary.MissedDeadlines)).
		Str("finished", summary.FinishedAt.Format("15:04")).
		Msg("day simulated")

	return &DayResult{Report: report, Summary: summary, State: state, ExecutionID: uuid.NewString()}, nil
}

// LoadAndRunDay reads packages and the distance matrix through the
// repository ports, then runs the day.
func LoadAndRunDay(
	ctx context.Context,
	req RunDayRequest,
	packages ports.PackageRepository,
	distances ports.DistanceRepository,
) (*DayResult, error) {
	var (
		pkgs    []*domain.Package
		locs    []domain.Location
		entries []domain.DistanceEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pkgs, err = packages.ListPackages(gctx)
		if err != nil {
			return fmt.Errorf("load day: list packages: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		locs, err = distances.ListLocations(gctx)
		if err != nil {
			return fmt.Errorf("load day: list locations: %w", err)
		}
		entries, err = distances.ListDistances(gctx)
		if err != nil {
			return fmt.Errorf("load day: list distances: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(locs))
	for _, l := range locs {
		names = append(names, l.Name)
	}
	table, err := distance.NewTable(names, entries)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}

	day := make([]domain.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if strings.TrimSpace(p.Location) == "" {
			return nil, fmt.Errorf("load day: package_id=%d has empty location", p.PackageID)
		}
		day = append(day, *p)
	}

	if req.Locations == nil {
		req.Locations = locs
	}
	return RunDay(ctx, req, day, table)
}
