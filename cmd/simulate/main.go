package main

import (
	"context"
	"delivery-day-simulator/internal/adapters/repositories"
	"delivery-day-simulator/internal/config"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"delivery-day-simulator/internal/services"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
)

// simulate runs one day from a seed file without a database and prints
// the package status table, the trips and the day summary.
func main() {
	config.Load()

	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/packages.json"), "seed JSON file")
	fleetPath := flag.String("fleet", config.Get("FLEET_CONFIG", "configs/fleet.yaml"), "fleet YAML file")
	at := flag.String("at", "", "report package status at this clock time (HH:MM); defaults to end of day")
	returnToHub := flag.Bool("return-to-hub", false, "send every vehicle back to the hub after its last trip")
	runID := flag.String("run-id", "", "run id; generated when empty")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := config.Get("LOG_LEVEL", "warn")
	if *verbose {
		level = "debug"
	}
	obs.SetupLogger(level, true)

	if err := run(context.Background(), os.Stdout, *seedPath, *fleetPath, *at, *runID, *returnToHub); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
}

func run(ctx context.Context, w io.Writer, seedPath, fleetPath, at, runID string, returnToHub bool) error {
	fleetFile, err := config.LoadFleet(fleetPath)
	if err != nil {
		return err
	}
	if returnToHub {
		fleetFile.ReturnToHub = true
	}

	fleet, err := fleetFile.FleetConfig(time.Now())
	if err != nil {
		return err
	}

	seed, err := repositories.LoadSeed(seedPath)
	if err != nil {
		return err
	}
	repo := repositories.NewSeedRepository(seed, fleet.Day)

	req := services.RunDayRequest{RunID: runID, Fleet: fleet}
	result, err := services.LoadAndRunDay(ctx, req, repo, repo)
	if err != nil {
		return err
	}

	reportAt := fleet.Day.End
	if at != "" {
		if reportAt, err = fleet.Day.Clock(at); err != nil {
			return fmt.Errorf("simulate: -at: %w", err)
		}
	}

	printStatus(w, reportAt, result.StatusAt(reportAt))
	printMileage(w, reportAt, result.MileageAt(reportAt))
	printTrips(w, result.Trips())
	printSummary(w, result.Summary)
	return nil
}

func printStatus(w io.Writer, at time.Time, snaps []domain.PackageSnapshot) {
	fmt.Fprintf(w, "Package status at %s\n\n", at.Format("15:04"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOCATION\tADDRESS\tDEADLINE\tKG\tSTATUS\tVEHICLE\tDELIVERED")
	for _, s := range snaps {
		vehicle, delivered := "-", "-"
		if s.VehicleID != nil {
			vehicle = fmt.Sprint(*s.VehicleID)
		}
		if s.DeliveredAt != nil {
			delivered = s.DeliveredAt.Format("15:04")
			if s.Late {
				delivered += " LATE"
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			s.PackageID, s.Location, address(s), s.Deadline, s.WeightKg, s.Status, vehicle, delivered)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func address(s domain.PackageSnapshot) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Address, s.City, s.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func printMileage(w io.Writer, at time.Time, miles map[int]float64) {
	vehicles := make([]int, 0, len(miles))
	total := 0.0
	for id, m := range miles {
		vehicles = append(vehicles, id)
		total += m
	}
	sort.Ints(vehicles)

	fmt.Fprintf(w, "Mileage at %s: total %.1f mi\n", at.Format("15:04"), total)
	for _, id := range vehicles {
		fmt.Fprintf(w, "  vehicle %d: %.1f mi\n", id, miles[id])
	}
	fmt.Fprintln(w)
}

func printTrips(w io.Writer, trips []*domain.Trip) {
	fmt.Fprintln(w, "Trips")
	fmt.Fprintln(w)

	for _, t := range trips {
		ret := "ends at last stop"
		if t.ReturnAt != nil {
			ret = "back at hub " + t.ReturnAt.Format("15:04")
		}
		fmt.Fprintf(w, "trip %d  vehicle %d  driver %d  departs %s  %.1f mi  %s\n",
			t.TripID, t.VehicleID, t.DriverID, t.DepartAt.Format("15:04"), t.Miles, ret)

		for _, s := range t.Stops {
			ids := make([]string, 0, len(s.PackageIDs))
			for _, id := range s.PackageIDs {
				ids = append(ids, fmt.Sprint(id))
			}
			fmt.Fprintf(w, "    %s  %-45s  +%.1f mi  [%s]\n",
				s.ArriveAt.Format("15:04"), s.Location, s.LegMiles, strings.Join(ids, " "))
		}
	}
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, sum domain.DaySummary) {
	fmt.Fprintf(w, "Run %s\n", sum.RunID)
	fmt.Fprintf(w, "Finished %s  total %.1f mi\n", sum.FinishedAt.Format("15:04"), sum.TotalMiles)

	vehicles := make([]int, 0, len(sum.MilesPerVehicle))
	for id := range sum.MilesPerVehicle {
		vehicles = append(vehicles, id)
	}
	sort.Ints(vehicles)
	for _, id := range vehicles {
		fmt.Fprintf(w, "  vehicle %d: %d trips, %.1f mi\n", id, sum.TripsPerVehicle[id], sum.MilesPerVehicle[id])
	}

	if len(sum.MissedDeadlines) == 0 {
		fmt.Fprintln(w, "All deadlines met")
		return
	}
	for _, m := range sum.MissedDeadlines {
		fmt.Fprintf(w, "  MISSED package %d (vehicle %d): due %s, delivered %s\n",
			m.PackageID, m.VehicleID, m.Deadline.Format("15:04"), m.DeliveredAt.Format("15:04"))
	}
}
