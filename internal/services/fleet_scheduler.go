package services

import (
	"container/heap"
	"context"
	"delivery-day-simulator/internal/domain"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

type eventKind int

const (
	eventStopArrival eventKind = iota
	eventHubReturn
	eventAvailable
)

type event struct {
	at   time.Time
	seq  int
	kind eventKind
	trip *domain.Trip
	stop int
}

// eventQueue is a min-heap on (time, insertion sequence).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if c := q[i].at.Compare(q[j].at); c != 0 {
		return c < 0
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

func (s *SimulationState) schedule(e *event) {
	s.eventSeq++
	e.seq = s.eventSeq
	heap.Push(&s.events, e)
}

// Simulate runs the day to completion on the state's simulated clock.
//
// The clock jumps from event to event: stop arrivals, returns to the hub and
// the moments delayed packages become loadable. After each batch of
// simultaneous events, idle vehicles at the hub are loaded and idle drivers
// are handed to loaded vehicles.
func Simulate(ctx context.Context, s *SimulationState) error {
	thresholds := make(map[time.Time]struct{})
	for _, id := range s.PendingIDs() {
		c, _ := s.Constraints.Get(id)
		if c.AvailableAfter.After(s.Fleet.Day.Start) {
			thresholds[c.AvailableAfter] = struct{}{}
		}
	}
	for at := range thresholds {
		s.schedule(&event{at: at, kind: eventAvailable})
	}

	s.Clock = s.Fleet.Day.Start
	if err := s.dispatch(); err != nil {
		return err
	}

	for s.events.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		e := heap.Pop(&s.events).(*event)
		s.Clock = e.at
		if err := s.handle(e); err != nil {
			return err
		}
		for s.events.Len() > 0 && s.events[0].at.Equal(s.Clock) {
			if err := s.handle(heap.Pop(&s.events).(*event)); err != nil {
				return err
			}
		}

		if err := s.dispatch(); err != nil {
			return err
		}
	}

	if len(s.pending) > 0 || len(s.active) > 0 {
		return fmt.Errorf("simulate: stalled at %s with %d unassigned packages and %d open trips",
			s.Clock.Format("15:04"), len(s.pending), len(s.active))
	}
	return nil
}

func (s *SimulationState) handle(e *event) error {
	switch e.kind {
	case eventStopArrival:
		return s.arrive(e.trip, e.stop)
	case eventHubReturn:
		return s.returnToHub(e.trip)
	case eventAvailable:
		log.Debug().Str("at", e.at.Format("15:04")).Msg("packages became available")
	}
	return nil
}

// dispatch loads every idle vehicle at the hub, then staffs loaded vehicles
// with idle drivers, most urgent load first.
func (s *SimulationState) dispatch() error {
	for _, v := range s.Vehicles {
		if v.State != domain.VehicleIdle || !s.atHub(v) {
			continue
		}

		trip, err := PlanTrip(s, v, s.Clock)
		if err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
		if trip == nil {
			continue
		}
		if err := s.load(v, trip); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
	}

	for {
		d := s.idleDriver()
		if d == nil {
			return nil
		}
		v := s.mostUrgentLoaded()
		if v == nil {
			return nil
		}
		if err := s.depart(v, d); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
	}
}

func (s *SimulationState) load(v *domain.Vehicle, trip *domain.Trip) error {
	if err := v.LoadMultiple(trip.PackageIDs); err != nil {
		return err
	}
	vid := v.VehicleID
	for _, id := range trip.PackageIDs {
		delete(s.pending, id)
		if err := s.Packages.Update(id, func(p *domain.Package) { p.VehicleID = &vid }); err != nil {
			return err
		}
	}
	v.State = domain.VehicleLoaded
	s.active[v.VehicleID] = trip
	return nil
}

func (s *SimulationState) idleDriver() *domain.Driver {
	for _, d := range s.Drivers {
		if d.Status == domain.DriverIdle {
			return d
		}
	}
	return nil
}

// mostUrgentLoaded picks the waiting vehicle holding the earliest deadline;
// ties go to the lower vehicle id.
func (s *SimulationState) mostUrgentLoaded() *domain.Vehicle {
	var best *domain.Vehicle
	var bestDue time.Time
	for _, v := range s.Vehicles {
		if v.State != domain.VehicleLoaded {
			continue
		}
		due := s.Fleet.Day.End
		for _, id := range v.Load {
			if pkg, err := s.Packages.Lookup(id); err == nil && pkg.Deadline.Before(due) {
				due = pkg.Deadline
			}
		}
		if best == nil || due.Before(bestDue) {
			best, bestDue = v, due
		}
	}
	return best
}

func (s *SimulationState) depart(v *domain.Vehicle, d *domain.Driver) error {
	trip := s.active[v.VehicleID]
	if trip == nil {
		return fmt.Errorf("depart: vehicle %d has no loaded trip", v.VehicleID)
	}
	if err := d.Assign(v.VehicleID); err != nil {
		return fmt.Errorf("depart: %w", err)
	}

	now := s.Clock
	trip.DriverID = d.DriverID
	trip.DepartAt = now
	v.State = domain.VehicleEnRoute
	v.Trips++

	for _, id := range trip.PackageIDs {
		err := s.Packages.Update(id, func(p *domain.Package) {
			p.Status = domain.StatusEnRoute
			p.LoadedAt = &now
		})
		if err != nil {
			return fmt.Errorf("depart: %w", err)
		}
	}

	cumulative := 0.0
	for i := range trip.Stops {
		cumulative += trip.Stops[i].LegMiles
		trip.Stops[i].ArriveAt = now.Add(travelTime(cumulative, v.SpeedMPH))
		s.schedule(&event{at: trip.Stops[i].ArriveAt, kind: eventStopArrival, trip: trip, stop: i})
	}

	s.Trips = append(s.Trips, trip)
	s.metrics.ObserveTrip(v.VehicleID, len(trip.PackageIDs))

	log.Debug().
		Int("trip", trip.TripID).
		Int("vehicle", v.VehicleID).
		Int("driver", d.DriverID).
		Int("packages", len(trip.PackageIDs)).
		Str("depart", now.Format("15:04")).
		Msg("trip departed")
	return nil
}

func (s *SimulationState) arrive(trip *domain.Trip, i int) error {
	v := s.vehicle(trip.VehicleID)
	stop := trip.Stops[i]
	v.Drive(stop.Location, stop.LegMiles)

	for _, id := range stop.PackageIDs {
		at := stop.ArriveAt
		var pkg domain.Package
		err := s.Packages.Update(id, func(p *domain.Package) {
			p.Status = domain.StatusDelivered
			p.DeliveredAt = &at
			pkg = *p
		})
		if err != nil {
			return fmt.Errorf("arrive: %w", err)
		}
		v.Unload(id)

		late := at.After(pkg.Deadline)
		if late {
			s.Missed = append(s.Missed, domain.MissedDeadline{
				PackageID:   id,
				VehicleID:   v.VehicleID,
				Deadline:    pkg.Deadline,
				DeliveredAt: at,
			})
			log.Warn().
				Int("package", id).
				Int("vehicle", v.VehicleID).
				Str("deadline", pkg.Deadline.Format("15:04")).
				Str("delivered", at.Format("15:04")).
				Msg("missed deadline")
		}
		s.metrics.ObserveDelivery(!late)
	}

	if i < len(trip.Stops)-1 {
		return nil
	}

	if s.Fleet.ReturnToHub || s.workRemains() {
		back := trip.DepartAt.Add(travelTime(trip.DeliveryMiles()+trip.ReturnLeg, v.SpeedMPH))
		s.schedule(&event{at: back, kind: eventHubReturn, trip: trip})
		return nil
	}

	// Nothing left to carry: the trip ends at the last stop.
	trip.ReturnLeg = 0
	s.finish(v, trip)
	return nil
}

func (s *SimulationState) returnToHub(trip *domain.Trip) error {
	v := s.vehicle(trip.VehicleID)
	v.Drive(s.Fleet.Hub, trip.ReturnLeg)
	at := s.Clock
	trip.ReturnAt = &at
	s.finish(v, trip)
	return nil
}

func (s *SimulationState) finish(v *domain.Vehicle, trip *domain.Trip) {
	trip.Miles = trip.DeliveryMiles() + trip.ReturnLeg
	v.State = domain.VehicleIdle
	delete(s.active, v.VehicleID)

	for _, d := range s.Drivers {
		if d.VehicleID != nil && *d.VehicleID == v.VehicleID {
			d.Release()
		}
	}
	s.metrics.ObserveMiles(v.VehicleID, trip.Miles)
}

// workRemains reports whether any package still needs a trip or a loaded
// vehicle is waiting for a driver, so the driver has to come back.
func (s *SimulationState) workRemains() bool {
	if len(s.pending) > 0 {
		return true
	}
	return slices.ContainsFunc(s.Vehicles, func(v *domain.Vehicle) bool {
		return v.State == domain.VehicleLoaded
	})
}
