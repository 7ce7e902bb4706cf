package domain

import "time"

// Represents a single stop in a trip.
// A RouteStop corresponds to arriving at a specific location at a computed time,
// and delivering one or more packages associated with that location.
type RouteStop struct {
	Location   string
	ArriveAt   time.Time
	PackageIDs []int
	LegMiles   float64
}

// Represents one vehicle's run from the hub.
// The route planner fills in the stop order and leg mileage; the fleet
// scheduler fills in the driver and all timestamps when it executes the trip.
type Trip struct {
	TripID     int
	VehicleID  int
	DriverID   int
	DepartAt   time.Time
	Stops      []RouteStop
	ReturnAt   *time.Time
	ReturnLeg  float64
	Miles      float64
	PackageIDs []int
}

// DeliveryMiles is the mileage from the hub to the last stop.
func (t *Trip) DeliveryMiles() float64 {
	total := 0.0
	for _, s := range t.Stops {
		total += s.LegMiles
	}
	return total
}
