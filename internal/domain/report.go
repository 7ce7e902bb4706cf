package domain

import "time"

// Point-in-time view of one package, as shown in a status report.
type PackageSnapshot struct {
	PackageID   int
	Location    string
	Address     string
	City        string
	Zip         string
	Deadline    string
	WeightKg    int
	Status      Status
	VehicleID   *int
	DeliveredAt *time.Time
	Late        bool
}

// Outcome of one simulated day.
type DaySummary struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	TotalMiles      float64
	TripsPerVehicle map[int]int
	MilesPerVehicle map[int]float64
	MissedDeadlines []MissedDeadline
}
