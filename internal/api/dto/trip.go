package dto

import "time"

type RunRequest struct {
	RunID       string `json:"run_id"`
	ReturnToHub *bool  `json:"return_to_hub"`
}

type TripStopResponse struct {
	Location   string    `json:"location"`
	ArriveAt   time.Time `json:"arrive_at"`
	LegMiles   float64   `json:"leg_miles"`
	PackageIDs []int     `json:"package_ids"`
}

type TripResponse struct {
	TripID    int                `json:"trip_id"`
	VehicleID int                `json:"vehicle_id"`
	DriverID  int                `json:"driver_id"`
	DepartAt  time.Time          `json:"depart_at"`
	ReturnAt  *time.Time         `json:"return_at"`
	Miles     float64            `json:"miles"`
	Stops     []TripStopResponse `json:"stops"`
}

type ListTripsResponse struct {
	RunID string         `json:"run_id"`
	Trips []TripResponse `json:"trips"`
}

type VehicleSummary struct {
	VehicleID int     `json:"vehicle_id"`
	Trips     int     `json:"trips"`
	Miles     float64 `json:"miles"`
}

type MissedDeadlineResponse struct {
	PackageID   int       `json:"package_id"`
	VehicleID   int       `json:"vehicle_id"`
	Deadline    time.Time `json:"deadline"`
	DeliveredAt time.Time `json:"delivered_at"`
}

type SummaryResponse struct {
	RunID           string                   `json:"run_id"`
	StartedAt       time.Time                `json:"started_at"`
	FinishedAt      time.Time                `json:"finished_at"`
	TotalMiles      float64                  `json:"total_miles"`
	Vehicles        []VehicleSummary         `json:"vehicles"`
	MissedDeadlines []MissedDeadlineResponse `json:"missed_deadlines"`
}
