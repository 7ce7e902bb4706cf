package dto

import "time"

type PackageResponse struct {
	PackageID   int        `json:"package_id"`
	Location    string     `json:"location"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	Zip         string     `json:"zip,omitempty"`
	Deadline    string     `json:"deadline"`
	WeightKg    int        `json:"weight_kg"`
	Status      string     `json:"status"`
	VehicleID   *int       `json:"vehicle_id"`
	DeliveredAt *time.Time `json:"delivered_at"`
	Late        bool       `json:"late"`
}

// Miles driven by one vehicle up to the report time.
type VehicleMileage struct {
	VehicleID int     `json:"vehicle_id"`
	Miles     float64 `json:"miles"`
}

type ListPackagesResponse struct {
	RunID      string            `json:"run_id"`
	At         time.Time         `json:"at"`
	Cached     bool              `json:"cached"`
	TotalMiles float64           `json:"total_miles"`
	Vehicles   []VehicleMileage  `json:"vehicles"`
	Packages   []PackageResponse `json:"packages"`
}
