package domain

import (
	"fmt"
	"slices"
)

type VehicleState string

const (
	VehicleIdle    VehicleState = "IDLE"
	VehicleLoaded  VehicleState = "LOADED"
	VehicleEnRoute VehicleState = "EN_ROUTE"
)

// Delivery vehicle reused across trips during one simulated day.
// Load holds the ids of packages currently aboard; Odometer only grows.
type Vehicle struct {
	VehicleID int
	Capacity  int
	SpeedMPH  float64
	Location  string
	State     VehicleState
	Load      []int
	Odometer  float64
	Trips     int
}

func NewVehicle(id int, capacity int, speedMPH float64, hub string) *Vehicle {
	return &Vehicle{
		VehicleID: id,
		Capacity:  capacity,
		SpeedMPH:  speedMPH,
		Location:  hub,
		State:     VehicleIdle,
	}
}

// Load a single package onto the vehicle.
func (v *Vehicle) LoadPackage(id int) error {
	if len(v.Load) >= v.Capacity {
		return fmt.Errorf("load vehicle: vehicle %d is at full capacity (capacity=%d)", v.VehicleID, v.Capacity)
	}
	if slices.Contains(v.Load, id) {
		return fmt.Errorf("load vehicle: vehicle %d already carries package_id=%d", v.VehicleID, id)
	}
	v.Load = append(v.Load, id)
	return nil
}

// Load multiple packages onto the vehicle.
func (v *Vehicle) LoadMultiple(ids []int) error {
	for _, id := range ids {
		if err := v.LoadPackage(id); err != nil {
			return err
		}
	}

	return nil
}

// Remove a delivered package from the load.
func (v *Vehicle) Unload(id int) {
	if i := slices.Index(v.Load, id); i >= 0 {
		v.Load = slices.Delete(v.Load, i, i+1)
	}
}

// Drive a leg, advancing the odometer and moving the vehicle.
func (v *Vehicle) Drive(to string, miles float64) {
	v.Odometer += miles
	v.Location = to
}

type DriverStatus string

const (
	DriverIdle    DriverStatus = "IDLE"
	DriverDriving DriverStatus = "DRIVING"
)

// Driver staffs at most one vehicle at a time.
type Driver struct {
	DriverID  int
	Status    DriverStatus
	VehicleID *int
}

func NewDriver(id int) *Driver {
	return &Driver{DriverID: id, Status: DriverIdle}
}

// Assign the driver to a vehicle. Only an idle driver can be assigned.
func (d *Driver) Assign(vehicleID int) error {
	if d.Status != DriverIdle {
		return fmt.Errorf("assign driver: driver %d is already driving vehicle %d", d.DriverID, *d.VehicleID)
	}
	d.Status = DriverDriving
	d.VehicleID = &vehicleID
	return nil
}

func (d *Driver) Release() {
	d.Status = DriverIdle
	d.VehicleID = nil
}
