package config

import (
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/services"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fleet is the on-disk shape of a simulated day's fleet settings.
type Fleet struct {
	Hub         string  `yaml:"hub"`
	Vehicles    int     `yaml:"vehicles"`
	Drivers     int     `yaml:"drivers"`
	Capacity    int     `yaml:"capacity"`
	SpeedMPH    float64 `yaml:"speed_mph"`
	Date        string  `yaml:"date"`
	DayStart    string  `yaml:"day_start"`
	DayEnd      string  `yaml:"day_end"`
	ReturnToHub bool    `yaml:"return_to_hub"`
}

// DefaultFleet is three vehicles, two drivers, sixteen packages per load at
// 18 mph, from 08:00 to 17:00.
func DefaultFleet() Fleet {
	return Fleet{
		Hub:      "Western Governors University",
		Vehicles: 3,
		Drivers:  2,
		Capacity: 16,
		SpeedMPH: 18,
		DayStart: "08:00",
		DayEnd:   "17:00",
	}
}

// LoadFleet reads a YAML fleet file. Missing fields keep their defaults.
// An empty path returns the defaults.
func LoadFleet(path string) (Fleet, error) {
	f := DefaultFleet()
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Fleet{}, fmt.Errorf("load fleet: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fleet{}, fmt.Errorf("load fleet: parse %q: %w", path, err)
	}
	return f, nil
}

// ServiceDay anchors the configured clock times on the configured date,
// or on today when no date is set.
func (f Fleet) ServiceDay(now time.Time) (domain.ServiceDay, error) {
	date := now
	if f.Date != "" {
		d, err := time.ParseInLocation(time.DateOnly, f.Date, now.Location())
		if err != nil {
			return domain.ServiceDay{}, fmt.Errorf("fleet date %q: %w", f.Date, err)
		}
		date = d
	}
	return domain.NewServiceDay(date, f.DayStart, f.DayEnd)
}

// FleetConfig converts the file settings into a validated services.FleetConfig.
func (f Fleet) FleetConfig(now time.Time) (services.FleetConfig, error) {
	day, err := f.ServiceDay(now)
	if err != nil {
		return services.FleetConfig{}, fmt.Errorf("fleet config: %w", err)
	}

	fc := services.FleetConfig{
		Hub:         f.Hub,
		Vehicles:    f.Vehicles,
		Drivers:     f.Drivers,
		Capacity:    f.Capacity,
		SpeedMPH:    f.SpeedMPH,
		Day:         day,
		ReturnToHub: f.ReturnToHub,
	}
	if err := fc.Validate(); err != nil {
		return services.FleetConfig{}, err
	}
	return fc, nil
}
