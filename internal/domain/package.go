package domain

import (
	"fmt"
	"strings"
	"time"
)

// Delivery status of a package during the simulated day.
type Status string

const (
	StatusAtHub     Status = "AT_HUB"
	StatusEnRoute   Status = "EN_ROUTE"
	StatusDelivered Status = "DELIVERED"
)

// Wrong-address fix that becomes known at a fixed time of day.
type AddressCorrection struct {
	At       time.Time
	Location string
}

// Raw special notes attached to a package at load time.
// The constraint resolver turns them into a normalized Constraint.
type Notes struct {
	DeliverWith []int
	VehicleOnly int // 0 when unrestricted
	ArrivesAt   *time.Time
	Correction  *AddressCorrection
}

// Represents a single delivery unit handled by the system.
// A Package has a unique identifier and a single delivery location.
// Status, vehicle and timestamps are populated during simulation after a
// trip containing the package has been planned and executed.
type Package struct {
	PackageID   int
	Location    string
	Deadline    time.Time
	EndOfDay    bool
	WeightKg    int
	Notes       Notes
	Status      Status
	VehicleID   *int
	LoadedAt    *time.Time
	DeliveredAt *time.Time
}

// DeadlineLabel renders the deadline the way the package list shows it.
func (p Package) DeadlineLabel() string {
	if p.EndOfDay {
		return "EOD"
	}
	return p.Deadline.Format("15:04")
}

// StatusAt derives the package status at t from its recorded timestamps.
func (p Package) StatusAt(t time.Time) Status {
	switch {
	case p.DeliveredAt != nil && !t.Before(*p.DeliveredAt):
		return StatusDelivered
	case p.LoadedAt != nil && !t.Before(*p.LoadedAt):
		return StatusEnRoute
	default:
		return StatusAtHub
	}
}

// LocationAt returns the address known for the package at t. Before an
// address correction takes effect the original (wrong) address applies.
func (p Package) LocationAt(t time.Time) string {
	c := p.Notes.Correction
	if c == nil {
		return p.Location
	}
	if t.Before(c.At) {
		return p.Location
	}
	return c.Location
}

// Late reports whether the package was delivered after its deadline.
func (p Package) Late() bool {
	return p.DeliveredAt != nil && p.DeliveredAt.After(p.Deadline)
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// ClockAt anchors a time of day ("10:30", "10:30:00" or "10:30 AM") on
// the given day.
func ClockAt(day time.Time, clock string) (time.Time, error) {
	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range clockLayouts {
		c, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		y, mo, d := day.Date()
		return time.Date(y, mo, d, c.Hour(), c.Minute(), c.Second(), 0, day.Location()), nil
	}
	return time.Time{}, fmt.Errorf("parse clock %q: unsupported format", clock)
}

// ParseDeadline parses "EOD" or an "HH:MM" deadline for the given day.
// End-of-day deadlines resolve to dayEnd.
func ParseDeadline(day time.Time, dayEnd time.Time, s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "EOD") {
		return dayEnd, true, nil
	}
	t, err := ClockAt(day, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse deadline: %w", err)
	}
	return t, false, nil
}
