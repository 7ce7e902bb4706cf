package domain

import "time"

type ConstraintKind string

const (
	GroupWith         ConstraintKind = "GROUP_WITH"
	VehicleRestricted ConstraintKind = "VEHICLE_RESTRICTED"
	AvailableAfter    ConstraintKind = "AVAILABLE_AFTER"
	Independent       ConstraintKind = "INDEPENDENT"
)

// Normalized routing constraint for one package.
// Group lists every member of the package's cluster (itself included) or is
// nil. VehicleID is 0 when unrestricted. AvailableAfter is the zero time
// when the package is loadable at the start of the day. Location is the
// effective delivery location after any address correction.
type Constraint struct {
	PackageID      int
	Group          []int
	VehicleID      int
	AvailableAfter time.Time
	Location       string
}

// Kinds lists the constraint facets that apply, or Independent.
func (c Constraint) Kinds() []ConstraintKind {
	var kinds []ConstraintKind
	if len(c.Group) > 1 {
		kinds = append(kinds, GroupWith)
	}
	if c.VehicleID != 0 {
		kinds = append(kinds, VehicleRestricted)
	}
	if !c.AvailableAfter.IsZero() {
		kinds = append(kinds, AvailableAfter)
	}
	if len(kinds) == 0 {
		return []ConstraintKind{Independent}
	}
	return kinds
}

// AvailableAt reports whether the package may be loaded at t.
func (c Constraint) AvailableAt(t time.Time) bool {
	return c.AvailableAfter.IsZero() || !t.Before(c.AvailableAfter)
}
