package services

import (
	"delivery-day-simulator/internal/distance"
	"delivery-day-simulator/internal/domain"
	"errors"
	"fmt"
	"slices"
	"time"
)

// ConstraintSet is the normalized constraint mapping consumed by the
// route planner. Clusters lists every GroupWith cluster with members in
// ascending id order; clusters are ordered by their lowest member.
type ConstraintSet struct {
	byID     map[int]domain.Constraint
	Clusters [][]int
}

func (cs *ConstraintSet) Get(id int) (domain.Constraint, bool) {
	c, ok := cs.byID[id]
	return c, ok
}

func (cs *ConstraintSet) Len() int { return len(cs.byID) }

// disjoint-set over package ids
type unionFind map[int]int

func (u unionFind) find(x int) int {
	for u[x] != x {
		u[x] = u[u[x]]
		x = u[x]
	}
	return x
}

func (u unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u[rb] = ra
}

// ResolveConstraints expands the raw package notes into a ConstraintSet.
//
// Deliver-with references are treated as symmetric and transitive, so each
// package belongs to at most one cluster. A cluster inherits the latest
// availability time and the vehicle restriction of its members. Address
// corrections replace the delivery location and make the package available
// only once the correction is known.
func ResolveConstraints(pkgs []domain.Package, fleet FleetConfig, table *distance.Table) (*ConstraintSet, error) {
	byID := make(map[int]domain.Package, len(pkgs))
	ids := make([]int, 0, len(pkgs))
	for _, p := range pkgs {
		if p.PackageID <= 0 {
			return nil, &domain.ConstraintConflictError{PackageIDs: []int{p.PackageID}, Reason: "package id must be positive"}
		}
		if _, dup := byID[p.PackageID]; dup {
			return nil, &domain.ConstraintConflictError{PackageIDs: []int{p.PackageID}, Reason: "duplicate package id"}
		}
		byID[p.PackageID] = p
		ids = append(ids, p.PackageID)
	}
	slices.Sort(ids)

	uf := make(unionFind, len(ids))
	for _, id := range ids {
		uf[id] = id
	}
	for _, id := range ids {
		for _, other := range byID[id].Notes.DeliverWith {
			if other == id {
				continue
			}
			if _, ok := byID[other]; !ok {
				return nil, &domain.ConstraintConflictError{
					PackageIDs: []int{id, other},
					Reason:     fmt.Sprintf("deliver-with references unknown package %d", other),
				}
			}
			uf.union(id, other)
		}
	}

	out := &ConstraintSet{byID: make(map[int]domain.Constraint, len(ids))}
	for _, id := range ids {
		p := byID[id]
		c := domain.Constraint{PackageID: id, Location: p.Location}

		if p.Notes.ArrivesAt != nil && p.Notes.ArrivesAt.After(fleet.Day.Start) {
			c.AvailableAfter = *p.Notes.ArrivesAt
		}
		if corr := p.Notes.Correction; corr != nil {
			c.Location = corr.Location
			if corr.At.After(fleet.Day.Start) && corr.At.After(c.AvailableAfter) {
				c.AvailableAfter = corr.At
			}
		}
		if !table.Has(c.Location) {
			return nil, fmt.Errorf("resolve constraints: package_id=%d: %w", id, &domain.LookupError{From: fleet.Hub, To: c.Location})
		}

		if v := p.Notes.VehicleOnly; v != 0 {
			if v < 1 || v > fleet.Vehicles {
				return nil, &domain.ConstraintConflictError{
					PackageIDs: []int{id},
					Reason:     fmt.Sprintf("restricted to vehicle %d but the fleet has %d vehicles", v, fleet.Vehicles),
				}
			}
			c.VehicleID = v
		}
		out.byID[id] = c
	}

	members := make(map[int][]int)
	for _, id := range ids {
		root := uf.find(id)
		members[root] = append(members[root], id)
	}

	roots := make([]int, 0, len(members))
	for root, m := range members {
		if len(m) > 1 {
			roots = append(roots, root)
		}
	}
	slices.Sort(roots)

	for _, root := range roots {
		group := members[root]
		if len(group) > fleet.Capacity {
			return nil, &domain.ConstraintConflictError{
				PackageIDs: group,
				Reason:     fmt.Sprintf("group of %d exceeds vehicle capacity %d", len(group), fleet.Capacity),
			}
		}

		pin := 0
		var avail time.Time
		for _, id := range group {
			c := out.byID[id]
			if c.VehicleID != 0 {
				if pin != 0 && pin != c.VehicleID {
					return nil, &domain.ConstraintConflictError{
						PackageIDs: group,
						Reason:     fmt.Sprintf("group members restricted to vehicles %d and %d", pin, c.VehicleID),
					}
				}
				pin = c.VehicleID
			}
			if c.AvailableAfter.After(avail) {
				avail = c.AvailableAfter
			}
		}

		for _, id := range group {
			c := out.byID[id]
			c.Group = group
			c.VehicleID = pin
			c.AvailableAfter = avail
			out.byID[id] = c
		}
		out.Clusters = append(out.Clusters, group)
	}

	return out, nil
}

// CheckFeasibility reports every package that cannot reach its stop by its
// deadline even when driven there directly the moment it becomes
// available. The returned error joins one *domain.DeadlineMissError per
// package, in id order.
func CheckFeasibility(pkgs []domain.Package, cs *ConstraintSet, fleet FleetConfig, table *distance.Table) error {
	sorted := slices.Clone(pkgs)
	slices.SortFunc(sorted, func(a, b domain.Package) int { return a.PackageID - b.PackageID })

	var errs []error
	for _, p := range sorted {
		c, ok := cs.Get(p.PackageID)
		if !ok {
			return &domain.KeyNotFoundError{PackageID: p.PackageID}
		}

		start := fleet.Day.Start
		if c.AvailableAfter.After(start) {
			start = c.AvailableAfter
		}

		miles, err := table.Distance(fleet.Hub, c.Location)
		if err != nil {
			return fmt.Errorf("check feasibility: package_id=%d: %w", p.PackageID, err)
		}

		earliest := start.Add(travelTime(miles, fleet.SpeedMPH))
		if earliest.After(p.Deadline) {
			errs = append(errs, &domain.DeadlineMissError{
				PackageID:      p.PackageID,
				AvailableAfter: start,
				EarliestArrive: earliest,
				Deadline:       p.Deadline,
			})
		}
	}

	return errors.Join(errs...)
}

// travelTime converts miles at a constant speed into a duration rounded
// to the second.
func travelTime(miles, speedMPH float64) time.Duration {
	if speedMPH <= 0 {
		return 0
	}
	return time.Duration(miles / speedMPH * float64(time.Hour)).Round(time.Second)
}
