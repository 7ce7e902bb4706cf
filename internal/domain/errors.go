package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sentinels matched with errors.Is. The typed errors below unwrap to them.
var (
	ErrLookup             = errors.New("unknown location")
	ErrKeyNotFound        = errors.New("package not found")
	ErrConstraintConflict = errors.New("constraint conflict")
	ErrDeadlineMiss       = errors.New("deadline cannot be met")
)

// LookupError reports a distance lookup involving an unknown location.
type LookupError struct {
	From string
	To   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("distance lookup %q -> %q: %v", e.From, e.To, ErrLookup)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

// KeyNotFoundError reports a package id absent from the store.
type KeyNotFoundError struct {
	PackageID int
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("package_id=%d: %v", e.PackageID, ErrKeyNotFound)
}

func (e *KeyNotFoundError) Unwrap() error { return ErrKeyNotFound }

// ConstraintConflictError reports an unsatisfiable grouping, capacity or
// vehicle restriction. It is fatal and aborts planning.
type ConstraintConflictError struct {
	PackageIDs []int
	Reason     string
}

func (e *ConstraintConflictError) Error() string {
	ids := make([]string, 0, len(e.PackageIDs))
	for _, id := range e.PackageIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	return fmt.Sprintf("%v: packages [%s]: %s", ErrConstraintConflict, strings.Join(ids, ","), e.Reason)
}

func (e *ConstraintConflictError) Unwrap() error { return ErrConstraintConflict }

// DeadlineMissError reports a package that cannot reach its stop before
// its deadline even on a direct trip leaving the moment it is available.
type DeadlineMissError struct {
	PackageID      int
	AvailableAfter time.Time
	EarliestArrive time.Time
	Deadline       time.Time
}

func (e *DeadlineMissError) Error() string {
	return fmt.Sprintf(
		"package_id=%d: %v: available=%s earliest_arrival=%s deadline=%s",
		e.PackageID, ErrDeadlineMiss,
		e.AvailableAfter.Format("15:04"), e.EarliestArrive.Format("15:04"), e.Deadline.Format("15:04"),
	)
}

func (e *DeadlineMissError) Unwrap() error { return ErrDeadlineMiss }

// MissedDeadline is a non-fatal simulation event: the package was
// delivered, but after its deadline.
type MissedDeadline struct {
	PackageID   int
	VehicleID   int
	Deadline    time.Time
	DeliveredAt time.Time
}
