package ports

import (
	"context"
	"delivery-day-simulator/internal/domain"
	"time"
)

// Optional cache for point-in-time status reports of a finished run.
// execID identifies one execution of a day, never a reusable run id.
type ReportCache interface {
	GetStatus(ctx context.Context, execID string, at time.Time) ([]domain.PackageSnapshot, bool, error)
	PutStatus(ctx context.Context, execID string, at time.Time, snaps []domain.PackageSnapshot) error
}

// Persists the outcome of a simulated day.
type RunRecorder interface {
	SaveRun(ctx context.Context, summary domain.DaySummary, deliveries []domain.PackageSnapshot) error
}
