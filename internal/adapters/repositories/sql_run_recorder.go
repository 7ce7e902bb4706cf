package repositories

import (
	"context"
	"database/sql"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"errors"
	"fmt"
	"time"
)

// SQLRunRecorder stores the summary of each simulated day and the
// delivery time of every package.
type SQLRunRecorder struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRunRecorder(db *sql.DB, dialect Dialect) *SQLRunRecorder {
	return &SQLRunRecorder{DB: db, Dialect: dialect}
}

// RunRecord is a stored run header.
type RunRecord struct {
	RunID           string
	StartedAt       string
	FinishedAt      string
	TotalMiles      float64
	MissedDeadlines int
}

// SaveRun replaces any earlier record with the same run id.
func (s *SQLRunRecorder) SaveRun(
	ctx context.Context,
	summary domain.DaySummary,
	deliveries []domain.PackageSnapshot,
) (err error) {
	defer obs.Time(ctx, "runs.repo.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("run recorder: db is nil")
	}
	if summary.RunID == "" {
		return errors.New("save run: run id must not be empty")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, s.Dialect.rebind(`
	INSERT INTO runs (run_id, started_at, finished_at, total_miles, missed_deadlines)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (run_id) DO UPDATE
	SET started_at = excluded.started_at,
		finished_at = excluded.finished_at,
		total_miles = excluded.total_miles,
		missed_deadlines = excluded.missed_deadlines;
	`),
		summary.RunID,
		summary.StartedAt.Format(time.RFC3339),
		summary.FinishedAt.Format(time.RFC3339),
		summary.TotalMiles,
		len(summary.MissedDeadlines),
	)
	if err != nil {
		return fmt.Errorf("save run %q: insert run: %w", summary.RunID, err)
	}

	if _, err := tx.ExecContext(ctx, s.Dialect.rebind(`DELETE FROM run_deliveries WHERE run_id = ?;`), summary.RunID); err != nil {
		return fmt.Errorf("save run %q: clear deliveries: %w", summary.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.Dialect.rebind(`
	INSERT INTO run_deliveries (run_id, package_id, vehicle_id, delivered_at, late)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save run %q: db prepare: %w", summary.RunID, err)
	}
	defer stmt.Close()

	for _, d := range deliveries {
		if d.DeliveredAt == nil || d.VehicleID == nil {
			continue
		}
		late := 0
		if d.Late {
			late = 1
		}
		_, err := stmt.ExecContext(ctx, summary.RunID, d.PackageID, *d.VehicleID, d.DeliveredAt.Format(time.RFC3339), late)
		if err != nil {
			return fmt.Errorf("save run %q: insert package_id=%d: %w", summary.RunID, d.PackageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %q: commit: %w", summary.RunID, err)
	}

	return nil
}

// ListRuns returns the most recent runs first.
func (s *SQLRunRecorder) ListRuns(ctx context.Context, limit int) (_ []RunRecord, err error) {
	defer obs.Time(ctx, "runs.repo.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("run recorder: db is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.DB.QueryContext(ctx, s.Dialect.rebind(`
	SELECT run_id, started_at, finished_at, total_miles, missed_deadlines
	FROM runs
	ORDER BY started_at DESC, run_id
	LIMIT ?;
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs table: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.TotalMiles, &r.MissedDeadlines); err != nil {
			return nil, fmt.Errorf("list runs: scan rows: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return out, nil
}
