package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// RunRecord summarizes one download run.
type RunRecord struct {
	ID         int64
	RunID      string
	Group      string
	Browser    string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
	Pending    int

	// ReportJSON is the full run report. It is only loaded by GetRunReport.
	ReportJSON []byte
}

// SaveRun stores a run record. Saving the same run id twice replaces it.
func (a *ArchiveDB) SaveRun(ctx context.Context, run RunRecord) error {
	query := `
	INSERT INTO runs (run_id, group_name, browser, started_at, finished_at, total, succeeded, failed, pending, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id) DO UPDATE SET
		finished_at = excluded.finished_at,
		total = excluded.total,
		succeeded = excluded.succeeded,
		failed = excluded.failed,
		pending = excluded.pending,
		report_json = excluded.report_json
	`
	_, err := a.db.ExecContext(ctx, query,
		run.RunID,
		run.Group,
		run.Browser,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Total,
		run.Succeeded,
		run.Failed,
		run.Pending,
		string(run.ReportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns run summaries, newest first, without their reports.
// limit <= 0 means no limit.
func (a *ArchiveDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, run_id, group_name, browser, started_at, finished_at, total, succeeded, failed, pending
	FROM runs
	ORDER BY id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var browser sql.NullString
		var started, finished string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Group, &browser, &started, &finished,
			&r.Total, &r.Succeeded, &r.Failed, &r.Pending); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Browser = browser.String
		r.StartedAt = parseTimestamp(started)
		r.FinishedAt = parseTimestamp(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunReport returns the stored JSON report of a run.
func (a *ArchiveDB) GetRunReport(ctx context.Context, runID string) ([]byte, error) {
	var report sql.NullString
	err := a.db.QueryRowContext(ctx, "SELECT report_json FROM runs WHERE run_id = ?", runID).Scan(&report)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}
	return []byte(report.String), nil
}
