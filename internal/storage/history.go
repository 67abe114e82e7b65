package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"jbcram/internal/domain"
	"jbcram/internal/migration"
)

// History records finished runs in a SQL database
type History struct {
	db *sql.DB
}

// OpenHistory opens the history database, creating it and its tables as needed.
// driver is "sqlite3" or "mysql".
func OpenHistory(ctx context.Context, driver, dsn string) (*History, error) {
	if err := migration.NewDatabaseManager(driver, dsn).EnsureDatabase(ctx); err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s history: %w", driver, err)
	}

	if err := migration.NewSchemaMigrator().Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}
	return &History{db: db}, nil
}

// RecordRun stores a run and all of its per-test results in one transaction
func (h *History) RecordRun(ctx context.Context, summary domain.RunSummary) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, mode, passed, total, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.StartedAt.UTC().Format(time.RFC3339Nano), summary.Mode(),
		summary.Passed, summary.Total, int64(summary.Duration),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", summary.RunID, err)
	}

	for _, r := range summary.Results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO results (run_id, test_name, allocator, status, duration_ns)
			VALUES (?, ?, ?, ?, ?)`,
			summary.RunID, r.Name, string(r.Allocator), string(r.Status), int64(r.Duration),
		)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. Run IDs are ULIDs, so they sort by time.
func (h *History) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT run_id, started_at, mode, passed, total, duration_ns
		FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var (
			rec       domain.RunRecord
			startedAt string
			duration  int64
		)
		if err := rows.Scan(&rec.RunID, &startedAt, &rec.Mode, &rec.Passed, &rec.Total, &duration); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at of run %s: %w", rec.RunID, err)
		}
		rec.Duration = time.Duration(duration)
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// ListResults returns the per-test results of one run ordered by test name
func (h *History) ListResults(ctx context.Context, runID string) ([]domain.ResultRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT run_id, test_name, allocator, status, duration_ns
		FROM results WHERE run_id = ? ORDER BY test_name`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results of run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []domain.ResultRecord
	for rows.Next() {
		var (
			rec       domain.ResultRecord
			allocator string
			status    string
			duration  int64
		)
		if err := rows.Scan(&rec.RunID, &rec.TestName, &allocator, &status, &duration); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Allocator = domain.Allocator(allocator)
		rec.Status = domain.Status(status)
		rec.Duration = time.Duration(duration)
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Close closes the underlying database
func (h *History) Close() error {
	return h.db.Close()
}
