// Package runstore keeps a SQLite ledger of finished runs and their per-target
// outcomes.
package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vk/regiongrid/internal/model"
	"github.com/vk/regiongrid/internal/runstore/migrations"
)

// Store persists run reports in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// RunSummary is one row of the run ledger.
type RunSummary struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	Attempted int
	Succeeded int
	Failed    int
}

// OutcomeRecord is the stored outcome of one attempted target.
type OutcomeRecord struct {
	Target   model.Target
	State    model.TargetState
	Error    string
	Started  time.Time
	Finished time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the ledger at path, creating it if needed, and applies the
// embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveRun records report and every outcome in one transaction.
func (s *Store) SaveRun(ctx context.Context, report *model.RunReport) error {
	if report == nil {
		return errors.New("report is required")
	}
	if strings.TrimSpace(report.RunID) == "" {
		return errors.New("run id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, attempted, succeeded, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		report.RunID, toMillis(report.Started), toMillis(report.Finished),
		len(report.Attempts), len(report.Succeeded), len(report.Failed),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", report.RunID, err)
	}

	for i, o := range report.Attempts {
		var errText string
		if o.Err != nil {
			errText = o.Err.Error()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, position, target_id, target_name, state, error, started_at, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, o.Target.ID, o.Target.Name, string(o.State), errText,
			toMillis(o.Started), toMillis(o.Finished),
		); err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.Target, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT id, started_at, finished_at, attempted, succeeded, failed
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished int64
		if err := rows.Scan(&r.ID, &started, &finished, &r.Attempted, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started, r.Finished = fromMillis(started), fromMillis(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Outcomes returns the outcomes of runID in attempt order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]OutcomeRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT target_id, target_name, state, error, started_at, finished_at
		 FROM outcomes WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var o OutcomeRecord
		var state string
		var started, finished int64
		if err := rows.Scan(&o.Target.ID, &o.Target.Name, &state, &o.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.State = model.TargetState(state)
		o.Started, o.Finished = fromMillis(started), fromMillis(finished)
		out = append(out, o)
	}
	return out, rows.Err()
}
