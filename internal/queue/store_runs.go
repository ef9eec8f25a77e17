package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// BeginRun records the start of a pipeline run.
func (s *Store) BeginRun(ctx context.Context, id, mainDir, batch string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("run id is required")
	}
	now := time.Now()
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (id, main_dir, batch, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		mainDir,
		batch,
		RunRunning,
		formatTime(now),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// FinishRun stores the outcome of a run. A non-nil runErr marks the run failed.
func (s *Store) FinishRun(ctx context.Context, id string, outcome RunOutcome, runErr error) error {
	status := RunCompleted
	message := ""
	if runErr != nil {
		status = RunFailed
		message = runErr.Error()
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs SET status = ?, finished_at = ?, orders = ?, records = ?, ledger_added = ?,
            export_path = ?, error_message = ? WHERE id = ?`,
		status,
		formatTime(time.Now()),
		outcome.Orders,
		outcome.Records,
		outcome.LedgerAdded,
		nullableString(outcome.ExportPath),
		nullableString(message),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("finish run %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// GetRun fetches a run by id. A missing run returns (nil, nil).
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Runs returns the most recent runs first. A limit <= 0 returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
