package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"goab/domain/core"
	"goab/domain/stats"
	"goab/ports"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL. The full
// run result is stored as a JSONB payload next to the columns used
// for filtering and ordering.
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

type runRow struct {
	ID        string    `db:"id"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// SaveRun stores a run, replacing any earlier run with the same ID
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *stats.RunResult) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("cannot save run without an ID")
	}

	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to serialize run %s: %w", run.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, test_used, alpha, correction, group_count, fingerprint, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET test_used = EXCLUDED.test_used,
		    alpha = EXCLUDED.alpha,
		    correction = EXCLUDED.correction,
		    group_count = EXCLUDED.group_count,
		    fingerprint = EXCLUDED.fingerprint,
		    payload = EXCLUDED.payload
	`, run.ID.String(), string(run.TestUsed), run.Alpha, string(run.Correction),
		run.GroupCount, run.Fingerprint.String(), payload, run.CreatedAt.Time())

	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*stats.RunResult, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, payload, created_at
		FROM analysis_runs
		WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return decodeRun(row)
}

// ListRuns returns the most recent runs, newest first. A limit of
// zero or less means no limit.
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*stats.RunResult, error) {
	query := `
		SELECT id, payload, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*stats.RunResult, 0, len(rows))
	for _, row := range rows {
		run, err := decodeRun(row)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func decodeRun(row runRow) (*stats.RunResult, error) {
	var run stats.RunResult
	if err := json.Unmarshal(row.Payload, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", row.ID, err)
	}
	return &run, nil
}
