package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glizzus/timed-requests/internal/report"
)

type RunPersister interface {
	Save(ctx context.Context, run report.Run) error
}

// FireRow mirrors a row of timed_fire.
type FireRow struct {
	RunID      string
	Index      int
	Target     string
	Sent       *string
	DriftMicro *int64
	StatusCode *int
	Error      *string
}

type PostgresRunRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRunRepository(db *pgxpool.Pool) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func RunToRowParams(run report.Run) []any {
	return []any{
		run.ID,
		run.Source,
		run.Endpoint,
		run.StartedAt,
		run.FinishedAt,
		run.Result.Success,
	}
}

func FireToRowParams(runID string, fire report.Fire) []any {
	if !fire.OK() {
		return []any{runID, fire.Index, fire.Target.String(), nil, nil, nil, nil, fire.Error}
	}
	return []any{
		runID,
		fire.Index,
		fire.Target.String(),
		fire.Sent.String(),
		fire.SentAt,
		fire.Drift.Microseconds(),
		fire.StatusCode,
		nil,
	}
}

// Save records the run and all of its fires in one transaction.
func (r *PostgresRunRepository) Save(ctx context.Context, run report.Run) (err error) {
	const runQuery = `
	INSERT INTO timed_run (id, source, endpoint, started_at, finished_at, success)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		source = EXCLUDED.source,
		endpoint = EXCLUDED.endpoint,
		started_at = EXCLUDED.started_at,
		finished_at = EXCLUDED.finished_at,
		success = EXCLUDED.success
	`

	const fireQuery = `
	INSERT INTO timed_fire (run_id, idx, target, sent, sent_at, drift_us, status_code, error)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (run_id, idx) DO NOTHING
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
	}()

	if _, err := tx.Exec(ctx, runQuery, RunToRowParams(run)...); err != nil {
		return fmt.Errorf("failed to execute run query: %w", err)
	}

	batch := &pgx.Batch{}
	for _, fire := range run.Fires {
		batch.Queue(fireQuery, FireToRowParams(run.ID, fire)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to execute fire queries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Fires returns the stored fires of a run ordered by position.
func (r *PostgresRunRepository) Fires(ctx context.Context, runID string) ([]FireRow, error) {
	const query = `
	SELECT run_id, idx, target, sent, drift_us, status_code, error
	FROM timed_fire
	WHERE run_id = $1
	ORDER BY idx
	`
	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fires: %w", err)
	}
	defer rows.Close()

	var fires []FireRow
	for rows.Next() {
		var f FireRow
		if err := rows.Scan(&f.RunID, &f.Index, &f.Target, &f.Sent, &f.DriftMicro, &f.StatusCode, &f.Error); err != nil {
			return nil, fmt.Errorf("failed to scan fire: %w", err)
		}
		fires = append(fires, f)
	}
	return fires, rows.Err()
}

var _ RunPersister = (*PostgresRunRepository)(nil)
