package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saltfish/pairscan/internal/db"
	"github.com/saltfish/pairscan/internal/domain"
)

// scanRunRepo implements ScanRunRepository using PostgreSQL.
type scanRunRepo struct {
	pool *db.Pool
}

// NewScanRunRepository creates a new PostgreSQL scan run repository.
func NewScanRunRepository(pool *db.Pool) ScanRunRepository {
	return &scanRunRepo{pool: pool}
}

// Create creates a new scan run record.
func (r *scanRunRepo) Create(ctx context.Context, run *domain.ScanRun) error {
	query := `
		INSERT INTO scan_runs (
			id, mode, started_at, completed_at,
			pairs_total, pairs_ok, pairs_skipped
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Mode.String(),
		run.StartedAt,
		run.CompletedAt,
		run.PairsTotal,
		run.PairsOK,
		run.PairsSkip,
	)
	if err != nil {
		return fmt.Errorf("failed to create scan run: %w", err)
	}

	return nil
}

// Complete records the completion time and outcome counts of a run.
func (r *scanRunRepo) Complete(ctx context.Context, run *domain.ScanRun) error {
	query := `
		UPDATE scan_runs
		SET completed_at = $2, pairs_total = $3, pairs_ok = $4, pairs_skipped = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		run.ID,
		run.CompletedAt,
		run.PairsTotal,
		run.PairsOK,
		run.PairsSkip,
	)
	if err != nil {
		return fmt.Errorf("failed to complete scan run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListRecent retrieves the most recent scan runs, newest first.
func (r *scanRunRepo) ListRecent(ctx context.Context, limit int) ([]*domain.ScanRun, error) {
	query := `
		SELECT id, mode, started_at, completed_at,
			pairs_total, pairs_ok, pairs_skipped
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.ScanRun
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scan run rows: %w", err)
	}

	return runs, nil
}

// scanRun scans a single row into a ScanRun.
func (r *scanRunRepo) scanRun(row pgx.Row) (*domain.ScanRun, error) {
	run := &domain.ScanRun{}
	var mode string

	err := row.Scan(
		&run.ID,
		&mode,
		&run.StartedAt,
		&run.CompletedAt,
		&run.PairsTotal,
		&run.PairsOK,
		&run.PairsSkip,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan run row: %w", err)
	}

	run.Mode = domain.RunModeFromString(mode)

	return run, nil
}
