package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saltfish/pairscan/internal/db"
	"github.com/saltfish/pairscan/internal/domain"
)

// pairReportRepo implements PairReportRepository using PostgreSQL.
type pairReportRepo struct {
	pool *db.Pool
}

// NewPairReportRepository creates a new PostgreSQL pair report repository.
func NewPairReportRepository(pool *db.Pool) PairReportRepository {
	return &pairReportRepo{pool: pool}
}

const pairReportColumns = `
	run_id, pair, hedge_ratio, pvalue, is_cointegrated,
	sharpe_ratio, total_return, max_drawdown, win_rate, num_trades,
	optimized_z_entry, optimized_z_exit
`

// CreateBatch persists all report rows of one run in a single transaction.
// Either every row lands or none do.
func (r *pairReportRepo) CreateBatch(ctx context.Context, runID uuid.UUID, reports []*domain.PairReport) error {
	if len(reports) == 0 {
		return nil
	}

	query := `
		INSERT INTO pair_reports (` + pairReportColumns + `
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12
		)
	`

	return r.pool.WithTx(ctx, func(tx *db.Tx) error {
		for _, rep := range reports {
			_, err := tx.Exec(ctx, query,
				runID,
				rep.Pair,
				rep.HedgeRatio,
				rep.PValue,
				rep.IsCointegrated,
				rep.SharpeRatio,
				rep.TotalReturn,
				rep.MaxDrawdown,
				rep.WinRate,
				rep.NumTrades,
				rep.OptimizedZEntry,
				rep.OptimizedZExit,
			)
			if err != nil {
				return fmt.Errorf("failed to insert pair report %s: %w", rep.Pair, err)
			}
		}
		return nil
	})
}
