package backtest

import (
	"math"

	"go.uber.org/zap"

	"github.com/saltfish/pairscan/internal/domain"
)

// Optimizer grid-searches entry/exit threshold combinations for one pair,
// keeping the cost rate fixed, and selects the combination with the strictly
// highest Sharpe ratio. The stop is fixed too, except that it is raised to
// the entry under test when the entry reaches it. Traversal is entry-major
// then exit-minor, so ties deterministically go to the first combination
// seen.
type Optimizer struct {
	engine   *Engine
	grid     domain.ParamGrid
	zStop    float64
	costRate float64
	logger   *zap.Logger
}

// NewOptimizer creates an Optimizer around an Engine.
func NewOptimizer(engine *Engine, grid domain.ParamGrid, zStop, costRate float64, logger *zap.Logger) *Optimizer {
	return &Optimizer{
		engine:   engine,
		grid:     grid,
		zStop:    zStop,
		costRate: costRate,
		logger:   logger,
	}
}

// Optimize evaluates every grid combination with z_exit < z_entry (others are
// skipped as invalid, not errors) and returns the Sharpe argmax. When every
// combination yields no result the pair is reported as having no profitable
// parameters, which is a skip, not a failure.
func (o *Optimizer) Optimize(pair *domain.Pair, hedgeRatio float64) (*domain.OptimizedResult, error) {
	var best *domain.OptimizedResult
	bestSharpe := math.Inf(-1)

	for _, entry := range o.grid.Entries {
		for _, exit := range o.grid.Exits {
			if exit >= entry {
				continue
			}
			// Only exit >= entry disqualifies a combination. The stop rides
			// up with the entry under test so grid columns at or above the
			// configured stop stay evaluable.
			params := domain.StrategyParams{
				ZEntry:   entry,
				ZExit:    exit,
				ZStop:    math.Max(o.zStop, entry),
				CostRate: o.costRate,
			}
			result, err := o.engine.Run(pair, hedgeRatio, params)
			if err != nil {
				continue
			}
			if result.Metrics.SharpeRatio > bestSharpe {
				bestSharpe = result.Metrics.SharpeRatio
				best = &domain.OptimizedResult{
					Pair:   pair.Name,
					ZEntry: entry,
					ZExit:  exit,
					Result: result,
				}
			}
		}
	}

	if best == nil {
		return nil, domain.NewSkipError(pair.Name, domain.ErrNoProfitableParams)
	}

	o.logger.Debug("Grid search finished",
		zap.String("pair", pair.Name),
		zap.Float64("z_entry", best.ZEntry),
		zap.Float64("z_exit", best.ZExit),
		zap.Float64("sharpe", best.Result.Metrics.SharpeRatio),
	)
	return best, nil
}
