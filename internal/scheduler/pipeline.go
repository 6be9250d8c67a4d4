package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/saltfish/pairscan/internal/backtest"
	"github.com/saltfish/pairscan/internal/coint"
	"github.com/saltfish/pairscan/internal/domain"
)

// Pipeline processes one pair end to end and reports its outcome. Outcomes
// are never errors at the run level; a failed pair comes back as a skip.
type Pipeline interface {
	Process(ctx context.Context, pair *domain.Pair) *domain.PairOutcome
}

// RunPipeline is the production pipeline: cointegration test, then backtest
// or grid search depending on the run mode.
type RunPipeline struct {
	tester    *coint.Tester
	engine    *backtest.Engine
	optimizer *backtest.Optimizer
	mode      domain.RunMode
	params    domain.StrategyParams
	logger    *zap.Logger
}

// NewRunPipeline creates a RunPipeline for the given mode.
func NewRunPipeline(
	tester *coint.Tester,
	engine *backtest.Engine,
	optimizer *backtest.Optimizer,
	mode domain.RunMode,
	params domain.StrategyParams,
	logger *zap.Logger,
) *RunPipeline {
	return &RunPipeline{
		tester:    tester,
		engine:    engine,
		optimizer: optimizer,
		mode:      mode,
		params:    params,
		logger:    logger,
	}
}

// Process runs the per-pair stages the mode asks for. The cointegration
// result is kept on the outcome even when a later stage skips the pair, so
// the report still carries the verdict.
func (p *RunPipeline) Process(ctx context.Context, pair *domain.Pair) *domain.PairOutcome {
	outcome := &domain.PairOutcome{Pair: pair.Name}

	if err := ctx.Err(); err != nil {
		outcome.Skip = domain.NewSkipError(pair.Name, err)
		return outcome
	}

	verdict, err := p.tester.TestPair(pair)
	if err != nil {
		outcome.Skip = err
		return outcome
	}
	outcome.Coint = verdict

	if !p.mode.Includes(domain.RunModeBacktest) {
		return outcome
	}

	if !verdict.IsCointegrated {
		outcome.Skip = domain.NewSkipError(pair.Name, domain.ErrNotCointegrated)
		return outcome
	}

	result, err := p.engine.Run(pair, verdict.HedgeRatio, p.params)
	if err != nil {
		outcome.Skip = err
		return outcome
	}
	outcome.Backtest = result

	if !p.mode.Includes(domain.RunModeOptimize) {
		return outcome
	}

	optimized, err := p.optimizer.Optimize(pair, verdict.HedgeRatio)
	if err != nil {
		outcome.Skip = err
		return outcome
	}
	outcome.Optimized = optimized

	return outcome
}
