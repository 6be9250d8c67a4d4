package backtest

import (
	"go.uber.org/zap"

	"github.com/saltfish/pairscan/internal/domain"
)

// Engine runs the full single-pair backtest: z-score transform, signal state
// machine, returns accounting and metric reduction. It is a pure pipeline
// over in-memory series; every invocation is independent.
type Engine struct {
	logger     *zap.Logger
	window     int
	barsPerDay int
}

// NewEngine creates an Engine with the given rolling window (bars) and bar
// cadence (bars per day, for Sharpe annualization).
func NewEngine(logger *zap.Logger, window, barsPerDay int) *Engine {
	if window < 1 {
		window = DefaultZWindow
	}
	if barsPerDay < 1 {
		barsPerDay = DefaultBarsPerDay
	}
	return &Engine{logger: logger, window: window, barsPerDay: barsPerDay}
}

// Run backtests one pair with the given hedge ratio and thresholds. Invalid
// parameters and empty return series come back as SkipErrors, never as
// run-fatal failures.
func (e *Engine) Run(pair *domain.Pair, hedgeRatio float64, params domain.StrategyParams) (*domain.BacktestResult, error) {
	if err := params.Validate(); err != nil {
		return nil, domain.NewSkipError(pair.Name, err)
	}

	spread := pair.Spread(hedgeRatio)
	z, valid := RollingZScore(spread, e.window)
	signals := GenerateSignals(pair.Times, z, valid, params)

	net := ComputeReturns(pair, signals, hedgeRatio, params.CostRate)
	if net.IsEmpty() {
		return nil, domain.NewSkipError(pair.Name, domain.ErrNoReturns)
	}

	metrics := Evaluate(net.Values, e.barsPerDay)

	e.logger.Debug("Backtest finished",
		zap.String("pair", pair.Name),
		zap.Float64("z_entry", params.ZEntry),
		zap.Float64("z_exit", params.ZExit),
		zap.Float64("sharpe", metrics.SharpeRatio),
		zap.Float64("total_return", metrics.TotalReturn),
		zap.Int("num_trades", metrics.NumTrades),
	)

	return &domain.BacktestResult{
		Pair:       pair.Name,
		Params:     params,
		Metrics:    metrics,
		NetReturns: net,
		Cumulative: domain.Series{Times: net.Times, Values: CumulativePath(net.Values)},
	}, nil
}
