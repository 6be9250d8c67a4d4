package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// CointPValueThreshold is the significance level for the cointegration
// verdict.
const CointPValueThreshold = 0.05

// CointegrationResult is the immutable output of the stationarity tester for
// one pair. HalfLife is in bars and may be +Inf when the spread shows no mean
// reversion; callers must not assume it is finite even when IsCointegrated.
type CointegrationResult struct {
	Pair           string  `json:"pair"`
	HedgeRatio     float64 `json:"hedge_ratio"`
	PValue         float64 `json:"pvalue"`
	ADFStatistic   float64 `json:"adf_statistic"`
	SpreadStd      float64 `json:"spread_std"`
	HalfLife       float64 `json:"half_life_hours"`
	Correlation    float64 `json:"correlation"`
	IsCointegrated bool    `json:"is_cointegrated"`
	DataPoints     int     `json:"data_points"`
}

// HasFiniteHalfLife reports whether the spread mean-reverts at all.
func (r *CointegrationResult) HasFiniteHalfLife() bool {
	return !math.IsInf(r.HalfLife, 1)
}

// PerformanceMetrics is a pure reduction of a net-return series. Returns are
// fractions, not percentages. SharpeRatio is 0 by definition when the return
// standard deviation is zero.
type PerformanceMetrics struct {
	TotalReturn float64 `json:"total_return"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
	WinRate     float64 `json:"win_rate"`
	Volatility  float64 `json:"volatility"`
	NumTrades   int     `json:"num_trades"`
}

// BacktestResult bundles everything one pair backtest produces: metrics plus
// the net-return and cumulative paths for downstream visualization.
type BacktestResult struct {
	Pair       string
	Params     StrategyParams
	Metrics    PerformanceMetrics
	NetReturns Series
	Cumulative Series
}

// OptimizedResult is the argmax over a parameter grid for one pair.
type OptimizedResult struct {
	Pair   string
	ZEntry float64
	ZExit  float64
	Result *BacktestResult
}

// PairReport is one row of the persisted tabular interchange format: the
// column set is fixed by the reporting collaborator and must not change.
type PairReport struct {
	Pair            string  `json:"pair"`
	HedgeRatio      float64 `json:"hedge_ratio"`
	PValue          float64 `json:"pvalue"`
	IsCointegrated  bool    `json:"is_cointegrated"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
	TotalReturn     float64 `json:"total_return"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	WinRate         float64 `json:"win_rate"`
	NumTrades       int     `json:"num_trades"`
	OptimizedZEntry float64 `json:"optimized_z_entry"`
	OptimizedZExit  float64 `json:"optimized_z_exit"`
}

// PortfolioMetrics is the equal-weighted portfolio-level reduction.
type PortfolioMetrics struct {
	Metrics  PerformanceMetrics `json:"metrics"`
	NumPairs int                `json:"num_pairs"`
}

// ScanRun identifies one batch execution over the pair universe.
type ScanRun struct {
	ID          uuid.UUID  `json:"id"`
	Mode        RunMode    `json:"mode"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	PairsTotal  int        `json:"pairs_total"`
	PairsOK     int        `json:"pairs_ok"`
	PairsSkip   int        `json:"pairs_skipped"`
}

// NewScanRun creates a new ScanRun with a generated UUID.
func NewScanRun(mode RunMode) *ScanRun {
	return &ScanRun{
		ID:        uuid.New(),
		Mode:      mode,
		StartedAt: time.Now(),
	}
}

// Complete marks the run finished and records the outcome counts.
func (r *ScanRun) Complete(ok, skipped int) {
	now := time.Now()
	r.CompletedAt = &now
	r.PairsOK = ok
	r.PairsSkip = skipped
	r.PairsTotal = ok + skipped
}

// PairOutcome is the per-pair result of a batch run: either a populated
// report (with optional detail) or a skip reason. Failures are isolated per
// pair; a skip never aborts the remaining universe.
type PairOutcome struct {
	Pair      string
	Coint     *CointegrationResult
	Backtest  *BacktestResult
	Optimized *OptimizedResult
	Skip      error
}

// Skipped reports whether this pair produced no result.
func (o *PairOutcome) Skipped() bool {
	return o.Skip != nil
}

// Report flattens the outcome into an interchange row. Returns nil for
// skipped pairs.
func (o *PairOutcome) Report() *PairReport {
	if o.Skipped() || o.Coint == nil {
		return nil
	}
	rep := &PairReport{
		Pair:           o.Pair,
		HedgeRatio:     o.Coint.HedgeRatio,
		PValue:         o.Coint.PValue,
		IsCointegrated: o.Coint.IsCointegrated,
	}
	if o.Optimized != nil && o.Optimized.Result != nil {
		rep.OptimizedZEntry = o.Optimized.ZEntry
		rep.OptimizedZExit = o.Optimized.ZExit
		rep.SharpeRatio = o.Optimized.Result.Metrics.SharpeRatio
		rep.TotalReturn = o.Optimized.Result.Metrics.TotalReturn
		rep.MaxDrawdown = o.Optimized.Result.Metrics.MaxDrawdown
		rep.WinRate = o.Optimized.Result.Metrics.WinRate
		rep.NumTrades = o.Optimized.Result.Metrics.NumTrades
	} else if o.Backtest != nil {
		rep.SharpeRatio = o.Backtest.Metrics.SharpeRatio
		rep.TotalReturn = o.Backtest.Metrics.TotalReturn
		rep.MaxDrawdown = o.Backtest.Metrics.MaxDrawdown
		rep.WinRate = o.Backtest.Metrics.WinRate
		rep.NumTrades = o.Backtest.Metrics.NumTrades
	}
	return rep
}
