package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/saltfish/pairscan/internal/domain"
)

// DaysPerYear is the annualization basis for the Sharpe ratio.
const DaysPerYear = 365

// DefaultBarsPerDay is the reference cadence: hourly bars.
const DefaultBarsPerDay = 24

// Evaluate reduces a net-return series to summary risk/return metrics.
// Returns are fractions. A zero (or undefined) return standard deviation
// yields SharpeRatio 0 by definition rather than propagating NaN, so a
// no-variance pair can never win a grid search. num_trades counts non-zero
// return bars, a proxy for active-position bars.
func Evaluate(returns []float64, barsPerDay int) domain.PerformanceMetrics {
	var m domain.PerformanceMetrics
	if len(returns) == 0 {
		return m
	}

	cum := CumulativePath(returns)
	m.TotalReturn = cum[len(cum)-1] - 1

	if len(returns) >= 2 {
		mean := stat.Mean(returns, nil)
		sd := stat.StdDev(returns, nil)
		m.Volatility = sd
		if sd > 0 {
			m.SharpeRatio = mean / sd * math.Sqrt(float64(barsPerDay)*DaysPerYear)
		}
	}

	runMax := cum[0]
	maxDD := 0.0
	for _, v := range cum {
		if v > runMax {
			runMax = v
		}
		dd := (v - runMax) / runMax
		if dd < maxDD {
			maxDD = dd
		}
	}
	m.MaxDrawdown = maxDD

	wins, active := 0, 0
	for _, r := range returns {
		if r != 0 {
			active++
			if r > 0 {
				wins++
			}
		}
	}
	m.NumTrades = active
	if active > 0 {
		m.WinRate = float64(wins) / float64(active)
	}
	return m
}

// CumulativePath returns the running product of (1 + r) over the series.
func CumulativePath(returns []float64) []float64 {
	cum := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		cum[i] = acc
	}
	return cum
}
