package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Empty(t *testing.T) {
	m := Evaluate(nil, DefaultBarsPerDay)
	assert.Zero(t, m.TotalReturn)
	assert.Zero(t, m.SharpeRatio)
	assert.Zero(t, m.NumTrades)
}

func TestEvaluate_TotalReturnCompounds(t *testing.T) {
	m := Evaluate([]float64{0.1, 0.1}, DefaultBarsPerDay)
	assert.InDelta(t, 1.1*1.1-1, m.TotalReturn, 1e-12)
}

func TestEvaluate_ZeroVarianceSharpeIsZero(t *testing.T) {
	// Constant returns have zero standard deviation; the Sharpe ratio is
	// defined to be 0 rather than NaN or Inf.
	m := Evaluate([]float64{0.01, 0.01, 0.01}, DefaultBarsPerDay)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.False(t, math.IsNaN(m.SharpeRatio))
	assert.Greater(t, m.TotalReturn, 0.0)
}

func TestEvaluate_SharpeAnnualization(t *testing.T) {
	returns := []float64{0.01, -0.005, 0.02, 0.0, -0.01, 0.015}
	m := Evaluate(returns, 24)

	mean, sd := meanStd(returns)
	expected := mean / sd * math.Sqrt(24*365)
	assert.InDelta(t, expected, m.SharpeRatio, 1e-9)
	assert.InDelta(t, sd, m.Volatility, 1e-12)

	// A coarser cadence shrinks the annualization factor.
	daily := Evaluate(returns, 1)
	assert.InDelta(t, expected/math.Sqrt(24), daily.SharpeRatio, 1e-9)
}

func TestEvaluate_MaxDrawdown(t *testing.T) {
	// Path: 1.1, then down to 1.1*0.8 = 0.88, then partial recovery.
	m := Evaluate([]float64{0.1, -0.2, 0.05}, DefaultBarsPerDay)
	assert.InDelta(t, -0.2, m.MaxDrawdown, 1e-12)
	assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
}

func TestEvaluate_MaxDrawdownZeroForMonotoneGains(t *testing.T) {
	m := Evaluate([]float64{0.01, 0.02, 0.03}, DefaultBarsPerDay)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestEvaluate_WinRateIgnoresFlatBars(t *testing.T) {
	m := Evaluate([]float64{0.0, 0.01, -0.01, 0.0, 0.02}, DefaultBarsPerDay)
	assert.Equal(t, 3, m.NumTrades)
	assert.InDelta(t, 2.0/3.0, m.WinRate, 1e-12)
}

func TestEvaluate_WinRateZeroWhenAllFlat(t *testing.T) {
	m := Evaluate([]float64{0, 0, 0, 0}, DefaultBarsPerDay)
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 0, m.NumTrades)
}

func TestCumulativePath(t *testing.T) {
	path := CumulativePath([]float64{0.1, -0.5, 1.0})
	require.Len(t, path, 3)
	assert.InDelta(t, 1.1, path[0], 1e-12)
	assert.InDelta(t, 0.55, path[1], 1e-12)
	assert.InDelta(t, 1.1, path[2], 1e-12)
}

func meanStd(xs []float64) (mean, sd float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
