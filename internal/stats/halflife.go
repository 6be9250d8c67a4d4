package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// HalfLife estimates the mean-reversion half-life of a spread, in bars.
// The spread's first difference is regressed on its own lagged level; with
// lag coefficient beta < 0 the half-life is -ln(2)/beta, otherwise the spread
// is not mean-reverting and the half-life is +Inf. Fewer than 2 paired
// observations also yield +Inf rather than an error.
func HalfLife(spread []float64) float64 {
	if len(spread) < 3 {
		return math.Inf(1)
	}

	n := len(spread) - 1
	ret := make([]float64, n)
	lag := make([]float64, n)
	for t := 1; t < len(spread); t++ {
		ret[t-1] = spread[t] - spread[t-1]
		lag[t-1] = spread[t-1]
	}
	if n < 2 {
		return math.Inf(1)
	}

	// Sample covariance over population variance.
	cov := stat.Covariance(ret, lag, nil)
	lagMean := stat.Mean(lag, nil)
	popVar := 0.0
	for _, v := range lag {
		d := v - lagMean
		popVar += d * d
	}
	popVar /= float64(n)
	if popVar == 0 {
		return math.Inf(1)
	}

	beta := cov / popVar
	if beta >= 0 {
		return math.Inf(1)
	}
	return -math.Ln2 / beta
}
