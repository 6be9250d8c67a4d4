// Package backtest implements the pairs-trading backtest engine: the rolling
// z-score transform, the signal state machine, returns and cost accounting,
// performance metrics, the threshold grid search and the portfolio
// aggregation.
package backtest

import "math"

// DefaultZWindow is the rolling window for the z-score transform, in bars.
const DefaultZWindow = 24

// RollingZScore converts a spread into a rolling normalized deviation:
// (spread - rolling mean) / rolling sample std over the trailing window, with
// a minimum window of one observation so the transform is defined from the
// first bar. Windows whose std is zero or undefined borrow the most recent
// earlier non-zero estimate, falling back to the nearest later one. If no
// window anywhere produces a usable std the corresponding bars are marked
// invalid instead of propagating NaN.
func RollingZScore(spread []float64, window int) (z []float64, valid []bool) {
	n := len(spread)
	z = make([]float64, n)
	valid = make([]bool, n)
	if n == 0 {
		return z, valid
	}
	if window < 1 {
		window = 1
	}

	means := make([]float64, n)
	stds := make([]float64, n)
	stdOK := make([]bool, n)
	for i := 0; i < n; i++ {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		count := float64(i - start + 1)

		sum := 0.0
		for j := start; j <= i; j++ {
			sum += spread[j]
		}
		means[i] = sum / count

		if count >= 2 {
			ss := 0.0
			for j := start; j <= i; j++ {
				d := spread[j] - means[i]
				ss += d * d
			}
			sd := math.Sqrt(ss / (count - 1))
			if sd > 0 {
				stds[i] = sd
				stdOK[i] = true
			}
		}
	}

	// Substitute degenerate windows: carry the previous usable std forward,
	// then fill any leading gap backward from the first usable one.
	lastOK := -1
	for i := 0; i < n; i++ {
		if stdOK[i] {
			lastOK = i
		} else if lastOK >= 0 {
			stds[i] = stds[lastOK]
			stdOK[i] = true
		}
	}
	firstOK := -1
	for i := 0; i < n; i++ {
		if stdOK[i] {
			firstOK = i
			break
		}
	}
	if firstOK > 0 {
		for i := 0; i < firstOK; i++ {
			stds[i] = stds[firstOK]
			stdOK[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if !stdOK[i] {
			continue
		}
		z[i] = (spread[i] - means[i]) / stds[i]
		valid[i] = true
	}
	return z, valid
}
