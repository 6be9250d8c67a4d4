// Package stats provides the statistical primitives behind the cointegration
// tester: least squares estimation, the augmented Dickey-Fuller test and the
// mean-reversion half-life.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerate is returned when a regression has too few observations or a
// singular design matrix.
var ErrDegenerate = errors.New("degenerate regression")

// OLSResult holds the estimated coefficients and diagnostics of a least
// squares fit.
type OLSResult struct {
	Coeffs    []float64
	StdErrs   []float64
	SSR       float64
	Nobs      int
	NumParams int
}

// OLS fits y = X*b by QR least squares. X is row-major: one row per
// observation, one column per regressor (include a column of ones for an
// intercept). Standard errors use s^2 * inv(X'X).
func OLS(y []float64, x [][]float64) (*OLSResult, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("%w: %d observations, %d design rows", ErrDegenerate, n, len(x))
	}
	k := len(x[0])
	if n <= k {
		return nil, fmt.Errorf("%w: %d observations for %d parameters", ErrDegenerate, n, k)
	}

	flat := make([]float64, 0, n*k)
	for _, row := range x {
		if len(row) != k {
			return nil, fmt.Errorf("%w: ragged design matrix", ErrDegenerate)
		}
		flat = append(flat, row...)
	}
	design := mat.NewDense(n, k, flat)
	rhs := mat.NewVecDense(n, y)

	var coef mat.VecDense
	if err := coef.SolveVec(design, rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &coef)

	ssr := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		ssr += r * r
	}

	var xtx, inv mat.Dense
	xtx.Mul(design.T(), design)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	sigma2 := ssr / float64(n-k)
	coeffs := make([]float64, k)
	stderrs := make([]float64, k)
	for j := 0; j < k; j++ {
		coeffs[j] = coef.AtVec(j)
		stderrs[j] = math.Sqrt(sigma2 * inv.At(j, j))
	}

	return &OLSResult{
		Coeffs:    coeffs,
		StdErrs:   stderrs,
		SSR:       ssr,
		Nobs:      n,
		NumParams: k,
	}, nil
}

// SimpleOLS regresses y on [intercept, x] and returns the intercept and
// slope. The slope is the hedge ratio when y and x are the two legs of a
// pair.
func SimpleOLS(y, x []float64) (alpha, beta float64) {
	return stat.LinearRegression(x, y, nil, false)
}
