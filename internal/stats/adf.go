package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ADFResult is the outcome of an augmented Dickey-Fuller test. The null
// hypothesis is that the series has a unit root (is non-stationary); a small
// PValue rejects the null.
type ADFResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	Nobs      int
}

// minADFObs is the smallest sample the test will accept; below this the lag
// regression has no degrees of freedom to speak of.
const minADFObs = 10

// ADF runs an augmented Dickey-Fuller test with a constant term. The lag
// order is chosen by AIC over 0..maxlag (Schwert rule), evaluated on a common
// sample so the criteria are comparable, then the test regression is refit on
// the full usable sample with the chosen lag.
func ADF(series []float64) (*ADFResult, error) {
	n := len(series)
	if n < minADFObs {
		return nil, fmt.Errorf("%w: %d observations for ADF test", ErrDegenerate, n)
	}

	maxlag := int(math.Ceil(12.0 * math.Pow(float64(n)/100.0, 0.25)))
	if limit := (n - 1) / 2; maxlag > limit-2 {
		maxlag = limit - 2
	}
	if maxlag < 0 {
		maxlag = 0
	}

	bestLag, bestAIC := 0, math.Inf(1)
	for lag := 0; lag <= maxlag; lag++ {
		res, err := dickeyFullerFit(series, lag, maxlag)
		if err != nil {
			continue
		}
		m := float64(res.Nobs)
		aic := m*math.Log(res.SSR/m) + 2.0*float64(res.NumParams)
		if aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}

	fit, err := dickeyFullerFit(series, bestLag, bestLag)
	if err != nil {
		return nil, err
	}
	if fit.StdErrs[0] == 0 {
		return nil, fmt.Errorf("%w: zero standard error in ADF regression", ErrDegenerate)
	}

	tstat := fit.Coeffs[0] / fit.StdErrs[0]
	return &ADFResult{
		Statistic: tstat,
		PValue:    mackinnonP(tstat),
		Lags:      bestLag,
		Nobs:      fit.Nobs,
	}, nil
}

// dickeyFullerFit regresses Δy_t on [y_{t-1}, Δy_{t-1..t-lag}, 1]. startLag
// fixes the first usable row so candidate lag orders share a sample during
// selection.
func dickeyFullerFit(y []float64, lag, startLag int) (*OLSResult, error) {
	n := len(y)
	first := startLag + 1
	rows := n - first
	if rows <= lag+2 {
		return nil, fmt.Errorf("%w: %d usable rows for lag %d", ErrDegenerate, rows, lag)
	}

	dep := make([]float64, 0, rows)
	design := make([][]float64, 0, rows)
	for t := first; t < n; t++ {
		row := make([]float64, 0, lag+2)
		row = append(row, y[t-1])
		for j := 1; j <= lag; j++ {
			row = append(row, y[t-j]-y[t-j-1])
		}
		row = append(row, 1.0)
		design = append(design, row)
		dep = append(dep, y[t]-y[t-1])
	}
	return OLS(dep, design)
}

// MacKinnon (1994) approximate asymptotic p-value for the constant-only test
// regression: p = Phi(poly(tau)), with separate small-p and large-p
// polynomials spliced at tauStar and clamped outside [tauMin, tauMax].
var (
	tauStar   = -1.61
	tauMin    = -18.83
	tauMax    = 2.74
	tauSmallP = []float64{2.1659, 1.4412, 0.038269}
	tauLargeP = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

func mackinnonP(tstat float64) float64 {
	if tstat > tauMax {
		return 1.0
	}
	if tstat < tauMin {
		return 0.0
	}
	coeffs := tauLargeP
	if tstat <= tauStar {
		coeffs = tauSmallP
	}
	return distuv.UnitNormal.CDF(polyval(coeffs, tstat))
}

func polyval(coeffs []float64, x float64) float64 {
	sum, pow := 0.0, 1.0
	for _, c := range coeffs {
		sum += c * pow
		pow *= x
	}
	return sum
}
