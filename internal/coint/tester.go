// Package coint implements the Engle-Granger style cointegration test that
// decides which pairs are worth backtesting and supplies their hedge ratios.
package coint

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/saltfish/pairscan/internal/domain"
	"github.com/saltfish/pairscan/internal/stats"
)

// MinObservations is the smallest aligned sample the tester accepts; below
// this the pair is skipped, not failed.
const MinObservations = 30

// Tester runs the stationarity test for a pair of price series. It is
// stateless and deterministic: identical input series always produce the
// identical hedge ratio and p-value.
type Tester struct {
	logger *zap.Logger
}

// NewTester creates a new Tester.
func NewTester(logger *zap.Logger) *Tester {
	return &Tester{logger: logger}
}

// Test inner-joins the two series on timestamp, estimates the hedge ratio by
// OLS of series1 on [intercept, series2], and tests the residual spread for
// stationarity. A sample below MinObservations yields a SkipError wrapping
// ErrInsufficientData.
func (t *Tester) Test(name string, series1, series2 domain.Series) (*domain.CointegrationResult, error) {
	_, v1, v2 := domain.AlignInner(series1, series2)
	if len(v1) < MinObservations {
		return nil, domain.NewSkipError(name, fmt.Errorf("%w: %d aligned observations, need %d",
			domain.ErrInsufficientData, len(v1), MinObservations))
	}

	_, hedge := stats.SimpleOLS(v1, v2)

	spread := make([]float64, len(v1))
	for i := range v1 {
		spread[i] = v1[i] - hedge*v2[i]
	}

	adf, err := stats.ADF(spread)
	if err != nil {
		return nil, domain.NewSkipError(name, fmt.Errorf("%w: %v", domain.ErrInsufficientData, err))
	}

	result := &domain.CointegrationResult{
		Pair:           name,
		HedgeRatio:     hedge,
		PValue:         adf.PValue,
		ADFStatistic:   adf.Statistic,
		SpreadStd:      stat.StdDev(spread, nil),
		HalfLife:       stats.HalfLife(spread),
		Correlation:    stat.Correlation(v1, v2, nil),
		IsCointegrated: adf.PValue < domain.CointPValueThreshold,
		DataPoints:     len(v1),
	}

	t.logger.Debug("Cointegration test finished",
		zap.String("pair", name),
		zap.Float64("hedge_ratio", result.HedgeRatio),
		zap.Float64("pvalue", result.PValue),
		zap.Float64("half_life", result.HalfLife),
		zap.Bool("is_cointegrated", result.IsCointegrated),
	)

	return result, nil
}

// TestPair runs Test over a pre-aligned Pair.
func (t *Tester) TestPair(pair *domain.Pair) (*domain.CointegrationResult, error) {
	return t.Test(pair.Name, pair.Series1(), pair.Series2())
}
