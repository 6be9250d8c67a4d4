package backtest

import (
	"sort"
	"time"

	"github.com/saltfish/pairscan/internal/domain"
)

// Aggregate equal-weights per-pair net return series into one portfolio
// return series and re-applies the metric reduction. Series are aligned on
// the union of their timestamps; a pair with no observation at a bar simply
// contributes nothing there. Each pair contributes weight 1/N.
func Aggregate(perPair []domain.Series, barsPerDay int) (*domain.PortfolioMetrics, domain.Series, error) {
	n := len(perPair)
	if n == 0 {
		return nil, domain.Series{}, domain.ErrNoReturns
	}

	combined := make(map[time.Time]float64)
	weight := 1.0 / float64(n)
	for _, series := range perPair {
		for i, ts := range series.Times {
			combined[ts] += series.Values[i] * weight
		}
	}
	if len(combined) == 0 {
		return nil, domain.Series{}, domain.ErrNoReturns
	}

	times := make([]time.Time, 0, len(combined))
	for ts := range combined {
		times = append(times, ts)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	values := make([]float64, len(times))
	for i, ts := range times {
		values[i] = combined[ts]
	}

	portfolio := domain.Series{Times: times, Values: values}
	metrics := &domain.PortfolioMetrics{
		Metrics:  Evaluate(values, barsPerDay),
		NumPairs: n,
	}
	return metrics, portfolio, nil
}
