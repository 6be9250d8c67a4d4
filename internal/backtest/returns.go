package backtest

import (
	"math"

	"github.com/saltfish/pairscan/internal/domain"
)

// ComputeReturns converts position states and raw asset returns into net
// strategy returns. The gross return per bar uses the previous bar's
// position: a position entered at bar t only earns the spread move realized
// between t and t+1, which keeps the accounting free of lookahead.
// Transaction costs are charged on every position change, proportional to
// |Δposition| * costRate, so a long-to-short flip pays double a plain entry.
// The first bar has no prior return and is dropped, not zero-filled; callers
// treat an empty result as "no valid backtest" for the pair.
func ComputeReturns(pair *domain.Pair, signals domain.SignalSeries, hedgeRatio, costRate float64) domain.Series {
	n := pair.Len()
	if n < 2 || len(signals) != n {
		return domain.Series{}
	}

	out := domain.Series{
		Times:  pair.Times[1:],
		Values: make([]float64, 0, n-1),
	}
	for t := 1; t < n; t++ {
		r1 := (pair.Prices1[t] - pair.Prices1[t-1]) / pair.Prices1[t-1]
		r2 := (pair.Prices2[t] - pair.Prices2[t-1]) / pair.Prices2[t-1]

		gross := float64(signals[t-1].Position) * (r1 - hedgeRatio*r2)
		cost := math.Abs(float64(signals[t].Position)-float64(signals[t-1].Position)) * costRate
		out.Values = append(out.Values, gross-cost)
	}
	return out
}
