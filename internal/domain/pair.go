package domain

import (
	"fmt"
	"time"
)

// Pair is an ordered pair of price series sharing an identical timestamp
// index. Series1 is the leg being hedged; the spread is
// series1 - hedge_ratio * series2.
type Pair struct {
	Name    string
	Symbol1 string
	Symbol2 string
	Times   []time.Time
	Prices1 []float64
	Prices2 []float64
}

// NewPair builds a Pair from two already-aligned series.
func NewPair(symbol1, symbol2 string, times []time.Time, prices1, prices2 []float64) (*Pair, error) {
	if len(times) != len(prices1) || len(times) != len(prices2) {
		return nil, fmt.Errorf("pair %s-%s: misaligned series (%d/%d/%d observations)",
			symbol1, symbol2, len(times), len(prices1), len(prices2))
	}
	return &Pair{
		Name:    symbol1 + "-" + symbol2,
		Symbol1: symbol1,
		Symbol2: symbol2,
		Times:   times,
		Prices1: prices1,
		Prices2: prices2,
	}, nil
}

// Len returns the number of shared observations.
func (p *Pair) Len() int {
	return len(p.Times)
}

// Spread returns series1 - hedgeRatio * series2 over the shared index.
func (p *Pair) Spread(hedgeRatio float64) []float64 {
	spread := make([]float64, len(p.Prices1))
	for i := range p.Prices1 {
		spread[i] = p.Prices1[i] - hedgeRatio*p.Prices2[i]
	}
	return spread
}

// Series1 returns the first leg as a Series.
func (p *Pair) Series1() Series {
	return Series{Times: p.Times, Values: p.Prices1}
}

// Series2 returns the second leg as a Series.
func (p *Pair) Series2() Series {
	return Series{Times: p.Times, Values: p.Prices2}
}
