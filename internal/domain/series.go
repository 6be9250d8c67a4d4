// Package domain contains the core domain models for PairScan.
package domain

import (
	"time"
)

// Series is an ordered, time-indexed sequence of observations for one asset.
// The core assumes the index is strictly increasing and gap-free; enforcing
// that is the data-preparation layer's job.
type Series struct {
	Times  []time.Time
	Values []float64
}

// NewSeries creates a Series from parallel slices. Lengths must match.
func NewSeries(times []time.Time, values []float64) Series {
	if len(times) != len(values) {
		panic("domain: series times/values length mismatch")
	}
	return Series{Times: times, Values: values}
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.Values)
}

// IsEmpty returns true if the series has no observations.
func (s Series) IsEmpty() bool {
	return len(s.Values) == 0
}

// AlignInner inner-joins two series on their timestamp index and returns the
// aligned value slices plus the shared index. Both inputs must be sorted by
// time; the join is a single merge pass.
func AlignInner(a, b Series) (times []time.Time, av, bv []float64) {
	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		ta, tb := a.Times[i], b.Times[j]
		switch {
		case ta.Equal(tb):
			times = append(times, ta)
			av = append(av, a.Values[i])
			bv = append(bv, b.Values[j])
			i++
			j++
		case ta.Before(tb):
			i++
		default:
			j++
		}
	}
	return times, av, bv
}

// PctChange returns bar-over-bar simple returns. The result is one element
// shorter than the input: the first bar has no prior price and is dropped,
// not zero-filled.
func (s Series) PctChange() Series {
	if s.Len() < 2 {
		return Series{}
	}
	times := make([]time.Time, 0, s.Len()-1)
	values := make([]float64, 0, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		times = append(times, s.Times[i])
		values = append(values, (s.Values[i]-s.Values[i-1])/s.Values[i-1])
	}
	return Series{Times: times, Values: values}
}
