package domain

import "time"

// Position is the direction of an open spread position.
type Position int

const (
	PositionFlat  Position = 0
	PositionLong  Position = 1
	PositionShort Position = -1
)

// SignalBar is one timestep of the signal state machine's output: the z-score
// observed at the bar, the position held after evaluating the bar, and the
// z-score recorded when the current position was opened (0 while flat).
type SignalBar struct {
	Time     time.Time
	ZScore   float64
	ZValid   bool
	Position Position
	EntryZ   float64
}

// SignalSeries is the per-bar output of the state machine, built strictly
// causally: each bar's decision depends only on current and prior bars.
type SignalSeries []SignalBar

// Positions returns the position column as ints, mostly for tests and
// diagnostics.
func (s SignalSeries) Positions() []int {
	out := make([]int, len(s))
	for i, bar := range s {
		out[i] = int(bar.Position)
	}
	return out
}
