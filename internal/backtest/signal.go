package backtest

import (
	"math"
	"time"

	"github.com/saltfish/pairscan/internal/domain"
)

// signalState is the state the machine threads through time: the open
// position (flat, long or short) and the z-score recorded at entry.
type signalState struct {
	position domain.Position
	entryZ   float64
}

// GenerateSignals runs the two-state signal machine over a z-score series.
// Entries require a strict threshold crossing between the previous and the
// current bar, so a z-score lingering past the threshold cannot re-trigger.
// Exits fire when the z-score reverts inside the exit band or blows through
// the stop, in either direction. The first bar only carries the initial flat
// state; no decision is evaluated there.
func GenerateSignals(times []time.Time, z []float64, valid []bool, params domain.StrategyParams) domain.SignalSeries {
	n := len(z)
	out := make(domain.SignalSeries, 0, n)
	if n == 0 {
		return out
	}

	bar := func(i int, st signalState) domain.SignalBar {
		var ts time.Time
		if i < len(times) {
			ts = times[i]
		}
		return domain.SignalBar{
			Time:     ts,
			ZScore:   z[i],
			ZValid:   valid[i],
			Position: st.position,
			EntryZ:   st.entryZ,
		}
	}

	state := signalState{position: domain.PositionFlat}
	out = append(out, bar(0, state))

	for i := 1; i < n; i++ {
		state = transition(state, z[i], valid[i], z[i-1], valid[i-1], params)
		out = append(out, bar(i, state))
	}
	return out
}

// transition is the pure per-bar transition function. Entries are only
// reachable from flat, so holding both directions or re-entering without an
// intervening flat bar is impossible by construction.
func transition(st signalState, cur float64, curOK bool, prev float64, prevOK bool, p domain.StrategyParams) signalState {
	if st.position == domain.PositionFlat {
		if !curOK || !prevOK {
			return st
		}
		switch {
		case cur < -p.ZEntry && prev >= -p.ZEntry:
			return signalState{position: domain.PositionLong, entryZ: cur}
		case cur > p.ZEntry && prev <= p.ZEntry:
			return signalState{position: domain.PositionShort, entryZ: cur}
		default:
			return st
		}
	}

	// In a position an unusable z-score holds it; exit decisions need a
	// real observation.
	if !curOK {
		return st
	}
	exits := (st.position == domain.PositionLong && cur > -p.ZExit) ||
		(st.position == domain.PositionShort && cur < p.ZExit) ||
		math.Abs(cur) > p.ZStop
	if exits {
		return signalState{position: domain.PositionFlat}
	}
	return st
}
