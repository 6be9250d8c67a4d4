package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltfish/pairscan/internal/domain"
)

func hourlyTimes(n int) []time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return times
}

func allValid(n int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}
	return valid
}

func TestGenerateSignals_LongEntryAndExit(t *testing.T) {
	// z dips through -2.0, holds, reverts inside the exit band at -0.4.
	z := []float64{0, -1.0, -2.1, -2.3, -0.4, 0.1}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, allValid(len(z)), params)

	require.Len(t, signals, len(z))
	assert.Equal(t, []int{0, 0, 1, 1, 0, 0}, signals.Positions())
	assert.InDelta(t, -2.1, signals[2].EntryZ, 1e-12)
	assert.InDelta(t, 0.0, signals[4].EntryZ, 1e-12)
}

func TestGenerateSignals_ShortSideIsSymmetric(t *testing.T) {
	z := []float64{0, 1.0, 2.1, 2.3, 0.4, -0.1}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, allValid(len(z)), params)
	assert.Equal(t, []int{0, 0, -1, -1, 0, 0}, signals.Positions())
	assert.InDelta(t, 2.1, signals[2].EntryZ, 1e-12)
}

func TestGenerateSignals_RequiresStrictCrossing(t *testing.T) {
	// The series starts beyond the entry threshold and stays there: no
	// crossing ever happens, so no position opens.
	z := []float64{-2.5, -2.6, -2.4, -2.7}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, allValid(len(z)), params)
	assert.Equal(t, []int{0, 0, 0, 0}, signals.Positions())
}

func TestGenerateSignals_StopLossExits(t *testing.T) {
	// Entry at -2.1, then the spread blows out past the stop.
	z := []float64{0, -2.1, -3.5, -3.6}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, allValid(len(z)), params)
	assert.Equal(t, []int{0, 1, 0, 0}, signals.Positions())
}

func TestGenerateSignals_NoReentryWithoutFreshCrossing(t *testing.T) {
	// After the stop-out at bar 2 the z-score stays beyond -entry, so the
	// machine must not immediately re-enter; bar 4 to 5 crosses again.
	z := []float64{0, -2.1, -3.5, -2.5, -1.0, -2.2}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, allValid(len(z)), params)
	assert.Equal(t, []int{0, 1, 0, 0, 0, 1}, signals.Positions())
}

func TestGenerateSignals_InvalidZHoldsPosition(t *testing.T) {
	z := []float64{0, -2.1, 0, -2.2, -0.1}
	valid := []bool{true, true, false, true, true}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, allValid(len(z)), params)
	// With all bars valid the middle reversion closes the position and bar
	// 3 crosses the threshold afresh.
	assert.Equal(t, []int{0, 1, 0, 1, 0}, signals.Positions())

	signals = GenerateSignals(hourlyTimes(len(z)), z, valid, params)
	// With bar 2 invalid the position is held through the gap and only
	// closes on the valid reversion at bar 4.
	assert.Equal(t, []int{0, 1, 1, 1, 0}, signals.Positions())
}

func TestGenerateSignals_InvalidZBlocksEntry(t *testing.T) {
	z := []float64{0, -2.1, -2.2}
	valid := []bool{true, false, true}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, valid, params)
	// Bar 1 is unusable, and bar 2 cannot enter either: its previous
	// observation is invalid, so no crossing is established.
	assert.Equal(t, []int{0, 0, 0}, signals.Positions())
}

func TestGenerateSignals_FirstBarNeverDecides(t *testing.T) {
	z := []float64{-5.0, -5.0}
	params := domain.StrategyParams{ZEntry: 2.0, ZExit: 0.5, ZStop: 3.0}

	signals := GenerateSignals(hourlyTimes(len(z)), z, allValid(len(z)), params)
	assert.Equal(t, domain.PositionFlat, signals[0].Position)
}
