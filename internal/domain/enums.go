package domain

// RunMode selects which stages of the pipeline a scan run executes.
type RunMode string

const (
	// RunModeScan runs the cointegration tester only.
	RunModeScan RunMode = "scan"
	// RunModeBacktest runs tester + backtest with default thresholds.
	RunModeBacktest RunMode = "backtest"
	// RunModeOptimize runs tester + threshold grid search per pair.
	RunModeOptimize RunMode = "optimize"
	// RunModePortfolio runs optimize and aggregates the tuned pairs into an
	// equal-weighted portfolio.
	RunModePortfolio RunMode = "portfolio"
)

// IsValid returns true if the mode is a valid RunMode.
func (m RunMode) IsValid() bool {
	switch m {
	case RunModeScan, RunModeBacktest, RunModeOptimize, RunModePortfolio:
		return true
	default:
		return false
	}
}

// String returns the string representation of the mode.
func (m RunMode) String() string {
	return string(m)
}

// RunModeFromString converts a string to RunMode, defaulting to backtest.
func RunModeFromString(s string) RunMode {
	mode := RunMode(s)
	if mode.IsValid() {
		return mode
	}
	return RunModeBacktest
}

// Includes reports whether running mode m implies running stage other.
func (m RunMode) Includes(other RunMode) bool {
	order := map[RunMode]int{
		RunModeScan:      0,
		RunModeBacktest:  1,
		RunModeOptimize:  2,
		RunModePortfolio: 3,
	}
	mi, ok1 := order[m]
	oi, ok2 := order[other]
	return ok1 && ok2 && mi >= oi
}
