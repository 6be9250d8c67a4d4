package domain

import "errors"

// Skip reasons. These are expected per-pair outcomes in a batch run, never
// fatal to the run as a whole.
var (
	// ErrInsufficientData is returned when fewer than the minimum aligned
	// observations remain after joining a pair's series.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoReturns is returned when no net returns survive alignment, so the
	// pair has no valid backtest.
	ErrNoReturns = errors.New("no returns to evaluate")

	// ErrInvalidParams is returned when strategy thresholds violate the
	// ordering invariant (z_exit < z_entry < z_stop).
	ErrInvalidParams = errors.New("invalid strategy parameters")

	// ErrNoProfitableParams is returned when every grid combination yields no
	// result or a non-positive Sharpe baseline.
	ErrNoProfitableParams = errors.New("no profitable parameters found")

	// ErrNotCointegrated is returned when a pair fails the cointegration
	// verdict and is excluded from backtesting.
	ErrNotCointegrated = errors.New("pair is not cointegrated")
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// SkipError wraps a skip reason with the pair it applies to.
type SkipError struct {
	Pair   string
	Reason error
}

func (e SkipError) Error() string {
	return e.Pair + " skipped: " + e.Reason.Error()
}

func (e SkipError) Unwrap() error {
	return e.Reason
}

// NewSkipError creates a new SkipError.
func NewSkipError(pair string, reason error) SkipError {
	return SkipError{Pair: pair, Reason: reason}
}

// IsSkip reports whether err is one of the recoverable per-pair skip reasons.
func IsSkip(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNoReturns) ||
		errors.Is(err, ErrInvalidParams) ||
		errors.Is(err, ErrNoProfitableParams) ||
		errors.Is(err, ErrNotCointegrated)
}
