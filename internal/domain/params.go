package domain

import "fmt"

// StrategyParams are the state machine thresholds and the flat per-trade
// transaction-cost rate.
type StrategyParams struct {
	ZEntry   float64 `json:"z_entry" yaml:"z_entry"`
	ZExit    float64 `json:"z_exit" yaml:"z_exit"`
	ZStop    float64 `json:"z_stop" yaml:"z_stop"`
	CostRate float64 `json:"cost_rate" yaml:"cost_rate"`
}

// DefaultParams returns the reference thresholds: enter at |z| > 2, exit
// inside 0.5, stop out beyond 3, 10bps cost per unit of position change.
func DefaultParams() StrategyParams {
	return StrategyParams{
		ZEntry:   2.0,
		ZExit:    0.5,
		ZStop:    3.0,
		CostRate: 0.001,
	}
}

// Validate checks the threshold ordering invariant: z_entry > z_exit >= 0 and
// z_stop >= z_entry, cost_rate >= 0. The stop may sit exactly on the entry:
// the stop rule only applies while in a position, so an entry crossing still
// opens and the stop fires from the next bar on.
func (p StrategyParams) Validate() error {
	if p.ZExit < 0 {
		return fmt.Errorf("%w: z_exit must be >= 0, got %v", ErrInvalidParams, p.ZExit)
	}
	if p.ZEntry <= p.ZExit {
		return fmt.Errorf("%w: z_entry (%v) must be strictly above z_exit (%v)", ErrInvalidParams, p.ZEntry, p.ZExit)
	}
	if p.ZStop < p.ZEntry {
		return fmt.Errorf("%w: z_stop (%v) must not be below z_entry (%v)", ErrInvalidParams, p.ZStop, p.ZEntry)
	}
	if p.CostRate < 0 {
		return fmt.Errorf("%w: cost_rate must be >= 0, got %v", ErrInvalidParams, p.CostRate)
	}
	return nil
}

// ParamGrid is the search space for the optimizer. Traversal is entry-major,
// exit-minor, which fixes the first-seen tie break deterministically.
type ParamGrid struct {
	Entries []float64 `json:"entries" yaml:"entries"`
	Exits   []float64 `json:"exits" yaml:"exits"`
}

// DefaultGrid returns the reference search grid.
func DefaultGrid() ParamGrid {
	return ParamGrid{
		Entries: []float64{1.5, 2.0, 2.5, 3.0},
		Exits:   []float64{0.1, 0.5, 1.0, 1.5},
	}
}
