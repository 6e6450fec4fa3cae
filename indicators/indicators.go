// Package indicators provides the streaming technical-analysis indicators
// that drive the entry and exit decision engines.
package indicators

import "github.com/evdnx/goldcore/market"

// Indicator computes a single streaming value from bars.
// It is deterministic and safe to use in live, replay, and backtests.
type Indicator interface {
	// Name returns a stable identifier like "EMA(50)" or "ATR(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool
}

// ValueF64 is implemented by indicators whose current value is a float64.
type ValueF64 interface {
	Value() float64
}
