package indicators

import (
	"fmt"

	"github.com/evdnx/goldcore/market"
)

// EMA is a streaming exponential moving average seeded by the first closed
// bar's close rather than an SMA warmup plateau, so the series has no
// look-ahead gap: adjust=false semantics from bar 1 onward, matching
// TradingView's continuous EMA rather than the SMA-then-recursive seeding a
// fixed-warmup streaming average would use.
type EMA struct {
	period     int
	multiplier float64

	value float64
	ready bool
}

func NewEMA(period int) *EMA {
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }

func (e *EMA) Warmup() int { return 1 }

func (e *EMA) Reset() {
	*e = EMA{period: e.period, multiplier: e.multiplier}
}

func (e *EMA) Ready() bool { return e.ready }

func (e *EMA) Value() float64 {
	if !e.ready {
		return 0
	}
	return e.value
}

func (e *EMA) Update(b market.Bar) {
	if !e.ready {
		e.value = b.Close
		e.ready = true
		return
	}
	e.value = (b.Close-e.value)*e.multiplier + e.value
}
