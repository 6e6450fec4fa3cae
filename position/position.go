// Package position defines the long-only Position the State Store owns
// exclusively while a trade is open, plus its closed-trade projection.
package position

import "time"

// TPState is the take-profit ladder state a Position progresses through,
// evaluated on bar-close only (see tpladder.Advance).
type TPState int

const (
	InTrade TPState = iota
	TP1Reached
	TP2Reached
	TP3Reached
	Exited
)

func (s TPState) String() string {
	switch s {
	case InTrade:
		return "IN_TRADE"
	case TP1Reached:
		return "TP1_REACHED"
	case TP2Reached:
		return "TP2_REACHED"
	case TP3Reached:
		return "TP3_REACHED"
	case Exited:
		return "EXITED"
	default:
		return "UNKNOWN"
	}
}

// Position is owned exclusively by the state store while open; every other
// component receives only immutable Snapshot value copies.
type Position struct {
	Ticket string

	Direction int // always +1, long-only

	EntryPrice       float64
	InitialStopLoss  float64
	CurrentStopLoss  float64
	TP1Price         float64
	TP2Price         float64
	TP3Price         float64
	RiskCash         float64
	TP1Cash          float64
	TP2Cash          float64
	TP3Cash          float64
	Volume           float64
	EntryTime        time.Time

	TPState           TPState
	TPStateChangedAt  time.Time
	BarsHeldAfterTP1  int
	BarsHeldAfterTP2  int

	PostTP1Decision string
	TP1ExitReason   string
	PostTP2Decision string
	TP2ExitReason   string

	TrailingSLLevel   float64
	TrailingSLEnabled bool
}

// Snapshot is an immutable value copy handed to components other than the
// state store; mutating a Snapshot has no effect on the owned Position.
type Snapshot Position

func (p *Position) Snapshot() Snapshot {
	return Snapshot(*p)
}

// Valid checks the invariants from the spec's data model: strictly
// increasing TP levels, monotonic stop-loss, and breakeven/trailing
// correlation with tp_state.
func (p *Position) Valid() bool {
	if !(p.TP1Price < p.TP2Price && p.TP2Price < p.TP3Price) {
		return false
	}
	if p.CurrentStopLoss < p.InitialStopLoss {
		return false
	}
	if p.TPState >= TP1Reached && p.CurrentStopLoss < p.EntryPrice {
		return false
	}
	if p.TrailingSLEnabled != (p.TPState >= TP2Reached && p.TrailingSLLevel > 0) {
		return false
	}
	return true
}

// ClosedTrade is the immutable record created once a Position leaves the
// open set.
type ClosedTrade struct {
	Ticket            string
	EntryPrice        float64
	ExitPrice         float64
	EntryTime         time.Time
	ExitTime          time.Time
	Profit            float64
	ExitReason        string
	TP3PriceAtClose   float64
	Volume            float64
}

// Close moves a Position's terminal fields into a ClosedTrade. The caller
// is responsible for removing p from the open set atomically.
func (p *Position) Close(exitPrice float64, exitReason string, exitTime time.Time) ClosedTrade {
	return ClosedTrade{
		Ticket:          p.Ticket,
		EntryPrice:      p.EntryPrice,
		ExitPrice:       exitPrice,
		EntryTime:       p.EntryTime,
		ExitTime:        exitTime,
		Profit:          (exitPrice - p.EntryPrice) * p.Volume,
		ExitReason:      exitReason,
		TP3PriceAtClose: p.TP3Price,
		Volume:          p.Volume,
	}
}
