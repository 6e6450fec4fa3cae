// Package uievents is the one-way event stream the controller publishes at
// most once per tick (§5's "no direct mutation from background tasks"
// ordering guarantee): the core is the sole producer, consumers read only.
// Grounded on the teacher's own UI/event-publishing idiom generalized from
// the distillation's market-only shape into the full tagged-event union the
// spec names.
package uievents

import (
	"time"

	"github.com/evdnx/goldcore/momentum"
	"github.com/evdnx/goldcore/regime"
	"github.com/evdnx/goldcore/structure"
)

// Kind tags which payload an Event carries.
type Kind int

const (
	MarketData Kind = iota
	Regime
	EntryConditions
	TpLadder
	TpDecision
	PositionOpened
	PositionClosed
	ConnectionStatus
)

func (k Kind) String() string {
	switch k {
	case MarketData:
		return "MarketData"
	case Regime:
		return "Regime"
	case EntryConditions:
		return "EntryConditions"
	case TpLadder:
		return "TpLadder"
	case TpDecision:
		return "TpDecision"
	case PositionOpened:
		return "PositionOpened"
	case PositionClosed:
		return "PositionClosed"
	case ConnectionStatus:
		return "ConnectionStatus"
	default:
		return "Unknown"
	}
}

// Event is a single tagged message on the stream. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Event struct {
	Kind Kind
	Time time.Time

	MarketData       *MarketDataPayload
	Regime           *RegimePayload
	EntryConditions  *EntryConditionsPayload
	TpLadder         *TpLadderPayload
	TpDecision       *TpDecisionPayload
	PositionOpened   *PositionOpenedPayload
	PositionClosed   *PositionClosedPayload
	ConnectionStatus *ConnectionStatusPayload
}

type MarketDataPayload struct {
	Symbol string
	Close  float64
	EMA50  float64
	EMA200 float64
	ATR14  float64
}

type RegimePayload struct {
	Regime     regime.Regime
	Confidence float64
	Momentum   momentum.Momentum
	Structure  structure.Structure
}

type EntryConditionsPayload struct {
	GatePassed   int
	FailureCode  string
	QualityScore float64
}

type TpLadderPayload struct {
	Ticket   string
	TP1      float64
	TP2      float64
	TP3      float64
	StopLoss float64
	State    string
}

// TpDecisionPayload reports which waiting-window engine produced a verdict:
// "tp1" or "tp2" per §6.4.
type TpDecisionPayload struct {
	Ticket   string
	Window   string
	Verdict  string
	NewStop  float64
}

type PositionOpenedPayload struct {
	Ticket     string
	EntryPrice float64
	Volume     float64
}

type PositionClosedPayload struct {
	Ticket     string
	ExitPrice  float64
	ExitReason string
	Profit     float64
}

type ConnectionStatusPayload struct {
	Connected bool
	Detail    string
}

// Queue is the buffered, single-producer event stream. The controller is
// the only writer; Publish never blocks forever — a full queue drops the
// oldest event to keep the hot path from stalling, matching the spec's "at
// most once per tick" cadence (a consumer that falls behind sees gaps, not
// backpressure on the controller).
type Queue struct {
	ch chan Event
}

// NewQueue builds a Queue with the given buffer size.
func NewQueue(bufferSize int) *Queue {
	return &Queue{ch: make(chan Event, bufferSize)}
}

// Publish enqueues ev, dropping the oldest queued event if the buffer is
// full rather than blocking the controller's tick.
func (q *Queue) Publish(ev Event) {
	select {
	case q.ch <- ev:
	default:
		select {
		case <-q.ch:
		default:
		}
		select {
		case q.ch <- ev:
		default:
		}
	}
}

// Events returns the read-only channel consumers range over.
func (q *Queue) Events() <-chan Event {
	return q.ch
}
