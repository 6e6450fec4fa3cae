// Package broker defines the terminal port: the interface through which the
// core fetches bars and account state and places orders against a trading
// terminal (live or simulated). Generalizes the teacher's plain
// GetAccount/GetTick/CreateMarketOrder Broker interface into the richer
// MT5-style surface the spec requires, with opaque ticket identifiers.
package broker

import (
	"context"
	"time"

	"github.com/evdnx/goldcore/market"
)

// Side is the direction of a market order. The core is long-only, but the
// terminal port models both sides since a real MT5-style venue does.
type Side int

const (
	Buy Side = iota
	Sell
)

// Ticket is an opaque broker-assigned identifier for an open position. The
// core never interprets its contents, only compares it for equality.
type Ticket string

// Account is the terminal's view of account state.
type Account struct {
	Currency    string
	Balance     float64
	Equity      float64
	MarginUsed  float64
	MarginAvail float64
	OpenTrades  int
}

// BrokerPosition is a position as reported by the terminal, used during
// startup recovery reconciliation against the state store.
type BrokerPosition struct {
	Ticket     Ticket
	Symbol     string
	Side       Side
	Volume     float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	OpenTime   time.Time
}

// FillInfo describes the result of closing a position.
type FillInfo struct {
	ClosePrice float64
	CloseTime  time.Time
	Profit     float64
}

// Terminal is the broker-facing port. All calls are synchronous from the
// core's point of view; implementations should honor ctx cancellation.
type Terminal interface {
	Connect(ctx context.Context, login, password, server, terminalPath string) (Account, error)
	Disconnect() error
	Ping(ctx context.Context) bool
	FetchBars(ctx context.Context, symbol string, period time.Duration, count int) ([]market.Bar, error)
	FetchOpenPositions(ctx context.Context) ([]BrokerPosition, error)
	PlaceMarketOrder(ctx context.Context, symbol string, side Side, volume float64, sl, tp *float64) (Ticket, error)
	ModifyStop(ctx context.Context, ticket Ticket, newSL float64) error
	ClosePosition(ctx context.Context, ticket Ticket) (FillInfo, error)
}
