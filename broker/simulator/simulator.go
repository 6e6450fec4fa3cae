// Package simulator is a deterministic in-process broker.Terminal
// implementation used by the CLI and tests. Adapted from sim.Engine's
// mutex-protected trade map, margin bookkeeping (sim/margin.go), and P/L
// computation (sim/pl.go), generalized from sim.Engine's own fixed
// TP/SL-in-pips Trade shape to ticket-opaque positions: the simulator only
// tracks fills, margin, and account equity — stop-loss/take-profit
// evaluation is the core's own job (exitarbiter), not the terminal's, so
// sim/engine.go's UpdatePrice hit-detection switch is not carried over
// here; its SL-before-TP precedence is instead the grounding for
// exitarbiter.Evaluate's own step 1.
package simulator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/evdnx/goldcore/broker"
	"github.com/evdnx/goldcore/ids"
	"github.com/evdnx/goldcore/market"
)

type openTrade struct {
	ticket     broker.Ticket
	symbol     string
	side       broker.Side
	volume     float64
	entryPrice float64
	stopLoss   float64
	takeProfit float64
	openTime   time.Time
}

// Simulator is a deterministic broker.Terminal backed by an in-memory
// account and a preloaded bar series, suitable for `goldcore run`/`replay`
// and for package tests that need a Terminal without a live venue.
type Simulator struct {
	mu sync.Mutex

	account broker.Account
	trades  map[broker.Ticket]*openTrade

	bars       map[string][]market.Bar
	marginRate float64

	connected bool
}

// New builds a simulator seeded with a starting balance and margin rate
// (fraction of notional required as margin, mirroring
// market.InstrumentMeta.MarginRate).
func New(startingBalance float64, marginRate float64) *Simulator {
	return &Simulator{
		account: broker.Account{
			Currency:    "USD",
			Balance:     startingBalance,
			Equity:      startingBalance,
			MarginAvail: startingBalance,
		},
		trades:     make(map[broker.Ticket]*openTrade),
		bars:       make(map[string][]market.Bar),
		marginRate: marginRate,
	}
}

// LoadBars seeds the bar series FetchBars will serve for a symbol, used by
// the `replay` CLI command to feed a CSV file through the controller and by
// `run` to seed synthetic warmup bars.
func (s *Simulator) LoadBars(symbol string, bars []market.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars[symbol] = bars
}

func (s *Simulator) Connect(ctx context.Context, login, password, server, terminalPath string) (broker.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return s.account, nil
}

func (s *Simulator) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

func (s *Simulator) Ping(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Simulator) FetchBars(ctx context.Context, symbol string, period time.Duration, count int) ([]market.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, ok := s.bars[symbol]
	if !ok || len(all) == 0 {
		return nil, fmt.Errorf("simulator: no bars loaded for %s", symbol)
	}
	if count >= len(all) {
		return all, nil
	}
	return all[len(all)-count:], nil
}

func (s *Simulator) FetchOpenPositions(ctx context.Context) ([]broker.BrokerPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]broker.BrokerPosition, 0, len(s.trades))
	for _, t := range s.trades {
		out = append(out, broker.BrokerPosition{
			Ticket:     t.ticket,
			Symbol:     t.symbol,
			Side:       t.side,
			Volume:     t.volume,
			EntryPrice: t.entryPrice,
			StopLoss:   t.stopLoss,
			TakeProfit: t.takeProfit,
			OpenTime:   t.openTime,
		})
	}
	return out, nil
}

func (s *Simulator) PlaceMarketOrder(ctx context.Context, symbol string, side broker.Side, volume float64, sl, tp *float64) (broker.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bars := s.bars[symbol]
	if len(bars) == 0 {
		return "", fmt.Errorf("simulator: cannot fill order, no market data for %s", symbol)
	}
	entry := bars[len(bars)-1].Close

	notional := volume * entry
	margin := notional * s.marginRate
	if margin > s.account.MarginAvail {
		return "", fmt.Errorf("simulator: insufficient margin: need %.2f, have %.2f", margin, s.account.MarginAvail)
	}

	t := &openTrade{
		ticket:     broker.Ticket(ids.New()),
		symbol:     symbol,
		side:       side,
		volume:     volume,
		entryPrice: entry,
		openTime:   time.Now(),
	}
	if sl != nil {
		t.stopLoss = *sl
	}
	if tp != nil {
		t.takeProfit = *tp
	}

	s.trades[t.ticket] = t
	s.account.MarginUsed += margin
	s.account.MarginAvail -= margin
	s.account.OpenTrades = len(s.trades)

	return t.ticket, nil
}

func (s *Simulator) ModifyStop(ctx context.Context, ticket broker.Ticket, newSL float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trades[ticket]
	if !ok {
		return fmt.Errorf("simulator: unknown ticket %s", ticket)
	}
	t.stopLoss = newSL
	return nil
}

func (s *Simulator) ClosePosition(ctx context.Context, ticket broker.Ticket) (broker.FillInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trades[ticket]
	if !ok {
		return broker.FillInfo{}, fmt.Errorf("simulator: unknown ticket %s", ticket)
	}

	bars := s.bars[t.symbol]
	closePrice := t.entryPrice
	if len(bars) > 0 {
		closePrice = bars[len(bars)-1].Close
	}

	profit := unrealizedPL(t, closePrice)

	notional := t.volume * t.entryPrice
	margin := notional * s.marginRate
	s.account.MarginUsed = math.Max(0, s.account.MarginUsed-margin)
	s.account.MarginAvail += margin
	s.account.Balance += profit
	s.account.Equity = s.account.Balance

	delete(s.trades, ticket)
	s.account.OpenTrades = len(s.trades)

	return broker.FillInfo{
		ClosePrice: closePrice,
		CloseTime:  time.Now(),
		Profit:     profit,
	}, nil
}

// unrealizedPL mirrors sim/pl.go's UnrealizedPL, generalized to a ticket-
// opaque openTrade instead of sim.Trade.
func unrealizedPL(t *openTrade, currentPrice float64) float64 {
	diff := currentPrice - t.entryPrice
	if t.side == broker.Sell {
		diff = -diff
	}
	return diff * t.volume
}

var _ broker.Terminal = (*Simulator)(nil)
