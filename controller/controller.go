// Package controller runs the single-threaded cooperative per-bar loop that
// ties every other component together, grounded on backtest/runner.go and
// cmd/trader-cobra/cmd/run.go's build-config → build-engine → iterate-bars →
// record-results sequencing, generalized from a one-shot simulation driver
// into a recurring Tick the CLI calls on a fixed cadence.
package controller

import (
	"context"
	"time"

	"github.com/evdnx/goldcore/broker"
	"github.com/evdnx/goldcore/config"
	"github.com/evdnx/goldcore/entry"
	"github.com/evdnx/goldcore/exitarbiter"
	"github.com/evdnx/goldcore/indicators"
	"github.com/evdnx/goldcore/logging"
	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/metrics"
	"github.com/evdnx/goldcore/momentum"
	"github.com/evdnx/goldcore/pattern"
	"github.com/evdnx/goldcore/position"
	"github.com/evdnx/goldcore/regime"
	"github.com/evdnx/goldcore/store"
	"github.com/evdnx/goldcore/structure"
	"github.com/evdnx/goldcore/tpladder"
	"github.com/evdnx/goldcore/uievents"
)

// Controller owns one symbol's decision loop: fetch bars, run the indicator
// and pattern pipeline, evaluate exits for open positions, evaluate entry
// for a new one, and publish the tick's events.
type Controller struct {
	cfg      *config.Config
	terminal broker.Terminal
	store    *store.Store
	log      logging.Logger
	metrics  *metrics.Metrics
	events   *uievents.Queue

	lastEntryTime time.Time
	reconnectSeq  int
}

// New wires the controller's collaborators together; none of them are
// owned beyond this struct's lifetime.
func New(cfg *config.Config, terminal broker.Terminal, st *store.Store, log logging.Logger, m *metrics.Metrics, events *uievents.Queue) *Controller {
	return &Controller{
		cfg:      cfg,
		terminal: terminal,
		store:    st,
		log:      log,
		metrics:  m,
		events:   events,
	}
}

// Tick runs exactly one iteration of the per-bar loop (§4.11, steps 1-6).
func (c *Controller) Tick(ctx context.Context) error {
	period, err := c.cfg.PeriodDuration()
	if err != nil {
		return err
	}

	// Step 1: verify terminal connection.
	if !c.terminal.Ping(ctx) {
		c.log.Warn("terminal_disconnected", logging.String("symbol", c.cfg.Symbol))
		c.events.Publish(uievents.Event{Kind: uievents.ConnectionStatus, Time: time.Now(),
			ConnectionStatus: &uievents.ConnectionStatusPayload{Connected: false, Detail: "ping failed"}})
		return c.reconnect(ctx)
	}
	c.reconnectSeq = 0

	// Step 2: fetch bars.
	bars, err := c.terminal.FetchBars(ctx, c.cfg.Symbol, period, c.cfg.BarsToFetch)
	if err != nil {
		c.log.Error("fetch_bars_failed", logging.Err(err))
		return err
	}
	if len(bars) < c.cfg.MinBarsRequired {
		c.log.Warn("insufficient_history", logging.Int("have", len(bars)), logging.Int("need", c.cfg.MinBarsRequired))
		return nil
	}

	// Step 3: indicators, pattern, regime.
	pipeline := indicators.NewPipeline()
	snap, err := pipeline.Compute(bars)
	if err != nil {
		c.log.Error("indicator_pipeline_failed", logging.Err(err))
		return err
	}

	pat, found := pattern.Detect(bars, snap.ATR14)
	reg := regime.Evaluate(bars[len(bars)-1].Close, snap.EMA50, snap.EMA200)

	closes := lastCloses(bars, 3)
	mom := momentum.Classify(snap.ADX14, closes[0], closes[1], closes[2])
	struc := structure.Classify(bars)

	c.events.Publish(uievents.Event{Kind: uievents.MarketData, Time: time.Now(), MarketData: &uievents.MarketDataPayload{
		Symbol: c.cfg.Symbol, Close: bars[len(bars)-1].Close, EMA50: snap.EMA50, EMA200: snap.EMA200, ATR14: snap.ATR14,
	}})
	c.events.Publish(uievents.Event{Kind: uievents.Regime, Time: time.Now(), Regime: &uievents.RegimePayload{
		Regime: reg.Regime, Confidence: reg.Confidence, Momentum: mom, Structure: struc,
	}})

	// Step 4: run exits for every open position.
	for _, snapPos := range c.store.GetAllPositions() {
		pos := position.Position(snapPos)
		if err := c.evaluateExit(&pos, bars, snap, reg, mom, struc); err != nil {
			c.log.Error("exit_evaluation_failed", logging.String("ticket", pos.Ticket), logging.Err(err))
		}
	}

	creds := config.LoadCredentialsFromEnv()
	acct, err := c.terminal.Connect(ctx, creds.Login, creds.Password, creds.Server, creds.TerminalPath)
	if err != nil {
		c.log.Warn("account_fetch_failed", logging.Err(err))
	}

	// Step 5: entry evaluation, only if no pyramid-limit conflict (long-only,
	// single-position-per-symbol pyramid limit of one).
	if len(c.store.GetAllPositions()) == 0 && found {
		if err := c.evaluateEntry(ctx, bars, snap, pat, reg, acct); err != nil {
			c.log.Error("entry_evaluation_failed", logging.Err(err))
		}
	}

	c.metrics.PositionsOpen.Set(float64(len(c.store.GetAllPositions())))
	c.metrics.Equity.Set(acct.Equity)

	return nil
}

func (c *Controller) evaluateExit(pos *position.Position, bars []market.Bar, snap indicators.Snapshot, reg regime.Snapshot, mom momentum.Momentum, struc structure.Structure) error {
	bar := bars[len(bars)-1]
	outcome, err := exitarbiter.Evaluate(pos, bars, snap, reg, mom, struc)
	if err != nil {
		return err
	}
	exitarbiter.ValidateReason(outcome, pos.TP3Price, pos.CurrentStopLoss, bar.Time)

	if !outcome.Exit {
		if outcome.NewStopLoss > 0 {
			if err := c.terminal.ModifyStop(context.Background(), broker.Ticket(pos.Ticket), outcome.NewStopLoss); err != nil {
				c.log.Warn("modify_stop_failed", logging.String("ticket", pos.Ticket), logging.Err(err))
			}
			_ = c.store.UpdatePositionTPState(pos.Ticket, pos.TPState, outcome.NewStopLoss, pos.BarsHeldAfterTP1, pos.BarsHeldAfterTP2, bar.Time)
		}
		c.log.Info("no_exit", logging.String("ticket", pos.Ticket), logging.String("reason", outcome.NoExitReason))
		c.events.Publish(uievents.Event{Kind: uievents.TpLadder, Time: time.Now(), TpLadder: &uievents.TpLadderPayload{
			Ticket: pos.Ticket, TP1: pos.TP1Price, TP2: pos.TP2Price, TP3: pos.TP3Price, StopLoss: pos.CurrentStopLoss, State: pos.TPState.String(),
		}})
		return nil
	}

	fill, err := c.terminal.ClosePosition(context.Background(), broker.Ticket(pos.Ticket))
	if err != nil {
		return err
	}
	ct, err := c.store.ClosePosition(pos.Ticket, fill.ClosePrice, outcome.ExitReason, fill.CloseTime)
	if err != nil {
		return err
	}
	c.metrics.RecordExit(outcome.ExitReason)
	c.events.Publish(uievents.Event{Kind: uievents.PositionClosed, Time: time.Now(), PositionClosed: &uievents.PositionClosedPayload{
		Ticket: pos.Ticket, ExitPrice: ct.ExitPrice, ExitReason: ct.ExitReason, Profit: ct.Profit,
	}})
	return nil
}

func (c *Controller) evaluateEntry(ctx context.Context, bars []market.Bar, snap indicators.Snapshot, pat *pattern.Pattern, reg regime.Snapshot, acct broker.Account) error {
	meta := market.Instruments[c.cfg.Symbol]
	accountCcy := acct.Currency
	if accountCcy == "" {
		accountCcy = "USD"
	}
	quoteToAccount, err := market.QuoteToAccountRate(c.cfg.Symbol, accountCcy, barTickSource{bar: bars[len(bars)-1]})
	if err != nil {
		c.log.Warn("quote_conversion_failed", logging.Err(err))
		quoteToAccount = 1.0
	}

	now := bars[len(bars)-1].Time.Add(mustPeriod(c.cfg))
	dayPnL := c.store.RealizedPnLSince(now.Add(-24 * time.Hour))
	weekPnL := c.store.RealizedPnLSince(now.Add(-7 * 24 * time.Hour))

	qualityScore := regime.CompositeQuality(regime.QualityInputs{
		PatternQuality:            pat.QualityScore,
		MomentumScore:             5,
		EmaAlignmentScore:         reg.Confidence * 10,
		VolatilityAppropriateness: 5,
	})

	decision := entry.Evaluate(entry.Context{
		Now:                   now,
		Period:                mustPeriod(c.cfg),
		Bars:                  bars,
		ReferenceBarIndex:     len(bars) - 1,
		Indicators:            snap,
		Pattern:               pat,
		Regime:                reg,
		QualityScore:          qualityScore,
		MomentumFilterEnabled: c.cfg.MomentumFilterEnabled,
		MomentumAtrThreshold:  c.cfg.MomentumAtrThreshold,
		AtrMultiplierStop:     c.cfg.AtrMultiplierStop,
		CooldownHours:         c.cfg.CooldownHours,
		LastEntryTime:         c.lastEntryTime,
		Equity:                acct.Equity,
		RiskPercent:           c.cfg.RiskPercent,
		PipLocation:           meta.PipLocation,
		QuoteToAccount:        quoteToAccount,
		RiskPolicy:            c.cfg.RiskPolicy(),
		FirstTargetRR:         c.cfg.RRRatios[0],
		OpenTrades:            acct.OpenTrades,
		MarginUsed:            acct.MarginUsed,
		MarginAvail:           acct.MarginAvail,
		DayRealizedPnL:        dayPnL,
		WeekRealizedPnL:       weekPnL,
	})

	failureLabel := string(decision.FailureCode)
	if failureLabel == "" {
		failureLabel = decision.Verdict.String()
	}
	c.metrics.RecordEntry(failureLabel)
	c.events.Publish(uievents.Event{Kind: uievents.EntryConditions, Time: time.Now(), EntryConditions: &uievents.EntryConditionsPayload{
		GatePassed: decision.GatePassed, FailureCode: failureLabel, QualityScore: decision.QualityScore,
	}})

	if decision.Verdict != entry.EnterLong {
		return nil
	}

	sl := decision.StopLoss
	ticket, err := c.terminal.PlaceMarketOrder(ctx, c.cfg.Symbol, broker.Buy, decision.Sizing.Units, &sl, nil)
	if err != nil {
		return err
	}

	levels, err := tpladder.CalculateTPLevels(decision.EntryPrice, decision.StopLoss, c.cfg.RRRatios)
	if err != nil {
		return err
	}

	pos := position.Position{
		Ticket:          string(ticket),
		Direction:       1,
		EntryPrice:      decision.EntryPrice,
		InitialStopLoss: decision.StopLoss,
		CurrentStopLoss: decision.StopLoss,
		TP1Price:        levels.TP1,
		TP2Price:        levels.TP2,
		TP3Price:        levels.TP3,
		RiskCash:        decision.Sizing.RiskAmount,
		Volume:          decision.Sizing.Units,
		EntryTime:       bars[len(bars)-1].Time,
		TPState:         position.InTrade,
	}
	if err := c.store.OpenPosition(pos); err != nil {
		return err
	}
	c.lastEntryTime = bars[len(bars)-1].Time

	c.events.Publish(uievents.Event{Kind: uievents.PositionOpened, Time: time.Now(), PositionOpened: &uievents.PositionOpenedPayload{
		Ticket: pos.Ticket, EntryPrice: pos.EntryPrice, Volume: pos.Volume,
	}})
	return nil
}

// reconnect implements the 3s/6s/9s exponential backoff named in §4.11.
func (c *Controller) reconnect(ctx context.Context) error {
	delays := []time.Duration{3 * time.Second, 6 * time.Second, 9 * time.Second}
	idx := c.reconnectSeq
	if idx >= len(delays) {
		idx = len(delays) - 1
	}
	c.reconnectSeq++

	select {
	case <-time.After(delays[idx]):
	case <-ctx.Done():
		return ctx.Err()
	}

	creds := config.LoadCredentialsFromEnv()
	_, err := c.terminal.Connect(ctx, creds.Login, creds.Password, creds.Server, creds.TerminalPath)
	return err
}

func mustPeriod(cfg *config.Config) time.Duration {
	d, err := cfg.PeriodDuration()
	if err != nil {
		return time.Hour
	}
	return d
}

// barTickSource adapts the last fetched bar into the market.TickSource
// QuoteToAccountRate needs; the core has no independent live tick feed, only
// the closed-bar history already fetched this tick.
type barTickSource struct {
	bar market.Bar
}

func (b barTickSource) GetTick(_ context.Context, instrument string) (market.Tick, error) {
	return market.Tick{Instrument: instrument, Bid: b.bar.Close, Ask: b.bar.Close}, nil
}

func lastCloses(bars []market.Bar, n int) [3]float64 {
	var out [3]float64
	l := len(bars)
	for i := 0; i < n; i++ {
		idx := l - n + i
		if idx < 0 {
			idx = 0
		}
		out[i] = bars[idx].Close
	}
	return out
}
