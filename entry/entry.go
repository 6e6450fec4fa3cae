// Package entry combines the pattern, indicator, regime, and cooldown
// gates into a single ENTER_LONG/NO_TRADE verdict, then runs the sized
// order past risk.Evaluate's exposure and circuit-breaker policy. The
// six pattern/context gates stop at the FIRST failing gate (unlike
// risk.Evaluate, which collects every violation) because the spec
// requires a single deterministic failure_code; risk.Evaluate's own
// violation list is only consulted for its first entry once sizing is
// known.
package entry

import (
	"math"
	"time"

	"github.com/evdnx/goldcore/barguard"
	"github.com/evdnx/goldcore/indicators"
	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/pattern"
	"github.com/evdnx/goldcore/regime"
	"github.com/evdnx/goldcore/risk"
)

type Verdict int

const (
	NoTrade Verdict = iota
	EnterLong
)

func (v Verdict) String() string {
	if v == EnterLong {
		return "ENTER_LONG"
	}
	return "NO_TRADE"
}

type FailureCode string

const (
	None                    FailureCode = ""
	BarNotClosed            FailureCode = "BAR_NOT_CLOSED"
	InvalidPatternStructure FailureCode = "INVALID_PATTERN_STRUCTURE"
	NoNecklineBreak         FailureCode = "NO_NECKLINE_BREAK"
	ContextNotAligned       FailureCode = "CONTEXT_NOT_ALIGNED"
	CooldownActive          FailureCode = "COOLDOWN_ACTIVE"
	RegimeConflict          FailureCode = "REGIME_CONFLICT"
	RiskPolicyRejected      FailureCode = "RISK_POLICY_REJECTED"
)

// Decision is the entry engine's result for one bar-close evaluation.
type Decision struct {
	Verdict      Verdict
	ReasonText   string
	FailureCode  FailureCode
	QualityScore float64
	GatePassed   int

	EntryPrice float64
	StopLoss   float64
	Sizing     risk.Result
}

// Context bundles every input Evaluate needs.
type Context struct {
	Now               time.Time
	Period            time.Duration
	Bars              []market.Bar // closed bars, most recent last
	ReferenceBarIndex int          // index into Bars of the bar under evaluation
	Indicators        indicators.Snapshot
	Pattern           *pattern.Pattern
	Regime            regime.Snapshot
	QualityScore      float64

	MomentumFilterEnabled bool
	MomentumAtrThreshold  float64
	AtrMultiplierStop     float64
	CooldownHours         float64
	LastEntryTime         time.Time

	Equity         float64
	RiskPercent    float64
	PipLocation    int
	QuoteToAccount float64

	// RiskPolicy gates the sized order against exposure and circuit-breaker
	// limits via risk.Evaluate, producing the RiskDecision the domain model
	// names; FirstTargetRR is the nearest take-profit's RR multiple (the
	// ladder's rr_ratios[0]), used only to compute the intent's take-profit
	// for risk.Evaluate's minimum-RR check.
	RiskPolicy      risk.Policy
	FirstTargetRR   float64
	OpenTrades      int
	MarginUsed      float64
	MarginAvail     float64
	DayRealizedPnL  float64
	WeekRealizedPnL float64
}

// Evaluate runs the ordered gates, stopping at the first failure.
func Evaluate(ctx Context) Decision {
	bar := ctx.Bars[ctx.ReferenceBarIndex]

	// Gate 1: bar closed.
	if err := barguard.Validate(bar, ctx.Now, ctx.Period); err != nil {
		return fail(BarNotClosed, "reference bar has not closed", 1)
	}

	// Gate 2: pattern non-null and internally valid.
	if ctx.Pattern == nil || !patternValid(ctx.Pattern) {
		return fail(InvalidPatternStructure, "no valid double-bottom pattern", 2)
	}

	// Gate 3: breakout close > neckline on the reference bar.
	if ctx.ReferenceBarIndex != ctx.Pattern.BreakoutIndex || bar.Close <= ctx.Pattern.NecklinePrice {
		return fail(NoNecklineBreak, "reference bar is not the confirmed breakout bar", 3)
	}

	// Gate 4: trend context + optional momentum filter.
	aligned := bar.Close > ctx.Indicators.EMA50
	if aligned && ctx.MomentumFilterEnabled {
		aligned = math.Abs(bar.Close-bar.Open) >= ctx.MomentumAtrThreshold*ctx.Indicators.ATR14
	}
	if !aligned {
		return fail(ContextNotAligned, "close not above ema50 (or momentum filter failed)", 4)
	}

	// Gate 5: cooldown.
	if !ctx.LastEntryTime.IsZero() {
		elapsed := ctx.Now.Sub(ctx.LastEntryTime).Hours()
		if elapsed < ctx.CooldownHours {
			return fail(CooldownActive, "cooldown window still active", 5)
		}
	}

	// Gate 6: quality gate + regime.
	if !regime.PassesQualityGate(ctx.QualityScore, ctx.Regime.Regime) {
		return fail(RegimeConflict, "quality score below threshold or regime conflict", 6)
	}

	entryPrice := bar.Close
	stopLoss := entryPrice - ctx.AtrMultiplierStop*ctx.Indicators.ATR14

	sizing := risk.Calculate(risk.Inputs{
		Equity:         ctx.Equity,
		RiskPct:        ctx.RiskPercent,
		EntryPrice:     entryPrice,
		StopPrice:      stopLoss,
		PipLocation:    ctx.PipLocation,
		QuoteToAccount: ctx.QuoteToAccount,
	})

	// Gate 7: exposure and circuit-breaker policy, applied to the sized
	// order. This runs after the six pattern/context gates above and never
	// preempts them; it only refuses a trade the pattern/context gates
	// already accepted.
	takeProfit := entryPrice + ctx.FirstTargetRR*(entryPrice-stopLoss)
	riskDecision := risk.Evaluate(
		ctx.RiskPolicy,
		risk.TradeIntent{
			Now:        ctx.Now,
			Instrument: "", // the core trades a single configured symbol
			Units:      sizing.Units,
			Entry:      entryPrice,
			Stop:       stopLoss,
			TakeProfit: takeProfit,
		},
		risk.AccountSnapshot{
			Balance:     ctx.Equity,
			Equity:      ctx.Equity,
			MarginUsed:  ctx.MarginUsed,
			MarginAvail: ctx.MarginAvail,
			OpenTrades:  ctx.OpenTrades,
		},
		risk.PnLSnapshot{
			DayRealized:  ctx.DayRealizedPnL,
			WeekRealized: ctx.WeekRealizedPnL,
		},
		ctx.QuoteToAccount,
	)
	if !riskDecision.Allowed {
		reason := "risk policy rejected the sized order"
		if len(riskDecision.Violations) > 0 {
			reason = riskDecision.Violations[0].Msg
		}
		return fail(RiskPolicyRejected, reason, 7)
	}

	return Decision{
		Verdict:      EnterLong,
		ReasonText:   "all gates passed",
		FailureCode:  None,
		QualityScore: ctx.QualityScore,
		GatePassed:   7,
		EntryPrice:   entryPrice,
		StopLoss:     stopLoss,
		Sizing:       sizing,
	}
}

func patternValid(p *pattern.Pattern) bool {
	return p.LeftLowIndex < p.NecklineIndex &&
		p.NecklineIndex < p.RightLowIndex &&
		p.RightLowIndex < p.BreakoutIndex &&
		p.NecklinePrice > 0
}

func fail(code FailureCode, reason string, gate int) Decision {
	return Decision{
		Verdict:     NoTrade,
		ReasonText:  reason,
		FailureCode: code,
		GatePassed:  gate - 1,
	}
}
