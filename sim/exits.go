package sim

import (
	"fmt"

	"github.com/rustyeddy/rotator/market"
	"github.com/rustyeddy/rotator/strategies"
)

// ExitReason identifies the exit rule that closed a position. The numeric
// value is the rule's precedence, 1 being checked first.
type ExitReason int

const (
	NoExit        ExitReason = iota
	RegimeAboveMA            // benchmark moved above its MA while holding a below-MA ticker
	RegimeBelowMA            // benchmark moved below its MA while holding an above-MA ticker
	ATRTarget                // close reached entry + N x ATR
	ProfitTarget             // close reached entry x (1 + pct)
	TimeLimit                // held for the maximum number of calendar days
)

var allExitReasons = []ExitReason{RegimeAboveMA, RegimeBelowMA, ATRTarget, ProfitTarget, TimeLimit}

func (r ExitReason) String() string {
	switch r {
	case NoExit:
		return "no_exit"
	case RegimeAboveMA:
		return "regime_above_ma"
	case RegimeBelowMA:
		return "regime_below_ma"
	case ATRTarget:
		return "atr_target"
	case ProfitTarget:
		return "profit_target"
	case TimeLimit:
		return "time_limit"
	default:
		return "unknown"
	}
}

// Rule is the 1-based rule number, 0 for NoExit.
func (r ExitReason) Rule() int { return int(r) }

// Label is the human readable rule name used in trade logs.
func (r ExitReason) Label() string {
	if r == NoExit {
		return ""
	}
	return fmt.Sprintf("Condition %d", r.Rule())
}

// ExitRules holds the thresholds of the price and time exits.
type ExitRules struct {
	ATRMultiple     float64 `json:"atr_multiple" yaml:"atr_multiple" validate:"gt=0"`
	ProfitTargetPct float64 `json:"profit_target_pct" yaml:"profit_target_pct" validate:"gt=0"`
	MaxHoldDays     int     `json:"max_hold_days" yaml:"max_hold_days" validate:"gt=0"`
}

// DefaultExitRules returns 3 x ATR, +5% and 5 calendar days.
func DefaultExitRules() ExitRules {
	return ExitRules{
		ATRMultiple:     3,
		ProfitTargetPct: 0.05,
		MaxHoldDays:     5,
	}
}

// ExitDecision is the outcome of evaluating one position on one day.
type ExitDecision struct {
	ShouldExit bool
	Reason     ExitReason
	Fired      []ExitReason // every rule that was true, in precedence order
}

// ExitEvaluator checks the exit rules of open positions. It never mutates
// anything; closing is left to the caller.
type ExitEvaluator struct {
	rules   ExitRules
	buckets strategies.Buckets
}

func NewExitEvaluator(rules ExitRules, buckets strategies.Buckets) *ExitEvaluator {
	return &ExitEvaluator{rules: rules, buckets: buckets}
}

// Evaluate checks every rule against the benchmark's and the position's bar
// for the same day and reports the first one that fired.
func (e *ExitEvaluator) Evaluate(p Position, benchmark, candidate market.AnnotatedBar) ExitDecision {
	var d ExitDecision
	for _, r := range allExitReasons {
		if e.fires(r, p, benchmark, candidate) {
			d.Fired = append(d.Fired, r)
		}
	}
	if len(d.Fired) > 0 {
		d.ShouldExit = true
		d.Reason = d.Fired[0]
	}
	return d
}

func (e *ExitEvaluator) fires(r ExitReason, p Position, benchmark, candidate market.AnnotatedBar) bool {
	switch r {
	case RegimeAboveMA:
		return benchmark.HasMA() && benchmark.Close > benchmark.MA && e.buckets.InBelow(p.Ticker)
	case RegimeBelowMA:
		return benchmark.HasMA() && benchmark.Close < benchmark.MA && e.buckets.InAbove(p.Ticker)
	case ATRTarget:
		return candidate.HasATR() && candidate.Close >= p.EntryPrice+e.rules.ATRMultiple*candidate.ATR
	case ProfitTarget:
		return candidate.Close >= p.EntryPrice*(1+e.rules.ProfitTargetPct)
	case TimeLimit:
		return market.DaysBetween(p.EntryDate, candidate.Date) >= e.rules.MaxHoldDays
	}
	return false
}
