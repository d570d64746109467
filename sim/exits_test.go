package sim

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/rotator/market"
	"github.com/rustyeddy/rotator/strategies"
	"github.com/stretchr/testify/assert"
)

var entryDay = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func testEvaluator() *ExitEvaluator {
	return NewExitEvaluator(DefaultExitRules(), strategies.Buckets{
		Below: []string{"TQQQ", "SOXL"},
		Above: []string{"BIL", "SQQQ"},
	})
}

func bar(date time.Time, closePx, ma, atr float64) market.AnnotatedBar {
	return market.AnnotatedBar{
		Bar: market.Bar{Date: date, Close: closePx},
		MA:  ma,
		ATR: atr,
	}
}

func pos(ticker string, entry float64) Position {
	return Position{ID: "P1", Ticker: ticker, EntryDate: entryDay, EntryPrice: entry, Shares: 10}
}

func TestExitReasonStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no_exit", NoExit.String())
	assert.Equal(t, "", NoExit.Label())
	assert.Equal(t, "Condition 3", ATRTarget.Label())
	assert.Equal(t, 5, TimeLimit.Rule())
	assert.Equal(t, "unknown", ExitReason(42).String())
}

func TestEvaluateNoExit(t *testing.T) {
	t.Parallel()

	e := testEvaluator()
	d := e.Evaluate(pos("TQQQ", 100), bar(entryDay, 90, 100, 1), bar(entryDay.AddDate(0, 0, 1), 101, 0, 2))
	assert.False(t, d.ShouldExit)
	assert.Equal(t, NoExit, d.Reason)
	assert.Empty(t, d.Fired)
}

func TestEvaluateRegimeFlips(t *testing.T) {
	t.Parallel()

	e := testEvaluator()
	next := entryDay.AddDate(0, 0, 1)

	d := e.Evaluate(pos("TQQQ", 100), bar(next, 110, 100, 1), bar(next, 100, 0, 2))
	assert.True(t, d.ShouldExit)
	assert.Equal(t, RegimeAboveMA, d.Reason)

	d = e.Evaluate(pos("BIL", 100), bar(next, 90, 100, 1), bar(next, 100, 0, 2))
	assert.True(t, d.ShouldExit)
	assert.Equal(t, RegimeBelowMA, d.Reason)

	// a regime that matches the holding keeps it
	d = e.Evaluate(pos("BIL", 100), bar(next, 110, 100, 1), bar(next, 100, 0, 2))
	assert.False(t, d.ShouldExit)

	// equality and an undefined average never flip
	d = e.Evaluate(pos("TQQQ", 100), bar(next, 100, 100, 1), bar(next, 100, 0, 2))
	assert.False(t, d.ShouldExit)
	d = e.Evaluate(pos("TQQQ", 100), bar(next, 110, math.NaN(), 1), bar(next, 100, 0, 2))
	assert.False(t, d.ShouldExit)
}

func TestEvaluateATRTargetBoundary(t *testing.T) {
	t.Parallel()

	e := testEvaluator()
	next := entryDay.AddDate(0, 0, 1)
	bench := bar(next, 90, 100, 1)

	d := e.Evaluate(pos("TQQQ", 100), bench, bar(next, 106, 0, 2))
	assert.True(t, d.ShouldExit)
	assert.Equal(t, ATRTarget, d.Reason)

	// +5% still fires at 105.999, but the ATR rule does not
	d = e.Evaluate(pos("TQQQ", 100), bench, bar(next, 105.999, 0, 2))
	assert.True(t, d.ShouldExit)
	assert.Equal(t, ProfitTarget, d.Reason)
	assert.NotContains(t, d.Fired, ATRTarget)

	// undefined ATR never fires
	d = e.Evaluate(pos("TQQQ", 100), bench, bar(next, 104, 0, math.NaN()))
	assert.False(t, d.ShouldExit)
}

func TestEvaluateProfitTarget(t *testing.T) {
	t.Parallel()

	e := testEvaluator()
	next := entryDay.AddDate(0, 0, 1)
	bench := bar(next, 90, 100, 1)

	d := e.Evaluate(pos("TQQQ", 100), bench, bar(next, 105, 0, 10))
	assert.True(t, d.ShouldExit)
	assert.Equal(t, ProfitTarget, d.Reason)

	d = e.Evaluate(pos("TQQQ", 100), bench, bar(next, 104.99, 0, 10))
	assert.False(t, d.ShouldExit)
}

func TestEvaluateTimeLimitInclusive(t *testing.T) {
	t.Parallel()

	e := testEvaluator()
	bench := bar(entryDay, 90, 100, 1)

	tests := []struct {
		days int
		exit bool
	}{
		{0, false},
		{4, false},
		{5, true},
		{8, true},
	}
	for _, tt := range tests {
		day := entryDay.AddDate(0, 0, tt.days)
		d := e.Evaluate(pos("TQQQ", 100), bench, bar(day, 99, 0, 10))
		assert.Equal(t, tt.exit, d.ShouldExit, "days=%d", tt.days)
		if tt.exit {
			assert.Equal(t, TimeLimit, d.Reason)
		}
	}
}

func TestEvaluateReportsFirstOfSeveral(t *testing.T) {
	t.Parallel()

	e := testEvaluator()
	day := entryDay.AddDate(0, 0, 6)

	d := e.Evaluate(pos("TQQQ", 100), bar(day, 110, 100, 1), bar(day, 120, 0, 2))
	assert.True(t, d.ShouldExit)
	assert.Equal(t, RegimeAboveMA, d.Reason)
	assert.Equal(t, []ExitReason{RegimeAboveMA, ATRTarget, ProfitTarget, TimeLimit}, d.Fired)
}
