package backtest

import (
	"math"
	"time"

	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/sim"
)

// Result is the outcome of one Run.
type Result struct {
	RunID string
	Start time.Time
	End   time.Time
	Days  int

	// Trades holds BUY and SELL records in the order they happened.
	Trades []journal.TradeRecord
	// Closed holds the SELL records only.
	Closed []journal.TradeRecord
	// Open holds positions still open after the last date. They are not
	// part of the realized PnL.
	Open []sim.Position

	CumulativePnL float64
	// MaxOpen is the largest number of positions held at the end of any day.
	MaxOpen int
}

// ReturnPoint is one closed trade's return keyed by its exit date.
type ReturnPoint struct {
	Date   time.Time
	Symbol string
	Return float64
}

// Returns lists realized_pnl / |entry_price| for each closed trade in close
// order. Trades with a zero entry price are left out.
func (r *Result) Returns() []ReturnPoint {
	out := make([]ReturnPoint, 0, len(r.Closed))
	for _, t := range r.Closed {
		ret, ok := t.Return()
		if !ok {
			continue
		}
		out = append(out, ReturnPoint{Date: t.ExitDate, Symbol: t.Symbol, Return: ret})
	}
	return out
}

// Summary aggregates the closed trades of a run.
type Summary struct {
	Trades int
	Wins   int
	Losses int

	WinRate      float64 // percent
	GrossProfit  float64
	GrossLoss    float64 // positive
	ProfitFactor float64 // 0 when there are no losing trades
	NetPnL       float64
	MaxDrawdown  float64 // largest peak to trough drop of the realized PnL curve
	OpenAtEnd    int
}

func Summarize(r *Result) Summary {
	s := Summary{
		Trades:    len(r.Closed),
		NetPnL:    r.CumulativePnL,
		OpenAtEnd: len(r.Open),
	}

	var equity, peak float64
	for _, t := range r.Closed {
		switch {
		case t.RealizedPnL > 0:
			s.Wins++
			s.GrossProfit += t.RealizedPnL
		case t.RealizedPnL < 0:
			s.Losses++
			s.GrossLoss -= t.RealizedPnL
		}

		equity += t.RealizedPnL
		peak = math.Max(peak, equity)
		s.MaxDrawdown = math.Max(s.MaxDrawdown, peak-equity)
	}

	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades) * 100
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	return s
}
