package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/rotator/journal"
)

// WriteLedgerCSV writes every BUY and SELL record in trades_log.csv layout.
func WriteLedgerCSV(w io.Writer, r *Result) error {
	return journal.WriteCSV(w, r.Trades)
}

// WriteReturnsCSV writes the per-trade return series as date,symbol,return.
func WriteReturnsCSV(w io.Writer, r *Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "symbol", "return"}); err != nil {
		return err
	}
	for _, p := range r.Returns() {
		err := cw.Write([]string{
			p.Date.Format(time.DateOnly),
			p.Symbol,
			strconv.FormatFloat(p.Return, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrintSummary writes a human readable report of a run.
func PrintSummary(w io.Writer, cfg Config, r *Result) {
	s := Summarize(r)

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Benchmark:     %s\n", cfg.Universe.Benchmark)
	fmt.Fprintf(w, "Below bucket:  %v\n", cfg.Universe.Below)
	fmt.Fprintf(w, "Above bucket:  %v\n", cfg.Universe.Above)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.DateOnly))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.DateOnly))
	fmt.Fprintf(w, "Days:          %d\n", r.Days)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Strategy Configuration")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Max Positions: %d\n", cfg.MaxPositions)
	fmt.Fprintf(w, "Base Equity:   %.2f\n", cfg.BaseEquity)
	fmt.Fprintf(w, "Equity Usage:  %.2f%%\n", cfg.EquityUsage*100)
	fmt.Fprintf(w, "Order Type:    %s\n", cfg.OrderType)
	fmt.Fprintf(w, "Sizing:        %s\n", cfg.Sizing)
	fmt.Fprintf(w, "Exits:         %.1f x ATR, +%.2f%%, %d days\n",
		cfg.Exits.ATRMultiple, cfg.Exits.ProfitTargetPct*100, cfg.Exits.MaxHoldDays)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate)
	fmt.Fprintf(w, "Open at End:   %d\n", s.OpenAtEnd)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.NetPnL)
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}
	if s.MaxDrawdown > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f\n", s.MaxDrawdown)
	}

	if len(r.Open) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Open Positions")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, p := range r.Open {
			fmt.Fprintf(w, "- %s %d @ %.2f since %s\n",
				p.Ticker, p.Shares, p.EntryPrice, p.EntryDate.Format(time.DateOnly))
		}
	}

	fmt.Fprintln(w)
}
