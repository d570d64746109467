package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for pasting into a journal.
// Structured facts go in the PROPERTIES drawer; the narrative headings are left empty.
func FormatTradeOrg(t TradeRecord) string {
	state := "OPEN"
	if t.Action == Sell {
		state = "CLOSED"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Symbol, state, shortID(t.TradeID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	if t.RunID != "" {
		fmt.Fprintf(&b, ":RUN_ID: %s\n", t.RunID)
	}
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":SHARES: %d\n", t.Shares)
	fmt.Fprintf(&b, ":ENTRY_DATE: %s\n", t.EntryDate.UTC().Format(time.DateOnly))
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.2f\n", t.EntryPrice)
	fmt.Fprintf(&b, ":ENTRY_SIGNAL: %s\n", t.EntrySignal)
	if t.Action == Sell {
		fmt.Fprintf(&b, ":EXIT_DATE: %s\n", t.ExitDate.UTC().Format(time.DateOnly))
		fmt.Fprintf(&b, ":EXIT_PRICE: %.2f\n", t.ExitPrice)
		fmt.Fprintf(&b, ":EXIT_REASON: %s\n", t.ExitReason)
		fmt.Fprintf(&b, ":EXIT_RULE: %d\n", t.ExitRule)
		fmt.Fprintf(&b, ":REALIZED_PNL: %.2f\n", t.RealizedPnL)
		if r, ok := t.Return(); ok {
			fmt.Fprintf(&b, ":RETURN: %.4f\n", r)
		}
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
