package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedTrade() TradeRecord {
	entry := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return TradeRecord{
		TradeID:     "01HQ3K8Y7Z-abcd",
		RunID:       "run-1",
		Symbol:      "SOXL",
		Action:      Sell,
		Price:       107,
		Shares:      10,
		EntryDate:   entry,
		EntryPrice:  100,
		EntrySignal: "price<SMA20",
		ExitDate:    entry.AddDate(0, 0, 3),
		ExitPrice:   107,
		ExitReason:  "profit_target",
		ExitRule:    4,
		RealizedPnL: 70,
	}
}

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	result := FormatTradeOrg(closedTrade())

	assert.Contains(t, result, "** Trade: SOXL CLOSED (01HQ3K8Y)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HQ3K8Y7Z-abcd")
	assert.Contains(t, result, ":RUN_ID: run-1")
	assert.Contains(t, result, ":SHARES: 10")
	assert.Contains(t, result, ":ENTRY_DATE: 2024-03-15")
	assert.Contains(t, result, ":ENTRY_PRICE: 100.00")
	assert.Contains(t, result, ":ENTRY_SIGNAL: price<SMA20")
	assert.Contains(t, result, ":EXIT_DATE: 2024-03-18")
	assert.Contains(t, result, ":EXIT_PRICE: 107.00")
	assert.Contains(t, result, ":EXIT_REASON: profit_target")
	assert.Contains(t, result, ":EXIT_RULE: 4")
	assert.Contains(t, result, ":REALIZED_PNL: 70.00")
	assert.Contains(t, result, ":RETURN: 0.7000")
	assert.Contains(t, result, ":END:")

	assert.Contains(t, result, "*** Thesis")
	assert.Contains(t, result, "*** Execution")
	assert.Contains(t, result, "*** Review")
}

func TestFormatTradeOrgOpen(t *testing.T) {
	t.Parallel()

	tr := closedTrade()
	tr.Action = Buy
	result := FormatTradeOrg(tr)

	assert.Contains(t, result, "** Trade: SOXL OPEN")
	assert.NotContains(t, result, ":EXIT_DATE:")
	assert.NotContains(t, result, ":REALIZED_PNL:")
}

func TestFormatTradeOrgNegativePnL(t *testing.T) {
	t.Parallel()

	tr := closedTrade()
	tr.RealizedPnL = -500
	assert.Contains(t, FormatTradeOrg(tr), ":REALIZED_PNL: -500.00")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	a := closedTrade()
	b := closedTrade()
	b.TradeID = "trade-002"
	b.Symbol = "BITI"

	result := FormatTradesOrg([]TradeRecord{a, b})
	assert.Contains(t, result, "SOXL")
	assert.Contains(t, result, "BITI")

	parts := strings.Split(result, "\n\n\n")
	assert.Len(t, parts, 2)

	assert.Empty(t, FormatTradesOrg(nil))
	assert.NotContains(t, FormatTradesOrg([]TradeRecord{a}), "\n\n\n")
}

func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"trade-12345678-abcdef", "trade-12"},
		{"12345678", "12345678"},
		{"short", "short"},
		{"", ""},
		{"123456789", "12345678"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, shortID(tt.input))
	}
}

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	out, err := FormatRunOrg(RunSummary{
		RunID:        "run-1",
		Created:      time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Benchmark:    "KMLM",
		Start:        time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC),
		MaxPositions: 1,
		Trades:       4,
		Wins:         3,
		Losses:       1,
		NetPnL:       20,
		MaxDrawdown:  80,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "* BACKTEST: KMLM rotation 2023-01-03 .. 2023-12-29"))
	assert.Contains(t, out, ":WIN_RATE:    75.00")
	assert.Contains(t, out, ":NET_PNL:     20.00")
	assert.Contains(t, out, ":CREATED:     [2024-05-01 Wed 09:30]")
}
