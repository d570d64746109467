package journal

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrades() []TradeRecord {
	entry := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	exit := entry.AddDate(0, 0, 5)
	return []TradeRecord{
		{
			TradeID: "T1", RunID: "R1", Symbol: "TQQQ", Action: Buy,
			Price: 100, Shares: 10, EntryDate: entry, EntryPrice: 100,
			EntrySignal: "price<SMA20",
		},
		{
			TradeID: "T1", RunID: "R1", Symbol: "TQQQ", Action: Sell,
			Price: 107, Shares: 10, EntryDate: entry, EntryPrice: 100,
			EntrySignal: "price<SMA20", ExitDate: exit, ExitPrice: 107,
			ExitReason: "profit_target", ExitRule: 4, RealizedPnL: 70,
		},
	}
}

func TestCSVJournalRecordTrade(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades_log.csv")
	j, err := NewCSV(path)
	require.NoError(t, err)

	for _, tr := range sampleTrades() {
		require.NoError(t, j.RecordTrade(tr))
	}
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, CSVColumns, rows[0])
	assert.Equal(t, []string{
		"T1", "R1", "TQQQ", "BUY", "100", "10", "2024-01-02", "100", "price<SMA20",
		"", "", "", "", "",
	}, rows[1])
	assert.Equal(t, []string{
		"T1", "R1", "TQQQ", "SELL", "107", "10", "2024-01-02", "100", "price<SMA20",
		"2024-01-07", "107", "profit_target", "4", "70",
	}, rows[2])
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTrades()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[0], len(CSVColumns))
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "x.csv"))
	assert.Error(t, err)
}
