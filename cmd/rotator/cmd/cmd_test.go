package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func writeBars(t *testing.T, dir, ticker string, n int, closeAt func(i int) float64) {
	t.Helper()

	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Adj Close,Volume\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%.2f,1000\n",
			start.AddDate(0, 0, i).Format(time.DateOnly), c, c+1, c-1, c, c)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ticker+".csv"), []byte(b.String()), 0o644))
}

func TestVersion(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "rotator version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotation.yaml")

	out := execute(t, "config", "init", "-o", path)
	assert.Contains(t, out, "Created default configuration")

	out = execute(t, "config", "validate", "-f", path)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Benchmark: KMLM (SMA20, ATR14)")
}

func TestBacktestAndJournal(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	writeBars(t, dataDir, "BM", 30, func(i int) float64 { return 100 - float64(i) })
	writeBars(t, dataDir, "A", 30, func(i int) float64 { return 50 + float64(i%4) })

	db := filepath.Join(dir, "rotator.sqlite")
	cfgPath := filepath.Join(dir, "cfg.yaml")
	cfg := fmt.Sprintf(`
strategy:
  benchmark: BM
  below: [A]
  above: [X]
  sma_window: 3
  atr_window: 2
data:
  dir: %s
journal:
  type: sqlite
  db_path: %s
  trades_file: %s
log:
  level: error
  format: json
metrics:
  textfile: %s
`, dataDir, db, filepath.Join(dir, "journal.csv"), filepath.Join(dir, "rotator.prom"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	reports := filepath.Join(dir, "reports")
	out := execute(t, "backtest", "-c", cfgPath, "-o", reports)
	assert.Contains(t, out, "Backtest Result")
	assert.Contains(t, out, "Benchmark:     BM")

	ledger, err := os.ReadFile(filepath.Join(reports, "trades_log.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(ledger), "BUY")
	assert.Contains(t, string(ledger), "SELL")
	assert.FileExists(t, filepath.Join(reports, "returns.csv"))
	assert.FileExists(t, filepath.Join(dir, "rotator.prom"))

	mirrored, err := os.ReadFile(filepath.Join(dir, "journal.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(mirrored), "trade_id,run_id")
	assert.Contains(t, string(mirrored), "SELL")

	out = execute(t, "journal", "trades", "--db", db)
	assert.Contains(t, out, "** Trade: A CLOSED")

	out = execute(t, "journal", "runs", "--db", db)
	assert.Contains(t, out, "* BACKTEST: BM rotation 2024-01-01")
}
