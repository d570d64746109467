package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/rotator/risk"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "KMLM", cfg.Strategy.Benchmark)
	assert.Equal(t, []string{"TQQQ", "FNGU", "SOXL"}, cfg.Strategy.Below)
	assert.Equal(t, 20, cfg.Strategy.SMAWindow)
	assert.Equal(t, 14, cfg.Strategy.ATRWindow)

	bt := cfg.Backtest()
	assert.NoError(t, bt.Validate())
	assert.Equal(t, 1, bt.MaxPositions)
	assert.Equal(t, "KMLM", bt.Universe.Benchmark)
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	yml := `
account:
  base_equity: 50000
  equity_usage: 0.5
strategy:
  benchmark: SPY
  below: [TQQQ]
  above: [SQQQ, BIL]
  max_positions: 2
  order_type: limit
  limit_percent: 0.01
data:
  dir: /tmp/bars
  start: "2023-01-01"
  end: "2024-01-01"
journal:
  type: sqlite
  db_path: ./rotator.db
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 50000.0, cfg.Account.BaseEquity)
	assert.Equal(t, "SPY", cfg.Strategy.Benchmark)
	assert.Equal(t, []string{"SQQQ", "BIL"}, cfg.Strategy.Above)
	assert.Equal(t, risk.Limit, cfg.Strategy.OrderType)
	assert.Equal(t, 20, cfg.Strategy.SMAWindow, "default kept")
	assert.Equal(t, 5, cfg.Exits.MaxHoldDays, "default kept")

	start, end, err := cfg.Data.Range()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		path := filepath.Join(t.TempDir(), name)

		want := Default()
		want.Strategy.MaxPositions = 3
		want.Exits.ATRMultiple = 2.5
		require.NoError(t, want.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max positions", func(c *Config) { c.Strategy.MaxPositions = 0 }},
		{"usage above one", func(c *Config) { c.Account.EquityUsage = 1.01 }},
		{"limit without percent", func(c *Config) { c.Strategy.OrderType = risk.Limit }},
		{"bad sizing", func(c *Config) { c.Strategy.Sizing = "kelly" }},
		{"no benchmark", func(c *Config) { c.Strategy.Benchmark = "" }},
		{"csv without file", func(c *Config) { c.Journal.TradesFile = "" }},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }},
		{"postgres without dsn", func(c *Config) { c.Journal.Type = "postgres" }},
		{"unknown journal", func(c *Config) { c.Journal.Type = "kafka" }},
		{"bad date", func(c *Config) { c.Data.Start = "01/02/2023" }},
		{"end before start", func(c *Config) { c.Data.Start, c.Data.End = "2024-01-01", "2023-01-01" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"zero hold days", func(c *Config) { c.Exits.MaxHoldDays = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("strategy: [unclosed"), 0o644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("strategy:\n  max_positions: 0\n"), 0o644))
	_, err = LoadFromFile(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
}
