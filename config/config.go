// Package config loads the YAML or JSON file that drives the rotator CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/rotator/backtest"
	"github.com/rustyeddy/rotator/indicators"
	"github.com/rustyeddy/rotator/market"
	"github.com/rustyeddy/rotator/risk"
	"github.com/rustyeddy/rotator/sim"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents the complete backtest configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Exits    sim.ExitRules  `json:"exits" yaml:"exits"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
}

// AccountConfig holds the fixed capital orders are sized from
type AccountConfig struct {
	BaseEquity  float64 `json:"base_equity" yaml:"base_equity" validate:"gt=0"`
	EquityUsage float64 `json:"equity_usage" yaml:"equity_usage" validate:"gt=0,lte=1"`
}

// StrategyConfig holds the instrument universe and entry parameters
type StrategyConfig struct {
	market.Universe `yaml:",inline"`

	SMAWindow    int               `json:"sma_window" yaml:"sma_window" validate:"gt=0"`
	ATRWindow    int               `json:"atr_window" yaml:"atr_window" validate:"gt=0"`
	MaxPositions int               `json:"max_positions" yaml:"max_positions" validate:"gte=1"`
	OrderType    risk.OrderType    `json:"order_type" yaml:"order_type" validate:"oneof=market limit"`
	LimitPercent float64           `json:"limit_percent,omitempty" yaml:"limit_percent,omitempty" validate:"required_if=OrderType limit,gte=0"`
	Sizing       risk.SizingPolicy `json:"sizing" yaml:"sizing" validate:"oneof=notional unit"`
	Seed         int64             `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DataConfig points at the bar files and the date range to replay.
// Dates are YYYY-MM-DD; End is exclusive; empty means unbounded.
type DataConfig struct {
	Dir   string `json:"dir" yaml:"dir" validate:"required"`
	Start string `json:"start,omitempty" yaml:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end,omitempty" yaml:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// JournalConfig contains journaling parameters. With a sqlite, postgres or
// paper journal a non-empty TradesFile also receives the CSV ledger.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type" validate:"oneof=none csv sqlite postgres paper"` // "none", "csv", "sqlite", "postgres" or "paper"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty" validate:"required_if=Type csv"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty" validate:"required_if=Type sqlite"`
	DSN        string `json:"dsn,omitempty" yaml:"dsn,omitempty" validate:"required_if=Type postgres"`
}

type ReportConfig struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// LoadFromFile loads configuration from a file. Fields missing from the
// file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	start, end, err := c.Data.Range()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		return fmt.Errorf("%w: data.end %s is not after data.start %s", ErrInvalid, c.Data.End, c.Data.Start)
	}
	return nil
}

// Range parses Start and End. Empty values come back as zero times.
func (d DataConfig) Range() (start, end time.Time, err error) {
	if d.Start != "" {
		if start, err = time.Parse(time.DateOnly, d.Start); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.start: %w", err)
		}
	}
	if d.End != "" {
		if end, err = time.Parse(time.DateOnly, d.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.end: %w", err)
		}
	}
	return start, end, nil
}

// Backtest converts the file settings into an engine configuration.
func (c *Config) Backtest() backtest.Config {
	return backtest.Config{
		Universe:     c.Strategy.Universe,
		MaxPositions: c.Strategy.MaxPositions,
		BaseEquity:   c.Account.BaseEquity,
		EquityUsage:  c.Account.EquityUsage,
		OrderType:    c.Strategy.OrderType,
		LimitPercent: c.Strategy.LimitPercent,
		Sizing:       c.Strategy.Sizing,
		SMAWindow:    c.Strategy.SMAWindow,
		Exits:        c.Exits,
		Seed:         c.Strategy.Seed,
	}
}

// Default returns the KMLM rotation with one position and market orders
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			BaseEquity:  risk.DefaultBaseEquity,
			EquityUsage: 1,
		},
		Strategy: StrategyConfig{
			Universe:     market.DefaultUniverse(),
			SMAWindow:    indicators.DefaultSMAWindow,
			ATRWindow:    indicators.DefaultATRWindow,
			MaxPositions: 1,
			OrderType:    risk.Market,
			Sizing:       risk.Notional,
		},
		Exits: sim.DefaultExitRules(),
		Data: DataConfig{
			Dir: "./data",
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades_log.csv",
		},
		Report: ReportConfig{
			Dir: "./reports",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
