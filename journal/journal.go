// Package journal records the trade ledger produced by a backtest run.
package journal

import (
	"errors"
	"math"
	"time"
)

// Action is the side of a ledger entry.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// TradeRecord is one line of the trade ledger. Exit fields and RealizedPnL
// are only set on SELL records.
type TradeRecord struct {
	TradeID     string
	RunID       string
	Symbol      string
	Action      Action
	Price       float64
	Shares      int64
	EntryDate   time.Time
	EntryPrice  float64
	EntrySignal string

	ExitDate    time.Time
	ExitPrice   float64
	ExitReason  string
	ExitRule    int
	RealizedPnL float64
}

// Date is the date the record happened: exit date for SELL, entry date otherwise.
func (t TradeRecord) Date() time.Time {
	if t.Action == Sell {
		return t.ExitDate
	}
	return t.EntryDate
}

// Return is realized PnL relative to the absolute entry price. ok is false
// for BUY records and zero entry prices.
func (t TradeRecord) Return() (r float64, ok bool) {
	if t.Action != Sell || t.EntryPrice == 0 {
		return 0, false
	}
	return t.RealizedPnL / math.Abs(t.EntryPrice), true
}

// Journal is a sink for ledger entries.
type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordTrade(TradeRecord) error { return nil }
func (Noop) Close() error                  { return nil }

// Multi fans every record out to all journals. Every journal is called even
// when an earlier one fails; the errors are joined.
type Multi []Journal

func (m Multi) RecordTrade(t TradeRecord) error {
	var errs []error
	for _, j := range m {
		if err := j.RecordTrade(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, j := range m {
		if err := j.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
