package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/market"
)

var (
	// ErrCapacity is returned when opening beyond the position limit.
	ErrCapacity = errors.New("ledger: position limit reached")
	// ErrNotFound is returned when closing a ticker that is not held.
	ErrNotFound = errors.New("ledger: no open position")
	// ErrPositionExists is returned when opening a ticker that is already held.
	ErrPositionExists = errors.New("ledger: position already open")
	// ErrExitBeforeEntry is returned when a close is dated before its entry.
	ErrExitBeforeEntry = errors.New("ledger: exit date before entry date")
)

// Ledger owns the open positions and the closed trades of a run. It is not
// safe for concurrent use.
type Ledger struct {
	max    int
	open   []Position
	closed []journal.TradeRecord
	pnl    decimal.Decimal
}

// NewLedger creates a ledger holding at most maxPositions positions.
func NewLedger(maxPositions int) (*Ledger, error) {
	if maxPositions < 1 {
		return nil, fmt.Errorf("ledger: max positions must be at least 1, got %d", maxPositions)
	}
	return &Ledger{max: maxPositions}, nil
}

func (l *Ledger) Max() int { return l.max }

func (l *Ledger) OpenCount() int { return len(l.open) }

// Open adds p to the open positions.
func (l *Ledger) Open(p Position) error {
	if len(l.open) >= l.max {
		return fmt.Errorf("open %s: %w (%d)", p.Ticker, ErrCapacity, l.max)
	}
	if l.Position(p.Ticker).IsSome() {
		return fmt.Errorf("open %s: %w", p.Ticker, ErrPositionExists)
	}
	if p.Shares <= 0 {
		return fmt.Errorf("open %s: shares must be positive, got %d", p.Ticker, p.Shares)
	}
	l.open = append(l.open, p)
	return nil
}

// Position returns the open position for ticker.
func (l *Ledger) Position(ticker string) optional.Option[Position] {
	for _, p := range l.open {
		if p.Ticker == ticker {
			return optional.Some(p)
		}
	}
	return optional.None[Position]()
}

// Close removes the position for ticker, records the SELL and adds its
// realized PnL to the running total.
func (l *Ledger) Close(ticker string, price float64, date time.Time, reason ExitReason) (journal.TradeRecord, error) {
	idx := -1
	for i, p := range l.open {
		if p.Ticker == ticker {
			idx = i
			break
		}
	}
	if idx < 0 {
		return journal.TradeRecord{}, fmt.Errorf("close %s: %w", ticker, ErrNotFound)
	}

	p := l.open[idx]
	if market.Day(date).Before(market.Day(p.EntryDate)) {
		return journal.TradeRecord{}, fmt.Errorf("close %s on %s: %w",
			ticker, date.Format(time.DateOnly), ErrExitBeforeEntry)
	}

	pl := realizedPL(p.EntryPrice, price, p.Shares)
	rec := journal.TradeRecord{
		TradeID:     p.ID,
		Symbol:      p.Ticker,
		Action:      journal.Sell,
		Price:       price,
		Shares:      p.Shares,
		EntryDate:   p.EntryDate,
		EntryPrice:  p.EntryPrice,
		EntrySignal: p.EntrySignal,
		ExitDate:    date,
		ExitPrice:   price,
		ExitReason:  reason.String(),
		ExitRule:    reason.Rule(),
		RealizedPnL: pl.InexactFloat64(),
	}

	l.open = append(l.open[:idx], l.open[idx+1:]...)
	l.closed = append(l.closed, rec)
	l.pnl = l.pnl.Add(pl)
	return rec, nil
}

// OpenPositions returns a copy of the open positions in entry order.
func (l *Ledger) OpenPositions() []Position {
	out := make([]Position, len(l.open))
	copy(out, l.open)
	return out
}

// ClosedTrades returns a copy of the SELL records in close order.
func (l *Ledger) ClosedTrades() []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(l.closed))
	copy(out, l.closed)
	return out
}

// CumulativePnL is the sum of realized PnL over all closed trades.
func (l *Ledger) CumulativePnL() float64 {
	return l.pnl.InexactFloat64()
}
