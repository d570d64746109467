package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrTradeNotFound is returned by GetTrade for unknown IDs.
var ErrTradeNotFound = errors.New("trade not found")

const tradeColumns = `trade_id, run_id, symbol, shares, entry_date, entry_price, entry_signal,
	exit_date, exit_price, exit_reason, exit_rule, realized_pnl`

type scanner interface {
	Scan(dest ...any) error
}

// scanTrade reads one trades row. Closed trades come back as SELL records,
// open ones as BUY records.
func scanTrade(s scanner) (TradeRecord, error) {
	var (
		rec        TradeRecord
		exitDate   sql.NullTime
		exitPrice  sql.NullFloat64
		exitReason sql.NullString
		exitRule   sql.NullInt64
		pnl        sql.NullFloat64
	)
	err := s.Scan(
		&rec.TradeID,
		&rec.RunID,
		&rec.Symbol,
		&rec.Shares,
		&rec.EntryDate,
		&rec.EntryPrice,
		&rec.EntrySignal,
		&exitDate,
		&exitPrice,
		&exitReason,
		&exitRule,
		&pnl,
	)
	if err != nil {
		return TradeRecord{}, err
	}

	rec.EntryDate = rec.EntryDate.UTC()
	if !exitDate.Valid {
		rec.Action = Buy
		rec.Price = rec.EntryPrice
		return rec, nil
	}

	rec.Action = Sell
	rec.ExitDate = exitDate.Time.UTC()
	rec.ExitPrice = exitPrice.Float64
	rec.Price = rec.ExitPrice
	rec.ExitReason = exitReason.String
	rec.ExitRule = int(exitRule.Int64)
	rec.RealizedPnL = pnl.Float64
	return rec, nil
}

// GetTrade returns a single trade by ID. Runs with the same seed reuse
// trade IDs; the most recently recorded one wins.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades
		WHERE trade_id = ?
		ORDER BY rowid DESC
		LIMIT 1`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("%w: %q", ErrTradeNotFound, tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns the trades of runID, or of every run when runID is
// empty, ordered by entry date.
func (j *SQLite) ListTrades(runID string) ([]TradeRecord, error) {
	q := `SELECT ` + tradeColumns + ` FROM trades`
	var args []any
	if runID != "" {
		q += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	q += ` ORDER BY entry_date ASC, trade_id ASC`

	return j.queryTrades(q, args...)
}

// ListTradesClosedBetween returns trades whose exit date is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.queryTrades(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE exit_date >= ? AND exit_date < ?
		ORDER BY exit_date ASC, trade_id ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) queryTrades(q string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRuns returns every stored run summary, newest first.
func (j *SQLite) ListRuns() ([]RunSummary, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, benchmark, start_date, end_date, max_positions,
		       trades, wins, losses, net_pnl, max_drawdown
		FROM runs
		ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(
			&r.RunID, &r.Created, &r.Benchmark, &r.Start, &r.End, &r.MaxPositions,
			&r.Trades, &r.Wins, &r.Losses, &r.NetPnL, &r.MaxDrawdown,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
