package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores trades and run summaries in a SQLite database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordTrade inserts a BUY as an open trade and completes it on SELL.
// A SELL without a stored BUY is inserted whole.
func (j *SQLite) RecordTrade(t TradeRecord) error {
	var (
		exitDate   sql.NullTime
		exitPrice  sql.NullFloat64
		exitReason sql.NullString
		exitRule   sql.NullInt64
		pnl        sql.NullFloat64
	)
	if t.Action == Sell {
		exitDate = sql.NullTime{Time: t.ExitDate, Valid: true}
		exitPrice = sql.NullFloat64{Float64: t.ExitPrice, Valid: true}
		exitReason = sql.NullString{String: t.ExitReason, Valid: true}
		exitRule = sql.NullInt64{Int64: int64(t.ExitRule), Valid: true}
		pnl = sql.NullFloat64{Float64: t.RealizedPnL, Valid: true}
	}

	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, shares, entry_date, entry_price, entry_signal,
		 exit_date, exit_price, exit_reason, exit_rule, realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, trade_id) DO UPDATE SET
			exit_date = excluded.exit_date,
			exit_price = excluded.exit_price,
			exit_reason = excluded.exit_reason,
			exit_rule = excluded.exit_rule,
			realized_pnl = excluded.realized_pnl`,
		t.TradeID, t.RunID, t.Symbol, t.Shares, t.EntryDate, t.EntryPrice, t.EntrySignal,
		exitDate, exitPrice, exitReason, exitRule, pnl,
	)
	return err
}

// RecordRun stores (or replaces) the summary of a finished run.
func (j *SQLite) RecordRun(r RunSummary) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, created, benchmark, start_date, end_date, max_positions,
		 trades, wins, losses, net_pnl, max_drawdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Benchmark, r.Start, r.End, r.MaxPositions,
		r.Trades, r.Wins, r.Losses, r.NetPnL, r.MaxDrawdown,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
