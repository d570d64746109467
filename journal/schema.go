package journal

// Schema creates the SQLite tables. A trade is one row from BUY to SELL;
// exit columns stay NULL while the position is open. Trade IDs are only
// unique within a run.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	shares INTEGER NOT NULL,
	entry_date DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	entry_signal TEXT NOT NULL,
	exit_date DATETIME,
	exit_price REAL,
	exit_reason TEXT,
	exit_rule INTEGER,
	realized_pnl REAL,
	PRIMARY KEY (run_id, trade_id)
);

CREATE INDEX IF NOT EXISTS idx_trades_id ON trades(trade_id);
CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(exit_date);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	benchmark TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	max_positions INTEGER NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	net_pnl REAL NOT NULL,
	max_drawdown REAL NOT NULL
);
`
