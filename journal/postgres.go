package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// TradingLogSchema is the Postgres table the live signal scripts wrote to.
const TradingLogSchema = `
CREATE TABLE IF NOT EXISTS trading_log (
	id SERIAL PRIMARY KEY,
	logged_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	ticker TEXT NOT NULL,
	signal TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	order_type TEXT NOT NULL,
	order_id TEXT NOT NULL,
	quantity BIGINT NOT NULL,
	equity_used DOUBLE PRECISION NOT NULL,
	trigger_condition TEXT,
	error_message TEXT
)`

// Postgres writes each record as a row of trading_log.
type Postgres struct {
	db        *sqlx.DB
	orderType string
	timeout   time.Duration
}

// OpenPostgres connects to dsn, checks the connection and creates
// trading_log if needed.
func OpenPostgres(ctx context.Context, dsn, orderType string, timeout time.Duration) (*Postgres, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := NewPostgres(db, orderType, timeout)
	if err := p.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an existing connection.
func NewPostgres(db *sqlx.DB, orderType string, timeout time.Duration) *Postgres {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Postgres{db: db, orderType: orderType, timeout: timeout}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.db.ExecContext(ctx, TradingLogSchema); err != nil {
		return fmt.Errorf("create trading_log: %w", err)
	}
	return nil
}

func (p *Postgres) RecordTrade(t TradeRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	trigger := t.EntrySignal
	if t.Action == Sell {
		trigger = fmt.Sprintf("Condition %d", t.ExitRule)
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO trading_log
		(ticker, signal, price, order_type, order_id, quantity, equity_used, trigger_condition, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.Symbol, string(t.Action), t.Price, p.orderType, t.TradeID,
		t.Shares, t.Price*float64(t.Shares), trigger, nil,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("insert trading_log (%s): %w", pqErr.Code.Name(), err)
		}
		return fmt.Errorf("insert trading_log: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
