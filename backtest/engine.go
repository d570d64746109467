// Package backtest replays the regime rotation strategy day by day over
// annotated daily series.
package backtest

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/market"
	"github.com/rustyeddy/rotator/metrics"
	"github.com/rustyeddy/rotator/pkg/id"
	"github.com/rustyeddy/rotator/risk"
	"github.com/rustyeddy/rotator/sim"
	"github.com/rustyeddy/rotator/strategies"
)

// Engine runs backtests for one configuration. Each Run starts from an
// empty ledger, so an Engine can be reused.
type Engine struct {
	cfg      Config
	detector *strategies.Detector
	exits    *sim.ExitEvaluator

	log     *zap.Logger
	journal journal.Journal
	metrics *metrics.Recorder
	runID   string
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithJournal sends every BUY and SELL record to j as it happens.
// Write failures are logged and do not stop the run.
func WithJournal(j journal.Journal) Option {
	return func(e *Engine) {
		if j != nil {
			e.journal = j
		}
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithRunID stamps records with runID instead of a fresh ULID.
func WithRunID(runID string) Option {
	return func(e *Engine) { e.runID = runID }
}

// NewEngine validates cfg and builds an engine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		log:     zap.NewNop(),
		journal: journal.Noop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = id.New()
	}

	b := cfg.buckets()
	e.detector = strategies.NewDetector(b, cfg.SMAWindow, e.log)
	e.exits = sim.NewExitEvaluator(cfg.Exits, b)
	return e, nil
}

// run holds the state of a single Run call.
type run struct {
	*Engine
	ledger *sim.Ledger
	ids    *id.Generator
	res    *Result
}

// Run replays every benchmark date in order. On each date open positions
// are checked for exits first, then a new entry is considered if the ledger
// has room. Positions still open after the last date stay open.
//
// An empty benchmark aborts the run. Candidates without data are logged and
// never selected.
func (e *Engine) Run(benchmark market.Series, candidates map[string]market.Series) (*Result, error) {
	if benchmark.Empty() {
		err := &market.DataError{Ticker: e.cfg.Universe.Benchmark, Err: market.ErrNoData}
		e.log.Error("benchmark series missing", zap.Error(err))
		return nil, err
	}
	if err := market.CheckBars(bars(benchmark)); err != nil {
		return nil, &market.DataError{Ticker: e.cfg.Universe.Benchmark, Err: err}
	}

	ledger, err := sim.NewLedger(e.cfg.MaxPositions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	r := &run{
		Engine: e,
		ledger: ledger,
		ids:    id.NewGenerator(e.cfg.Seed),
		res: &Result{
			RunID: e.runID,
			Start: benchmark.Bars[0].Date,
			End:   benchmark.Bars[benchmark.Len()-1].Date,
		},
	}
	usable := r.usableCandidates(candidates)

	e.log.Info("backtest started",
		zap.String("run_id", e.runID),
		zap.String("benchmark", e.cfg.Universe.Benchmark),
		zap.Int("candidates", len(usable)),
		zap.Time("start", r.res.Start),
		zap.Time("end", r.res.End))

	for _, bb := range benchmark.Bars {
		day := market.Day(bb.Date)
		if err := r.exitPhase(day, bb, usable); err != nil {
			return nil, err
		}
		if err := r.entryPhase(day, bb, usable); err != nil {
			return nil, err
		}
		if n := ledger.OpenCount(); n > r.res.MaxOpen {
			r.res.MaxOpen = n
		}
		r.res.Days++
		e.metrics.DayProcessed()
		e.metrics.SetOpenPositions(ledger.OpenCount())
	}

	r.res.Closed = ledger.ClosedTrades()
	r.res.Open = ledger.OpenPositions()
	r.res.CumulativePnL = ledger.CumulativePnL()

	e.log.Info("backtest finished",
		zap.String("run_id", e.runID),
		zap.Int("days", r.res.Days),
		zap.Int("trades", len(r.res.Trades)),
		zap.Int("closed", len(r.res.Closed)),
		zap.Int("open", len(r.res.Open)),
		zap.Float64("realized_pnl", r.res.CumulativePnL))

	return r.res, nil
}

// usableCandidates drops configured tickers with no bars or unordered bars.
func (r *run) usableCandidates(in map[string]market.Series) map[string]market.Series {
	out := make(map[string]market.Series, len(in))
	for _, t := range r.cfg.Universe.Candidates() {
		s, ok := in[t]
		if !ok || s.Empty() {
			r.log.Warn("candidate excluded",
				zap.Error(&market.DataError{Ticker: t, Err: market.ErrNoData}))
			r.metrics.CandidateSkipped("missing_series")
			continue
		}
		if err := market.CheckBars(bars(s)); err != nil {
			r.log.Warn("candidate excluded",
				zap.Error(&market.DataError{Ticker: t, Err: err}))
			r.metrics.CandidateSkipped("bad_series")
			continue
		}
		out[t] = s
	}
	return out
}

func (r *run) exitPhase(day time.Time, bench market.AnnotatedBar, candidates map[string]market.Series) error {
	for _, p := range r.ledger.OpenPositions() {
		cb, ok := candidates[p.Ticker].At(day)
		if !ok {
			continue
		}

		d := r.exits.Evaluate(p, bench, cb)
		if !d.ShouldExit {
			continue
		}

		rec, err := r.ledger.Close(p.Ticker, cb.Close, day, d.Reason)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvariant, err)
		}
		rec.RunID = r.runID

		r.log.Info("SELL",
			zap.String("ticker", rec.Symbol),
			zap.Time("date", day),
			zap.Float64("price", rec.Price),
			zap.Int64("shares", rec.Shares),
			zap.String("reason", d.Reason.String()),
			zap.String("condition", d.Reason.Label()),
			zap.Float64("pnl", rec.RealizedPnL))

		r.metrics.TradeClosed(d.Reason.String())
		r.metrics.SetRealizedPnL(r.ledger.CumulativePnL())
		r.emit(rec)
	}
	return nil
}

func (r *run) entryPhase(day time.Time, bench market.AnnotatedBar, candidates map[string]market.Series) error {
	if r.ledger.OpenCount() >= r.ledger.Max() {
		return nil
	}

	visible := make(map[string]market.Series, len(candidates))
	for t, s := range candidates {
		visible[t] = s.Through(day)
	}

	sig := r.detector.Detect(bench, visible)
	if sig.IsNone() {
		return nil
	}
	s := sig.Unwrap()

	if r.ledger.Position(s.Ticker).IsSome() {
		r.log.Debug("signal for held ticker ignored",
			zap.String("ticker", s.Ticker), zap.Time("date", day))
		r.metrics.CandidateSkipped("already_held")
		return nil
	}

	cb, _ := visible[s.Ticker].Last()
	size, err := risk.Calculate(r.cfg.sizing(), cb.Close)
	if err != nil {
		r.log.Warn("entry not sized",
			zap.String("ticker", s.Ticker), zap.Time("date", day), zap.Error(err))
		r.metrics.CandidateSkipped("bad_price")
		return nil
	}

	p := sim.Position{
		ID:          r.ids.New(day),
		Ticker:      s.Ticker,
		EntryDate:   day,
		EntryPrice:  cb.Close,
		Shares:      size.Shares,
		EntrySignal: s.Label,
	}
	if err := r.ledger.Open(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	rec := journal.TradeRecord{
		TradeID:     p.ID,
		RunID:       r.runID,
		Symbol:      p.Ticker,
		Action:      journal.Buy,
		Price:       p.EntryPrice,
		Shares:      p.Shares,
		EntryDate:   day,
		EntryPrice:  p.EntryPrice,
		EntrySignal: p.EntrySignal,
	}

	r.log.Info("BUY",
		zap.String("ticker", p.Ticker),
		zap.Time("date", day),
		zap.Float64("price", p.EntryPrice),
		zap.Int64("shares", p.Shares),
		zap.String("signal", p.EntrySignal),
		zap.Float64("natr", s.NATR))

	r.metrics.TradeOpened(p.Ticker)
	r.emit(rec)
	return nil
}

func (r *run) emit(rec journal.TradeRecord) {
	r.res.Trades = append(r.res.Trades, rec)
	if err := r.journal.RecordTrade(rec); err != nil {
		r.log.Warn("journal write failed",
			zap.String("trade_id", rec.TradeID),
			zap.String("action", string(rec.Action)),
			zap.Error(err))
	}
}

func bars(s market.Series) []market.Bar {
	out := make([]market.Bar, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Bar
	}
	return out
}
