// Package metrics exposes backtest counters through a Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rotator"

// Recorder collects run metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	opened        *prometheus.CounterVec
	closed        *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	openPositions prometheus.Gauge
	realized      prometheus.Gauge
	days          prometheus.Counter
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		opened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_opened_total",
			Help:      "Positions opened, by ticker.",
		}, []string{"ticker"}),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_closed_total",
			Help:      "Positions closed, by exit reason.",
		}, []string{"reason"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_skipped_total",
			Help:      "Candidates or signals ignored, by reason.",
		}, []string{"reason"}),
		openPositions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_positions",
			Help:      "Currently open positions.",
		}),
		realized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realized_pnl",
			Help:      "Cumulative realized PnL.",
		}),
		days: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_processed_total",
			Help:      "Benchmark dates processed.",
		}),
	}
	r.reg.MustRegister(r.opened, r.closed, r.skipped, r.openPositions, r.realized, r.days)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

func (r *Recorder) TradeOpened(ticker string) {
	if r == nil {
		return
	}
	r.opened.WithLabelValues(ticker).Inc()
}

func (r *Recorder) TradeClosed(reason string) {
	if r == nil {
		return
	}
	r.closed.WithLabelValues(reason).Inc()
}

func (r *Recorder) CandidateSkipped(reason string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(reason).Inc()
}

func (r *Recorder) SetOpenPositions(n int) {
	if r == nil {
		return
	}
	r.openPositions.Set(float64(n))
}

func (r *Recorder) SetRealizedPnL(v float64) {
	if r == nil {
		return
	}
	r.realized.Set(v)
}

func (r *Recorder) DayProcessed() {
	if r == nil {
		return
	}
	r.days.Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
