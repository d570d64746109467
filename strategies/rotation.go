package strategies

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rustyeddy/rotator/market"
)

// Signal is a BUY decision for a single instrument.
type Signal struct {
	Ticker string
	Label  string
	Regime Regime
	NATR   float64
}

// Detector picks the most volatile instrument of the bucket the benchmark's
// regime makes eligible.
type Detector struct {
	buckets   Buckets
	smaWindow int
	log       *zap.Logger
}

// NewDetector creates a detector. smaWindow is only used to label signals.
func NewDetector(buckets Buckets, smaWindow int, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{buckets: buckets, smaWindow: smaWindow, log: log}
}

// Label names the entry condition for a regime, e.g. "price<SMA20".
func (d *Detector) Label(r Regime) string {
	switch r {
	case BelowMA:
		return fmt.Sprintf("price<SMA%d", d.smaWindow)
	case AboveMA:
		return fmt.Sprintf("price>SMA%d", d.smaWindow)
	default:
		return ""
	}
}

// Detect evaluates one day. benchmark is the benchmark's bar for the day and
// candidates must already be truncated to that day. A candidate is ranked
// only when its last bar is dated the same day and carries a non-zero NATR.
// The strictly greatest NATR wins; ties keep the earlier bucket entry.
func (d *Detector) Detect(benchmark market.AnnotatedBar, candidates map[string]market.Series) optional.Option[Signal] {
	regime := Classify(benchmark)
	if !benchmark.HasMA() {
		d.log.Debug("benchmark moving average undefined, using above bucket",
			zap.Time("date", benchmark.Date))
	}

	day := market.Day(benchmark.Date)
	best := Signal{NATR: math.Inf(-1)}

	for _, ticker := range d.buckets.For(regime) {
		s, ok := candidates[ticker]
		if !ok {
			continue
		}
		last, ok := s.Last()
		if !ok || !market.Day(last.Date).Equal(day) {
			d.log.Debug("no bar for candidate", zap.String("ticker", ticker), zap.Time("date", day))
			continue
		}
		if math.IsNaN(last.NATR) || last.NATR == 0 {
			d.log.Debug("NATR undefined or zero, skipping", zap.String("ticker", ticker))
			continue
		}
		d.log.Debug("candidate", zap.String("ticker", ticker), zap.Float64("natr", last.NATR))
		if last.NATR > best.NATR {
			best = Signal{Ticker: ticker, NATR: last.NATR}
		}
	}

	if best.Ticker == "" {
		d.log.Debug("no eligible ticker found", zap.Time("date", day), zap.Stringer("regime", regime))
		return optional.None[Signal]()
	}

	best.Regime = regime
	best.Label = d.Label(regime)
	return optional.Some(best)
}
