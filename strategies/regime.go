package strategies

import "github.com/rustyeddy/rotator/market"

// Regime classifies the benchmark's close against its moving average.
type Regime int

const (
	BelowMA Regime = iota + 1
	AboveMA
)

func (r Regime) String() string {
	switch r {
	case BelowMA:
		return "below_ma"
	case AboveMA:
		return "above_ma"
	default:
		return "unknown"
	}
}

// Classify returns the entry regime for a benchmark bar. Only a close strictly
// under a defined moving average is BelowMA; equality and the warm-up bars
// without an average count as AboveMA.
func Classify(b market.AnnotatedBar) Regime {
	if b.HasMA() && b.Close < b.MA {
		return BelowMA
	}
	return AboveMA
}

// Buckets holds the instruments eligible in each regime, in tie-break order.
type Buckets struct {
	Below []string
	Above []string
}

// BucketsFor returns the buckets of a universe.
func BucketsFor(u market.Universe) Buckets {
	return Buckets{Below: u.Below, Above: u.Above}
}

// For returns the eligible bucket for r.
func (b Buckets) For(r Regime) []string {
	switch r {
	case BelowMA:
		return b.Below
	case AboveMA:
		return b.Above
	default:
		return nil
	}
}

// InBelow reports whether ticker belongs to the below-MA bucket.
func (b Buckets) InBelow(ticker string) bool { return contains(b.Below, ticker) }

// InAbove reports whether ticker belongs to the above-MA bucket.
func (b Buckets) InAbove(ticker string) bool { return contains(b.Above, ticker) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
