package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/rotator/market"
)

// TrueRange returns the true range of every bar. The first bar has no prior
// close, so out[0] is NaN.
func TrueRange(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = trueRange(bars[i], bars[i-1])
	}
	return out
}

// trueRange calculates the True Range for a bar given the previous bar
func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}

// ATR returns the simple rolling mean of the true range over window.
func ATR(bars []market.Bar, window int) ([]float64, error) {
	atr, err := SMA(TrueRange(bars), window)
	if err != nil {
		return nil, fmt.Errorf("atr: %w", err)
	}
	return atr, nil
}

// NATR expresses atr as a percentage of close. Undefined results are
// clamped to 0, which callers read as "not rankable".
func NATR(atr []float64, bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if i >= len(atr) {
			break
		}
		v := atr[i] / bars[i].Close * 100
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out[i] = v
	}
	return out
}
