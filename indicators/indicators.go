// Package indicators derives the moving average, true range and normalized
// true range series used by the rotation strategy.
package indicators

import (
	"fmt"

	"github.com/rustyeddy/rotator/market"
)

// Default windows used by the rotation strategy.
const (
	DefaultSMAWindow = 20
	DefaultATRWindow = 14
)

// Annotate computes the derived series for bars. It has no side effects and
// returns bit-identical output for identical input.
func Annotate(ticker string, bars []market.Bar, smaWindow, atrWindow int) (market.Series, error) {
	if err := market.CheckBars(bars); err != nil {
		return market.Series{}, fmt.Errorf("annotate %s: %w", ticker, err)
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	ma, err := SMA(closes, smaWindow)
	if err != nil {
		return market.Series{}, fmt.Errorf("annotate %s: %w", ticker, err)
	}
	atr, err := ATR(bars, atrWindow)
	if err != nil {
		return market.Series{}, fmt.Errorf("annotate %s: %w", ticker, err)
	}
	natr := NATR(atr, bars)

	out := market.Series{
		Ticker: ticker,
		Bars:   make([]market.AnnotatedBar, len(bars)),
	}
	for i, b := range bars {
		b.Date = market.Day(b.Date)
		out.Bars[i] = market.AnnotatedBar{
			Bar:  b,
			MA:   ma[i],
			ATR:  atr[i],
			NATR: natr[i],
		}
	}
	return out, nil
}
