package market

import (
	"fmt"
	"time"
)

// Bar is one daily OHLCV row for an instrument.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// CheckBars verifies bars are strictly ascending by date.
func CheckBars(bars []Bar) error {
	for i := 1; i < len(bars); i++ {
		prev, cur := Day(bars[i-1].Date), Day(bars[i].Date)
		if cur.Equal(prev) {
			return fmt.Errorf("duplicate bar for %s at index %d", cur.Format(time.DateOnly), i)
		}
		if cur.Before(prev) {
			return fmt.Errorf("bar %d (%s) is before bar %d (%s)",
				i, cur.Format(time.DateOnly), i-1, prev.Format(time.DateOnly))
		}
	}
	return nil
}
