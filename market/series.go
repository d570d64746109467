package market

import (
	"math"
	"sort"
	"time"
)

// AnnotatedBar is a Bar plus the indicator values derived for it.
// Undefined values are NaN.
type AnnotatedBar struct {
	Bar

	MA   float64
	ATR  float64
	NATR float64
}

// HasMA reports whether the moving average is defined for this bar.
func (b AnnotatedBar) HasMA() bool { return !math.IsNaN(b.MA) }

// HasATR reports whether the average true range is defined for this bar.
func (b AnnotatedBar) HasATR() bool { return !math.IsNaN(b.ATR) }

// Series is the annotated, date-ordered history of one instrument.
type Series struct {
	Ticker string
	Bars   []AnnotatedBar
}

func (s Series) Len() int { return len(s.Bars) }

func (s Series) Empty() bool { return len(s.Bars) == 0 }

// Last returns the most recent bar. ok is false for an empty series.
func (s Series) Last() (b AnnotatedBar, ok bool) {
	if len(s.Bars) == 0 {
		return AnnotatedBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// index returns the position of the first bar dated after day.
func (s Series) index(day time.Time) int {
	day = Day(day)
	return sort.Search(len(s.Bars), func(i int) bool {
		return Day(s.Bars[i].Date).After(day)
	})
}

// Through returns the series truncated to bars dated on or before day.
// The returned series shares storage with s and must not be modified.
func (s Series) Through(day time.Time) Series {
	return Series{Ticker: s.Ticker, Bars: s.Bars[:s.index(day)]}
}

// At returns the bar dated exactly day.
func (s Series) At(day time.Time) (AnnotatedBar, bool) {
	i := s.index(day)
	if i == 0 {
		return AnnotatedBar{}, false
	}
	b := s.Bars[i-1]
	if !Day(b.Date).Equal(Day(day)) {
		return AnnotatedBar{}, false
	}
	return b, true
}
