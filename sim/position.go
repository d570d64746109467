package sim

import "time"

// Position is an open long holding. It is created once and only ever closed
// as a whole.
type Position struct {
	ID          string
	Ticker      string
	EntryDate   time.Time
	EntryPrice  float64
	Shares      int64
	EntrySignal string
}
