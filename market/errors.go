package market

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when an instrument has no bars for the requested range.
var ErrNoData = errors.New("no data")

// DataError reports a missing or unusable price series.
type DataError struct {
	Ticker string
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data for %s: %v", e.Ticker, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }
