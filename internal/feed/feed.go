// Package feed loads daily bars and turns them into annotated series for
// the backtest engine.
package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/rotator/market"
)

// Source fetches the daily bars of ticker dated within [start, end).
// A zero start or end leaves that side open. Bars come back ascending.
type Source interface {
	FetchBars(ctx context.Context, ticker string, start, end time.Time) ([]market.Bar, error)
}

// CSVSource reads <Dir>/<TICKER>.csv files with a date,open,high,low,close,volume
// header. Column names are matched case-insensitively and extra columns such
// as "Adj Close" are ignored, so yfinance exports load as is.
type CSVSource struct {
	Dir string
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	time.DateTime,
}

func (s CSVSource) Path(ticker string) string {
	return filepath.Join(s.Dir, strings.ToUpper(ticker)+".csv")
}

func (s CSVSource) FetchBars(ctx context.Context, ticker string, start, end time.Time) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(ticker))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &market.DataError{Ticker: ticker, Err: market.ErrNoData}
		}
		return nil, &market.DataError{Ticker: ticker, Err: err}
	}
	defer f.Close()

	bars, err := ReadBars(f)
	if err != nil {
		return nil, &market.DataError{Ticker: ticker, Err: err}
	}

	bars = Window(bars, start, end)
	if len(bars) == 0 {
		return nil, &market.DataError{Ticker: ticker, Err: market.ErrNoData}
	}
	return bars, nil
}

type columns struct {
	date, open, high, low, close, volume int
}

func headerColumns(row []string) (columns, bool) {
	c := columns{-1, -1, -1, -1, -1, -1}
	for i, name := range row {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "datetime", "price":
			if c.date < 0 {
				c.date = i
			}
		case "open":
			c.open = i
		case "high":
			c.high = i
		case "low":
			c.low = i
		case "close":
			c.close = i
		case "volume":
			c.volume = i
		}
	}
	ok := c.date >= 0 && c.open >= 0 && c.high >= 0 && c.low >= 0 && c.close >= 0
	return c, ok
}

// ReadBars parses a bar CSV. Rows before the first parseable date (extra
// header lines) are skipped, as are rows with blank prices. The result is
// sorted ascending; duplicate dates are an error.
func ReadBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, ok := headerColumns(header)
	if !ok {
		return nil, fmt.Errorf("header %v lacks date/open/high/low/close", header)
	}

	var (
		bars    []market.Bar
		started bool
		line    = 1
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(row) <= cols.close {
			continue
		}

		date, err := parseDate(row[cols.date])
		if err != nil {
			if !started {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		started = true

		b, ok, err := parseBar(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		b.Date = date
		bars = append(bars, b)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if err := market.CheckBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return market.Day(t.In(time.UTC)), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseBar reads the price fields. ok is false when any price is blank.
func parseBar(row []string, c columns) (b market.Bar, ok bool, err error) {
	fields := []struct {
		idx int
		dst *float64
	}{
		{c.open, &b.Open},
		{c.high, &b.High},
		{c.low, &b.Low},
		{c.close, &b.Close},
		{c.volume, &b.Volume},
	}
	for _, f := range fields {
		if f.idx < 0 || f.idx >= len(row) {
			continue
		}
		s := strings.TrimSpace(row[f.idx])
		if s == "" {
			if f.dst == &b.Volume {
				continue
			}
			return market.Bar{}, false, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return market.Bar{}, false, err
		}
		*f.dst = v
	}
	return b, true, nil
}

// Window keeps the bars dated within [start, end). Zero bounds are open.
func Window(bars []market.Bar, start, end time.Time) []market.Bar {
	out := bars[:0:0]
	for _, b := range bars {
		if !start.IsZero() && b.Date.Before(market.Day(start)) {
			continue
		}
		if !end.IsZero() && !b.Date.Before(market.Day(end)) {
			continue
		}
		out = append(out, b)
	}
	return out
}
