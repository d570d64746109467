package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/rotator/market"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const simpleCSV = `date,open,high,low,close,volume
2024-01-03,11,12,10,11.5,2000
2024-01-02,10,11,9,10.5,1000
2024-01-04,12,13,11,12.5,
`

const yfinanceCSV = `Price,Adj Close,Close,High,Low,Open,Volume
Ticker,TQQQ,TQQQ,TQQQ,TQQQ,TQQQ,TQQQ
Date,,,,,,
2024-01-02,49.1,50.0,51.0,48.0,49.0,100
2024-01-03,,,,,,
2024-01-04,51.1,52.0,53.0,50.0,51.0,200
`

func TestReadBarsSimple(t *testing.T) {
	t.Parallel()

	bars, err := ReadBars(strings.NewReader(simpleCSV))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, date(2024, 1, 2), bars[0].Date)
	assert.Equal(t, market.Bar{Date: date(2024, 1, 3), Open: 11, High: 12, Low: 10, Close: 11.5, Volume: 2000}, bars[1])
	assert.Zero(t, bars[2].Volume)
}

func TestReadBarsYFinance(t *testing.T) {
	t.Parallel()

	bars, err := ReadBars(strings.NewReader(yfinanceCSV))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, date(2024, 1, 2), bars[0].Date)
	assert.Equal(t, 50.0, bars[0].Close, "Close, not Adj Close")
	assert.Equal(t, 49.0, bars[0].Open)
	assert.Equal(t, date(2024, 1, 4), bars[1].Date)
}

func TestReadBarsTimestampDates(t *testing.T) {
	t.Parallel()

	in := "Date,Open,High,Low,Close\n2024-01-02 00:00:00-05:00,1,2,0.5,1.5\n"
	bars, err := ReadBars(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, date(2024, 1, 2), bars[0].Date)
}

func TestReadBarsErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":      "",
		"bad header": "when,o,h,l,c\n",
		"duplicate":  "date,open,high,low,close\n2024-01-02,1,1,1,1\n2024-01-02,1,1,1,1\n",
		"bad number": "date,open,high,low,close\n2024-01-02,x,1,1,1\n",
		"bad date":   "date,open,high,low,close\n2024-01-02,1,1,1,1\nlater,1,1,1,1\n",
	}

	for name, in := range tests {
		_, err := ReadBars(strings.NewReader(in))
		assert.Error(t, err, name)
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	bars, err := ReadBars(strings.NewReader(simpleCSV))
	require.NoError(t, err)

	got := Window(bars, date(2024, 1, 3), date(2024, 1, 4))
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 1, 3), got[0].Date)

	assert.Len(t, Window(bars, time.Time{}, time.Time{}), 3)
	assert.Len(t, bars, 3, "input untouched")
}

func TestCSVSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "KMLM.csv"), []byte(simpleCSV), 0o644))
	src := CSVSource{Dir: dir}
	ctx := context.Background()

	bars, err := src.FetchBars(ctx, "kmlm", date(2024, 1, 3), time.Time{})
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	_, err = src.FetchBars(ctx, "KMLM", date(2025, 1, 1), time.Time{})
	assert.ErrorIs(t, err, market.ErrNoData)

	_, err = src.FetchBars(ctx, "BITI", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, market.ErrNoData)
	var de *market.DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "BITI", de.Ticker)
}
