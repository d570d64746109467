package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

// CSVColumns is the header of the trade ledger export.
var CSVColumns = []string{
	"trade_id", "run_id", "symbol", "action", "price", "shares",
	"entry_date", "entry_price", "entry_signal",
	"exit_date", "exit_price", "exit_reason", "exit_rule", "pnl",
}

// CSVJournal appends every record to a CSV file as it arrives.
type CSVJournal struct {
	w    *csv.Writer
	file *os.File
}

// NewCSV creates (or truncates) path and writes the header.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(CSVColumns); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, file: f}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	if err := j.w.Write(CSVRow(t)); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}

// WriteCSV writes the header and trades to w.
func WriteCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(CSVRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVRow renders t in CSVColumns order. Exit columns are blank for BUY records.
func CSVRow(t TradeRecord) []string {
	row := []string{
		t.TradeID,
		t.RunID,
		t.Symbol,
		string(t.Action),
		f(t.Price),
		strconv.FormatInt(t.Shares, 10),
		day(t.EntryDate),
		f(t.EntryPrice),
		t.EntrySignal,
		"", "", "", "", "",
	}
	if t.Action == Sell {
		row[9] = day(t.ExitDate)
		row[10] = f(t.ExitPrice)
		row[11] = t.ExitReason
		row[12] = strconv.Itoa(t.ExitRule)
		row[13] = f(t.RealizedPnL)
	}
	return row
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
