package journal

import (
	"bytes"
	"text/template"
	"time"
)

// RunSummary mirrors the runs table.
type RunSummary struct {
	RunID        string
	Created      time.Time
	Benchmark    string
	Start        time.Time
	End          time.Time
	MaxPositions int

	Trades      int
	Wins        int
	Losses      int
	NetPnL      float64
	MaxDrawdown float64
}

// WinRate is the share of winning trades in percent.
func (r RunSummary) WinRate() float64 {
	if r.Trades == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trades) * 100
}

var runOrgTemplate = template.Must(template.New("run").Parse(`* BACKTEST: {{.Benchmark}} rotation {{.Start.Format "2006-01-02"}} .. {{.End.Format "2006-01-02"}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:BENCHMARK:   {{.Benchmark}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:MAX_POS:     {{.MaxPositions}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRate}}
:NET_PNL:     {{printf "%.2f" .NetPnL}}
:MAX_DD:      {{printf "%.2f" .MaxDrawdown}}
:CREATED:     [{{.Created.Format "2006-01-02 Mon 15:04"}}]
:END:

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |
`))

// FormatRunOrg renders a run summary as an Org heading.
func FormatRunOrg(r RunSummary) (string, error) {
	var buf bytes.Buffer
	if err := runOrgTemplate.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
