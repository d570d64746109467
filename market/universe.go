package market

// Universe is the fixed instrument list a rotation backtest runs against.
type Universe struct {
	Benchmark string   `json:"benchmark" yaml:"benchmark" validate:"required"`
	Below     []string `json:"below" yaml:"below" validate:"required,min=1,dive,required"`
	Above     []string `json:"above" yaml:"above" validate:"required,min=1,dive,required"`
}

// DefaultUniverse is the KMLM trend rotation: leveraged longs while the
// benchmark trades under its moving average, defensive and inverse funds
// otherwise.
func DefaultUniverse() Universe {
	return Universe{
		Benchmark: "KMLM",
		Below:     []string{"TQQQ", "FNGU", "SOXL"},
		Above:     []string{"BIL", "BTAL", "SQQQ", "BITI"},
	}
}

// Candidates lists every tradable ticker, below bucket first, without duplicates.
func (u Universe) Candidates() []string {
	seen := make(map[string]bool, len(u.Below)+len(u.Above))
	var out []string
	for _, list := range [][]string{u.Below, u.Above} {
		for _, t := range list {
			if seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// IsCandidate reports whether ticker belongs to either bucket.
func (u Universe) IsCandidate(ticker string) bool {
	for _, t := range u.Candidates() {
		if t == ticker {
			return true
		}
	}
	return false
}

// Tickers lists the benchmark followed by the candidates, each once. A
// benchmark that is also in a bucket is listed only as the benchmark.
func (u Universe) Tickers() []string {
	out := []string{u.Benchmark}
	for _, t := range u.Candidates() {
		if t != u.Benchmark {
			out = append(out, t)
		}
	}
	return out
}
