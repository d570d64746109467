package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/rotator/indicators"
	"github.com/rustyeddy/rotator/market"
)

// Request describes what LoadUniverse fetches.
type Request struct {
	Universe  market.Universe
	Start     time.Time
	End       time.Time
	SMAWindow int
	ATRWindow int
	// Parallel bounds concurrent fetches; 0 means 4.
	Parallel int
}

// LoadUniverse fetches and annotates every ticker of the universe
// concurrently. A benchmark failure is returned; a failing candidate is
// logged and left out of the map. A benchmark listed in a bucket is fetched
// once and returned in both places.
func LoadUniverse(ctx context.Context, src Source, req Request, log *zap.Logger) (market.Series, map[string]market.Series, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if req.Parallel <= 0 {
		req.Parallel = 4
	}

	var (
		mu         sync.Mutex
		benchmark  market.Series
		candidates = make(map[string]market.Series)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Parallel)

	for _, ticker := range req.Universe.Tickers() {
		isBenchmark := ticker == req.Universe.Benchmark
		g.Go(func() error {
			s, err := load(gctx, src, ticker, req)
			if err != nil {
				if isBenchmark || errors.Is(err, context.Canceled) {
					return err
				}
				log.Warn("candidate excluded", zap.String("ticker", ticker), zap.Error(err))
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if isBenchmark {
				benchmark = s
			}
			if req.Universe.IsCandidate(ticker) {
				candidates[ticker] = s
			}
			log.Debug("series loaded", zap.String("ticker", ticker), zap.Int("bars", s.Len()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return market.Series{}, nil, err
	}
	return benchmark, candidates, nil
}

func load(ctx context.Context, src Source, ticker string, req Request) (market.Series, error) {
	bars, err := src.FetchBars(ctx, ticker, req.Start, req.End)
	if err != nil {
		var de *market.DataError
		if errors.As(err, &de) {
			return market.Series{}, err
		}
		return market.Series{}, &market.DataError{Ticker: ticker, Err: err}
	}
	if len(bars) == 0 {
		return market.Series{}, &market.DataError{Ticker: ticker, Err: market.ErrNoData}
	}

	s, err := indicators.Annotate(ticker, bars, req.SMAWindow, req.ATRWindow)
	if err != nil {
		return market.Series{}, &market.DataError{Ticker: ticker, Err: err}
	}
	return s, nil
}
