package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rustyeddy/rotator/market"
)

// Cache memoizes a Source by ticker and date range. Concurrent requests for
// the same key share one fetch. Errors are not cached.
type Cache struct {
	src Source

	mu    sync.RWMutex
	bars  map[string][]market.Bar
	group singleflight.Group
}

func NewCache(src Source) *Cache {
	return &Cache{src: src, bars: make(map[string][]market.Bar)}
}

func cacheKey(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s|%d|%d", ticker, start.Unix(), end.Unix())
}

func (c *Cache) FetchBars(ctx context.Context, ticker string, start, end time.Time) ([]market.Bar, error) {
	key := cacheKey(ticker, start, end)

	c.mu.RLock()
	bars, ok := c.bars[key]
	c.mu.RUnlock()
	if ok {
		return bars, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		bars, err := c.src.FetchBars(ctx, ticker, start, end)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.bars[key] = bars
		c.mu.Unlock()
		return bars, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]market.Bar), nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bars)
}
