package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniverseTickers(t *testing.T) {
	t.Parallel()

	u := Universe{Benchmark: "BM", Below: []string{"A", "B"}, Above: []string{"B", "BM", "X"}}

	assert.Equal(t, []string{"A", "B", "BM", "X"}, u.Candidates())
	assert.Equal(t, []string{"BM", "A", "B", "X"}, u.Tickers())
	assert.True(t, u.IsCandidate("BM"))
	assert.True(t, u.IsCandidate("X"))
	assert.False(t, u.IsCandidate("Q"))
}

func TestDefaultUniverse(t *testing.T) {
	t.Parallel()

	u := DefaultUniverse()
	assert.Equal(t, "KMLM", u.Benchmark)
	assert.False(t, u.IsCandidate("KMLM"))
	assert.Len(t, u.Tickers(), 8)
}
