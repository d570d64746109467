package indicators

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWindow is returned for a rolling window that is not positive.
var ErrInvalidWindow = errors.New("window must be positive")

// SMA returns the simple moving average of values over window.
// out[i] is NaN until window values are available, and NaN whenever the
// window contains a NaN.
func SMA(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("sma: %w, got %d", ErrInvalidWindow, window)
	}

	out := make([]float64, len(values))
	for i := range values {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for _, v := range values[i+1-window : i+1] {
			sum += v
		}
		// NaN is sticky in the sum
		out[i] = sum / float64(window)
	}
	return out, nil
}
