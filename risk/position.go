package risk

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderType decides which price an entry is sized against.
type OrderType string

const (
	Market OrderType = "market"
	Limit  OrderType = "limit"
)

// SizingPolicy decides how many shares an entry buys.
type SizingPolicy string

const (
	// Notional buys ceil(notional / price) shares.
	Notional SizingPolicy = "notional"
	// Unit always buys a single share.
	Unit SizingPolicy = "unit"
)

// DefaultBaseEquity is the fixed account size backtests size orders from.
const DefaultBaseEquity = 100_000.0

var ErrInvalidPrice = errors.New("sizing price must be positive")

type Inputs struct {
	BaseEquity   float64 // fixed capital, not a live balance
	EquityUsage  float64 // fraction in (0, 1]
	OrderType    OrderType
	LimitPercent float64 // offset from close for limit orders, 0.01 = +1%
	Policy       SizingPolicy
}

type Result struct {
	Shares   int64
	Price    float64 // price the order was sized against
	Notional float64
}

// Notional returns BaseEquity x EquityUsage rounded to cents.
func (in Inputs) Notional() decimal.Decimal {
	return decimal.NewFromFloat(in.BaseEquity).
		Mul(decimal.NewFromFloat(in.EquityUsage)).
		Round(2)
}

// SizingPrice returns the close for market orders and close x (1+LimitPercent)
// for limit orders.
func (in Inputs) SizingPrice(closePx float64) decimal.Decimal {
	px := decimal.NewFromFloat(closePx)
	if in.OrderType == Limit {
		px = px.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(in.LimitPercent)))
	}
	return px
}

// Calculate sizes an entry at closePx.
func Calculate(in Inputs, closePx float64) (Result, error) {
	px := in.SizingPrice(closePx)
	if !px.IsPositive() {
		return Result{}, fmt.Errorf("size at %v: %w", closePx, ErrInvalidPrice)
	}
	notional := in.Notional()

	shares := int64(1)
	if in.Policy != Unit {
		shares = notional.Div(px).Ceil().IntPart()
	}
	if shares <= 0 {
		return Result{}, fmt.Errorf("size at %v: notional %s buys no shares", closePx, notional)
	}

	return Result{
		Shares:   shares,
		Price:    px.InexactFloat64(),
		Notional: notional.InexactFloat64(),
	}, nil
}
