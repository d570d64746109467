// Package broker turns ledger entries into orders. Paper fills them in
// memory; real brokerage adapters implement Broker outside this module.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/risk"
)

var (
	ErrInvalidOrder         = errors.New("invalid order")
	ErrInsufficientPosition = errors.New("insufficient position")
)

type Broker interface {
	SubmitOrder(ctx context.Context, req OrderRequest) (OrderFill, error)
}

type OrderRequest struct {
	ClientOrderID string
	Symbol        string
	Side          journal.Action
	Shares        int64
	Type          risk.OrderType
	// Price is the limit price for limit orders and the reference price
	// for market orders.
	Price float64
	Time  time.Time
}

type OrderFill struct {
	OrderID       string
	ClientOrderID string
	Symbol        string
	Side          journal.Action
	Shares        int64
	Price         float64
	Time          time.Time
}

func (r OrderRequest) validate() error {
	switch {
	case r.Symbol == "":
		return errors.Join(ErrInvalidOrder, errors.New("empty symbol"))
	case r.Side != journal.Buy && r.Side != journal.Sell:
		return errors.Join(ErrInvalidOrder, errors.New("unknown side "+string(r.Side)))
	case r.Shares <= 0:
		return errors.Join(ErrInvalidOrder, errors.New("shares must be positive"))
	case r.Price <= 0:
		return errors.Join(ErrInvalidOrder, errors.New("price must be positive"))
	}
	return nil
}
