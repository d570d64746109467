package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/risk"
)

// Sink is a journal.Journal that submits every record as an order.
type Sink struct {
	broker       Broker
	orderType    risk.OrderType
	limitPercent float64
	timeout      time.Duration
	log          *zap.Logger
}

func NewSink(b Broker, orderType risk.OrderType, limitPercent float64, log *zap.Logger) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sink{
		broker:       b,
		orderType:    orderType,
		limitPercent: limitPercent,
		timeout:      10 * time.Second,
		log:          log,
	}
}

// Order builds the request for a record. Limit buys are priced
// limitPercent above the record price and limit sells the same amount below.
func (s *Sink) Order(t journal.TradeRecord) OrderRequest {
	px := decimal.NewFromFloat(t.Price)
	if s.orderType == risk.Limit {
		off := decimal.NewFromFloat(s.limitPercent)
		if t.Action == journal.Sell {
			off = off.Neg()
		}
		px = px.Mul(decimal.NewFromInt(1).Add(off)).Round(2)
	}

	return OrderRequest{
		ClientOrderID: fmt.Sprintf("%s-%s", t.TradeID, t.Action),
		Symbol:        t.Symbol,
		Side:          t.Action,
		Shares:        t.Shares,
		Type:          s.orderType,
		Price:         px.InexactFloat64(),
		Time:          t.Date(),
	}
}

func (s *Sink) RecordTrade(t journal.TradeRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req := s.Order(t)
	fill, err := s.broker.SubmitOrder(ctx, req)
	if err != nil {
		return fmt.Errorf("submit %s %s: %w", req.Side, req.Symbol, err)
	}

	s.log.Info("order filled",
		zap.String("order_id", fill.OrderID),
		zap.String("client_order_id", fill.ClientOrderID),
		zap.String("symbol", fill.Symbol),
		zap.String("side", string(fill.Side)),
		zap.Int64("shares", fill.Shares),
		zap.Float64("price", fill.Price))
	return nil
}

func (s *Sink) Close() error { return nil }
