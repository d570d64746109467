package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/rotator/journal"
	"github.com/rustyeddy/rotator/pkg/id"
)

// Paper fills every valid order immediately at the request price and keeps
// the resulting share balances. Safe for concurrent use.
type Paper struct {
	mu        sync.Mutex
	fills     []OrderFill
	positions map[string]int64
}

func NewPaper() *Paper {
	return &Paper{positions: make(map[string]int64)}
}

func (p *Paper) SubmitOrder(ctx context.Context, req OrderRequest) (OrderFill, error) {
	if err := ctx.Err(); err != nil {
		return OrderFill{}, err
	}
	if err := req.validate(); err != nil {
		return OrderFill{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	held := p.positions[req.Symbol]
	if req.Side == journal.Sell && held < req.Shares {
		return OrderFill{}, fmt.Errorf("sell %d %s, holding %d: %w",
			req.Shares, req.Symbol, held, ErrInsufficientPosition)
	}

	fill := OrderFill{
		OrderID:       id.New(),
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Shares:        req.Shares,
		Price:         req.Price,
		Time:          req.Time,
	}

	if req.Side == journal.Buy {
		p.positions[req.Symbol] = held + req.Shares
	} else if held == req.Shares {
		delete(p.positions, req.Symbol)
	} else {
		p.positions[req.Symbol] = held - req.Shares
	}
	p.fills = append(p.fills, fill)
	return fill, nil
}

// Fills returns a copy of every fill in submission order.
func (p *Paper) Fills() []OrderFill {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]OrderFill, len(p.fills))
	copy(out, p.fills)
	return out
}

// Shares returns the current share balance of symbol.
func (p *Paper) Shares(symbol string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positions[symbol]
}
