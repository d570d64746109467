package backtest

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rustyeddy/rotator/market"
	"github.com/rustyeddy/rotator/risk"
	"github.com/rustyeddy/rotator/sim"
	"github.com/rustyeddy/rotator/strategies"
)

var (
	// ErrInvalidConfig wraps every configuration problem found by Validate.
	ErrInvalidConfig = errors.New("invalid backtest config")
	// ErrInvariant means the engine broke one of its own ledger rules.
	ErrInvariant = errors.New("backtest invariant violated")
)

// Config is everything a run needs besides the price data.
type Config struct {
	Universe     market.Universe
	MaxPositions int               `validate:"gte=1"`
	BaseEquity   float64           `validate:"gt=0"`
	EquityUsage  float64           `validate:"gt=0,lte=1"`
	OrderType    risk.OrderType    `validate:"oneof=market limit"`
	LimitPercent float64           `validate:"required_if=OrderType limit,gte=0"`
	Sizing       risk.SizingPolicy `validate:"oneof=notional unit"`
	SMAWindow    int               `validate:"gt=0"`
	Exits        sim.ExitRules
	// Seed drives trade ID generation; equal seeds give equal IDs.
	Seed int64
}

// DefaultConfig is the KMLM rotation with one position, full equity usage
// and market orders.
func DefaultConfig() Config {
	return Config{
		Universe:     market.DefaultUniverse(),
		MaxPositions: 1,
		BaseEquity:   risk.DefaultBaseEquity,
		EquityUsage:  1,
		OrderType:    risk.Market,
		Sizing:       risk.Notional,
		SMAWindow:    20,
		Exits:        sim.DefaultExitRules(),
	}
}

var validate = validator.New()

// Validate reports every violated field wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			errs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) sizing() risk.Inputs {
	return risk.Inputs{
		BaseEquity:   c.BaseEquity,
		EquityUsage:  c.EquityUsage,
		OrderType:    c.OrderType,
		LimitPercent: c.LimitPercent,
		Policy:       c.Sizing,
	}
}

func (c Config) buckets() strategies.Buckets {
	return strategies.BucketsFor(c.Universe)
}
