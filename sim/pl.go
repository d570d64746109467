package sim

import "github.com/shopspring/decimal"

// realizedPL is (exit-entry)*shares computed in decimal so whole-cent prices
// produce exact results.
func realizedPL(entry, exit float64, shares int64) decimal.Decimal {
	return decimal.NewFromFloat(exit).
		Sub(decimal.NewFromFloat(entry)).
		Mul(decimal.NewFromInt(shares))
}

// RealizedPL returns the realized profit of a long position.
func RealizedPL(entry, exit float64, shares int64) float64 {
	return realizedPL(entry, exit, shares).InexactFloat64()
}
