package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingPolicy decides how a fractional minor-unit value becomes an Amount.
type RoundingPolicy string

const (
	RoundHalfUp RoundingPolicy = "round"
	RoundFloor  RoundingPolicy = "floor"
	RoundCeil   RoundingPolicy = "ceil"
)

// Valid reports whether p is a known policy.
func (p RoundingPolicy) Valid() bool {
	switch p {
	case RoundHalfUp, RoundFloor, RoundCeil:
		return true
	}
	return false
}

// Apply rounds a value expressed in minor units to a whole minor unit.
// An unknown policy falls back to half-away-from-zero rounding.
func (p RoundingPolicy) Apply(minor decimal.Decimal) Amount {
	var r decimal.Decimal
	switch p {
	case RoundFloor:
		r = minor.RoundFloor(0)
	case RoundCeil:
		r = minor.RoundCeil(0)
	default:
		r = minor.Round(0)
	}
	return Amount(r.IntPart())
}

// ParseRoundingPolicy validates a policy string.
func ParseRoundingPolicy(s string) (RoundingPolicy, error) {
	p := RoundingPolicy(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown rounding policy %q", s)
	}
	return p, nil
}
