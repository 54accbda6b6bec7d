// Package money holds the fixed-point monetary type used across billing and
// reconciliation. Amounts are integer minor units (kobo, cents); the decimal
// form only appears at the JSON, CSV and database boundaries.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of fractional digits in the major unit.
const MinorUnitExponent = 2

var (
	// ErrInvalidAmount is returned when a value cannot be represented exactly in minor units.
	ErrInvalidAmount = errors.New("invalid monetary amount")

	hundred = decimal.NewFromInt(100)
)

// Amount is a monetary value in minor units.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// FromMinor wraps a minor-unit integer.
func FromMinor(minor int64) Amount {
	return Amount(minor)
}

// FromMajor converts a major-unit decimal (e.g. 10000.50) to minor units.
// Values with more than two fractional digits are rejected rather than rounded.
func FromMajor(d decimal.Decimal) (Amount, error) {
	minor := d.Mul(hundred)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), MinorUnitExponent)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
	}
	return Amount(minor.IntPart()), nil
}

// MustMajor parses a major-unit string and panics on failure. Intended for
// fixtures and static catalogs.
func MustMajor(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	a, err := FromMajor(d)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseMajor parses a major-unit string such as "1,250.00" or "-30".
func ParseMajor(s string) (Amount, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromMajor(d)
}

// Minor returns the raw minor-unit value.
func (a Amount) Minor() int64 { return int64(a) }

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -MinorUnitExponent)
}

// MinorDecimal returns the amount in minor units as a decimal, the scale the
// tax engine computes in.
func (a Amount) MinorDecimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}

// String renders the major-unit value with exactly two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(MinorUnitExponent)
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

// MulInt multiplies by an integer quantity.
func (a Amount) MulInt(n int) Amount {
	return a * Amount(n)
}

// MarshalJSON renders the amount as a JSON number in major units.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*a = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = s
	}
	parsed, err := ParseMajor(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores the amount as BIGINT minor units.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan reads a BIGINT minor-unit column.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*a = Amount(v)
	case int32:
		*a = Amount(v)
	case nil:
		*a = 0
	default:
		return fmt.Errorf("money.Amount: cannot scan %T", src)
	}
	return nil
}
