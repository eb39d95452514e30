// Package money represents currency amounts as integer minor units (cents).
//
// Ledger arithmetic never touches floating point. Decimal strings coming off the
// wire are parsed with shopspring/decimal and rounded half-up to the nearest cent.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNonPositive    = errors.New("amount must be greater than zero")
	ErrAmountTooLarge = errors.New("amount out of range")
)

// Amount is a signed currency value in cents.
type Amount int64

// maxUnits caps a single parsed amount at 10^11 currency units (10^13 cents).
// Sums still go through Add, which reports overflow.
var maxUnits = decimal.New(1, 11)

// Parse converts a decimal string such as "12.34", "12,34" or "-5" to cents.
// Extra fractional digits are rounded half-up ("12.345" -> 1235).
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Abs().GreaterThanOrEqual(maxUnits) {
		return 0, ErrAmountTooLarge
	}
	return FromDecimal(d), nil
}

// ParsePositive parses s and rejects zero or negative amounts.
func ParsePositive(s string) (Amount, error) {
	a, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if a <= 0 {
		return 0, ErrNonPositive
	}
	return a, nil
}

// FromDecimal rounds a decimal currency value to cents.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Shift(2).Round(0).IntPart())
}

// FromCents wraps a raw cent count.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Decimal returns a as a decimal in currency units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats with exactly two fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// Add returns a+b, or ErrAmountTooLarge if the result overflows int64.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrAmountTooLarge
	}
	return sum, nil
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}
