package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money int64

// ParseMoney parses a decimal amount such as "999.99". More than two
// fractional digits are rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("parse amount %q: more than two decimal places", s)
	}
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("parse amount %q: out of range", s)
	}
	return Money(cents.IntPart()), nil
}

// Mul returns m times quantity, or ErrAmountOutOfRange when the result
// does not fit in int64 cents.
func (m Money) Mul(quantity int) (Money, error) {
	return inRange(decimal.NewFromInt(int64(m)).Mul(decimal.NewFromInt(int64(quantity))))
}

// Plus returns m + o, or ErrAmountOutOfRange on overflow.
func (m Money) Plus(o Money) (Money, error) {
	return inRange(decimal.NewFromInt(int64(m)).Add(decimal.NewFromInt(int64(o))))
}

func inRange(cents decimal.Decimal) (Money, error) {
	if !cents.BigInt().IsInt64() {
		return 0, ErrAmountOutOfRange
	}
	return Money(cents.IntPart()), nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
