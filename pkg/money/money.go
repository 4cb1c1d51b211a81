// Package money keeps amounts as signed integer cents so balances and prices
// never pass through floating point.
package money

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// Cents is an amount in minor units. 10000 is 100.00.
type Cents int64

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ParseCents parses a decimal string such as "75", "75.5" or "-12.30".
// At most two fractional digits are accepted; exponents and separators are not.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if !plainDecimal(s) {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	if d.Exponent() < -2 {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q has more than two decimals", s)
	}
	c := d.Shift(2)
	if c.GreaterThan(maxCents) || c.LessThan(minCents) {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q out of range", s)
	}
	return Cents(c.IntPart()), nil
}

// String formats the amount as "123.45" (with a leading '-' when negative).
func (c Cents) String() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

// plainDecimal accepts an optional sign, digits and at most one '.' that is
// followed by at least one digit.
func plainDecimal(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && frac == "" {
		return false
	}
	return whole+frac != "" && digitsOnly(whole) && digitsOnly(frac)
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
