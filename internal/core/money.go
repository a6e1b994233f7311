// Package core holds the domain types shared by the budget engine, the chat
// parser, storage, and the HTTP and bot surfaces.
//
// Money is stored in integer minor units (paise). Summing many small amounts
// must be exact, so there is no floating point anywhere in the money path.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (paise for the default ₹).
type Money struct {
	Cents int64
}

// FromUnits builds a Money from whole currency units.
func FromUnits(units int64) Money {
	return Money{Cents: units * 100}
}

// Units returns the whole-unit part, truncated toward zero.
func (m Money) Units() int64 {
	return m.Cents / 100
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other. The result may be negative; a negative balance is a
// meaningful state (over budget), not an error.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Validate rejects non-positive amounts. Zero and negative expenses are never
// accepted from user input.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount converts a decimal string to Money with half-up rounding on the
// third decimal place. Both dot and comma separators are accepted. Returns
// ErrInvalidAmount for anything non-positive or unparseable.
//
//	ParseAmount("12.34") -> ₹12.34
//	ParseAmount("12,34") -> ₹12.34 (comma separator)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// Format renders the amount with the given currency symbol and Indian digit
// grouping (₹1,00,000). Paise are shown only when present.
func (m Money) Format(symbol string) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := cents / 100
	rem := cents % 100
	s := sign + symbol + groupIndian(units)
	if rem != 0 {
		s += "." + pad2(rem)
	}
	return s
}

// groupIndian inserts separators in the Indian numbering style: the last
// three digits form one group, every two digits before that another.
func groupIndian(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(parts, ",") + "," + tail
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
