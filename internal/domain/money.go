package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Money is a monetary amount with exact decimal arithmetic.
// The backend transports all amounts as decimal-formatted text
// (e.g. "25.50"), so Money marshals to and from JSON strings and
// keeps a big.Rat internally to avoid floating-point rounding.
type Money struct {
	amount *big.Rat
}

// ParseMoney parses a decimal string like "19.99" into Money.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("empty monetary value")
	}
	rat := new(big.Rat)
	if _, ok := rat.SetString(s); !ok {
		return Money{}, fmt.Errorf("invalid monetary value: %q", s)
	}
	return Money{amount: rat}, nil
}

// MustMoney is ParseMoney that panics on malformed input. Test helper.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{amount: big.NewRat(0, 1)}
}

func (m Money) rat() *big.Rat {
	if m.amount == nil {
		return big.NewRat(0, 1)
	}
	return m.amount
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: new(big.Rat).Add(m.rat(), other.rat())}
}

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(n int) Money {
	return Money{amount: new(big.Rat).Mul(m.rat(), big.NewRat(int64(n), 1))}
}

// Equals reports whether two amounts are numerically equal.
func (m Money) Equals(other Money) bool {
	return m.rat().Cmp(other.rat()) == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.rat().Sign() < 0
}

// String renders the amount with two decimal places, matching the
// backend's wire format.
func (m Money) String() string {
	return m.rat().FloatString(2)
}

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a JSON string ("25.50") or a bare
// number (25.5); some backend builds emit DECIMAL columns as numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Bare number form.
		s = string(data)
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	m.amount = parsed.amount
	return nil
}
