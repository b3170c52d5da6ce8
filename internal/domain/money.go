package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Money is a currency amount in cents. It marshals as a JSON number with
// two decimal places so prices survive round trips without float drift.
type Money int64

// NewMoney builds a Money value from whole units and cents.
func NewMoney(units, cents int64) Money {
	return Money(units*100 + cents)
}

// ParseMoney parses a decimal string such as "2999.90" or "399".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		// Round half up on the third decimal.
		roundUp := frac[2] >= '5'
		frac = frac[:2]
		m, err := parseParts(whole, frac)
		if err != nil {
			return 0, err
		}
		if roundUp {
			m++
		}
		if neg {
			m = -m
		}
		return m, nil
	}
	m, err := parseParts(whole, frac)
	if err != nil {
		return 0, err
	}
	if neg {
		m = -m
	}
	return m, nil
}

func parseParts(whole, frac string) (Money, error) {
	for len(frac) < 2 {
		frac += "0"
	}
	u, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", whole+"."+frac, err)
	}
	c, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", whole+"."+frac, err)
	}
	return Money(u*100 + c), nil
}

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 { return int64(m) }

// String renders the amount with two decimal places.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
