// Package core holds the domain types and validation shared by every layer:
// categories, dates, hourly logs, spend items, and money arithmetic in cents.
package core

import (
	"strconv"
	"strings"
)

// ParseDecimalToCents converts a user-supplied decimal amount to cents.
// Both "." and "," work as decimal separators. Digits past the second
// fractional place round half-up. Zero is a valid amount (a day with no
// spend); signed values are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !allDigits(whole) || (hasFrac && !allDigits(frac)) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (1<<63-1)/100 {
		return 0, ErrInvalidAmount
	}

	var cents int64
	switch {
	case len(frac) >= 2:
		cents = int64(frac[0]-'0')*10 + int64(frac[1]-'0')
		if len(frac) > 2 && frac[2] >= '5' {
			cents++
		}
	case len(frac) == 1:
		cents = int64(frac[0]-'0') * 10
	}

	return units*100 + cents, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Float64 returns the amount in currency units. Serialization and display
// only; arithmetic stays in cents.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}
