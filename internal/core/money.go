package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in currency cents. Cents keep arithmetic exact; use
// Euros only for display.
type Money struct {
	Cents int64
}

func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount the way the bills table shows it, e.g. "100 €".
func (m Money) String() string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10) + " €"
	}
	return fmt.Sprintf("%d.%02d €", m.Cents/100, m.Cents%100)
}

// ParseDecimalToCents converts a decimal amount string to cents. Both "12.34"
// and "12,34" forms are accepted; fractions beyond two digits are rounded
// half-up. Negative amounts are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole > (1<<63-1)/100 {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if hasFrac {
		if fracPart == "" || strings.Contains(fracPart, ".") {
			return 0, ErrInvalidAmount
		}
		for _, r := range fracPart {
			if r < '0' || r > '9' {
				return 0, ErrInvalidAmount
			}
		}
		switch {
		case len(fracPart) == 1:
			frac = int64(fracPart[0]-'0') * 10
		default:
			frac = int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return whole*100 + frac, nil
}

// ParsePct parses the VAT-percentage field, falling back to DefaultPct when
// the field is blank or non-numeric. Matches the legacy form behavior.
func ParsePct(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return DefaultPct
	}
	return v
}

// ParseVAT parses the optional VAT field; blank means zero.
func ParseVAT(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
