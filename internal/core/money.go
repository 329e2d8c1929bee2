// Package core provides money parsing and handling utilities.
//
// Amounts are whole minor currency units (no decimals). Parsing accepts
// the digit-grouped strings produced by locale-aware inputs, checks the
// grouping is well formed, and strips the separators before conversion.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a user-supplied amount string to whole currency
// units.
//
// Grouping separators (dot, comma, space) are accepted only between
// three-digit groups, so "2.000.000", "2,000,000" and "2000000" all
// parse to 2000000 while decimal-looking strings such as "500.5" are
// rejected rather than silently scaled. Returns an error for empty
// input, signs, misplaced separators, non-digit characters, zero, or
// overflow.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	var b strings.Builder
	groupLen := 0
	grouped := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			groupLen++
		case r == '.' || r == ',' || r == ' ':
			// The group before the first separator may be 1-3 digits,
			// every later group must be exactly 3.
			if !grouped {
				if groupLen < 1 || groupLen > 3 {
					return 0, ErrInvalidAmount
				}
				grouped = true
			} else if groupLen != 3 {
				return 0, ErrInvalidAmount
			}
			groupLen = 0
		default:
			return 0, ErrInvalidAmount
		}
	}
	if grouped && groupLen != 3 {
		return 0, ErrInvalidAmount
	}
	digits := b.String()
	if digits == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Format renders the amount with dot thousands separators for display.
// Calculations always use Units directly.
func (m Money) Format() string {
	neg := m.Units < 0
	units := m.Units
	if neg {
		units = -units
	}
	s := strconv.FormatInt(units, 10)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
