// Package amount turns noisy OCR money tokens into two-decimal amounts.
package amount

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value with exactly two fractional digits.
// The zero value is 0.00.
type Amount struct {
	d decimal.Decimal
}

// Zero is 0.00.
var Zero = Amount{}

// Normalize converts a raw token such as "$1.234,56", "1,234.56" or "1234"
// into an Amount. It never fails: anything it cannot read becomes 0.00.
//
// The last separator in the token is the decimal point unless it is followed
// by exactly three digits and looks like digit grouping. A token made only of
// digits is read as cents, so "1234" is 12.34 and "5" is 0.05.
func Normalize(token string) Amount {
	s, negative := clean(token)
	if strings.IndexFunc(s, isDigit) < 0 {
		return Zero
	}

	d, err := decimal.NewFromString(canonical(s))
	if err != nil {
		return Zero
	}
	if negative {
		d = d.Neg()
	}
	return Amount{d: d.Round(2)}
}

// FromDecimal rounds d to cents.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d.Round(2)}
}

// clean drops currency glyphs, whitespace and OCR noise, keeping digits,
// separators and a leading minus sign.
func clean(token string) (string, bool) {
	var b strings.Builder
	negative := false
	for _, r := range token {
		switch {
		case isDigit(r), r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}
	return b.String(), negative
}

// canonical rewrites s (digits and separators only) as "digits[.digits]".
func canonical(s string) string {
	// Trailing separators are punctuation: "35.00." or "12.".
	if trimmed := strings.TrimRight(s, ".,"); trimmed != s {
		if !strings.ContainsAny(trimmed, ".,") {
			return digits(trimmed)
		}
		s = trimmed
	}

	last := strings.LastIndexAny(s, ".,")
	if last < 0 {
		return cents(s)
	}

	intPart, frac := s[:last], s[last+1:]
	if isGrouping(s, s[last], intPart, frac) {
		return digits(s)
	}

	whole := digits(intPart)
	if whole == "" {
		whole = "0"
	}
	return whole + "." + frac
}

// isGrouping reports whether the final separator sep is a thousands mark.
// It must be followed by three digits, the other separator kind must not
// appear before it, and either sep is a comma or it repeats ("1.234.567").
func isGrouping(s string, sep byte, intPart, frac string) bool {
	if len(frac) != 3 {
		return false
	}
	other := "."
	if sep == '.' {
		other = ","
	}
	if strings.Contains(intPart, other) {
		return false
	}
	return sep == ',' || strings.Count(s, string(sep)) > 1
}

// cents places the decimal point two digits from the right.
func cents(s string) string {
	if len(s) < 3 {
		s = strings.Repeat("0", 3-len(s)) + s
	}
	return s[:len(s)-2] + "." + s[len(s)-2:]
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if isDigit(r) {
			return r
		}
		return -1
	}, s)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// Float64 returns the amount as a float64.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

// IsZero reports whether the amount is 0.00.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// Equal compares two amounts by value.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) String() string {
	return a.d.StringFixed(2)
}

// MarshalJSON writes the amount as a bare JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string. Unlike Normalize,
// a value here is already structured, so "30" is thirty, not thirty cents.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*a = Zero
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	*a = FromDecimal(d)
	return nil
}
