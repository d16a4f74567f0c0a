package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NumberFormat controls how monetary values are rendered as strings.
type NumberFormat struct {
	Decimals  int
	Point     string
	Thousands string
}

// DefaultNumberFormat returns the standard format: two decimals, "." as the
// decimal point, "," as the thousands separator.
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{Decimals: 2, Point: ".", Thousands: ","}
}

// FormatOverride carries optional per-call formatting overrides. Nil fields
// fall back to the configured defaults.
type FormatOverride struct {
	Decimals  *int
	Point     *string
	Thousands *string
}

// With applies a (possibly nil) override on top of the base format.
func (f NumberFormat) With(o *FormatOverride) NumberFormat {
	if o == nil {
		return f
	}
	if o.Decimals != nil {
		f.Decimals = *o.Decimals
	}
	if o.Point != nil {
		f.Point = *o.Point
	}
	if o.Thousands != nil {
		f.Thousands = *o.Thousands
	}
	return f
}

// Format renders a decimal value with the given format, e.g. 6000 with
// point "," and thousands "." becomes "6.000,00".
func (f NumberFormat) Format(d decimal.Decimal) string {
	s := d.StringFixed(int32(f.Decimals))

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.Thousands)
		}
		b.WriteRune(digit)
	}
	if fracPart != "" {
		b.WriteString(f.Point)
		b.WriteString(fracPart)
	}
	return b.String()
}
