package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var rePriceNoise = regexp.MustCompile(`[^\d.,\-]`)

// ParsePrice strips currency symbols and spaces, accepts a comma decimal
// separator and parses the rest. ok is false for non-price text.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	s := rePriceNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, false
	}
	// keep only the last dot as decimal separator ("1.234.56" style input)
	if n := strings.Count(s, "."); n > 1 {
		last := strings.LastIndex(s, ".")
		s = strings.ReplaceAll(s[:last], ".", "") + s[last:]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatPrice renders a price for display: two decimals, comma separator,
// euro suffix.
func FormatPrice(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",") + " €"
}

// FormatPriceText formats a raw price value for display. Non-numeric input
// is returned unchanged: it stays opaque text, numeric-only contexts must
// guard themselves.
func FormatPriceText(raw string) string {
	d, ok := ParsePrice(raw)
	if !ok {
		return raw
	}
	return FormatPrice(d)
}
