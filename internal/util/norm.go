package util

import (
	"strconv"
	"strings"
)

// NormalizeIdentifier canonicalizes a match-key value. Spreadsheet number
// parsing turns numeric identifiers into floats ("1000123" becomes
// "1000123.0"), so values that parse as a decimal number are rendered as an
// integer string. Empty, "null" and the literal "nan" never act as keys.
func NormalizeIdentifier(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "nan" || s == "null" {
		return ""
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return strconv.FormatInt(int64(v), 10)
	}
	return s
}

// NormalizeQuantity canonicalizes a lot size. Comma decimal separators are
// accepted and the value is truncated to an integer. Non-numeric lot labels
// ("auf Anfrage") fall back to the lower-cased trimmed original.
func NormalizeQuantity(raw string) string {
	s := strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return strconv.FormatInt(int64(v), 10)
	}
	return strings.ToLower(s)
}

// NormalizeSource canonicalizes a source label. Discount annotations are
// appended in parentheses ("Mouser (-30%)"), so the label is truncated at
// the first "(" to compare equal with its spreadsheet counterpart.
func NormalizeSource(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// NormalizeText trims a free-text key cell, treating the literal "nan" as
// empty so stringified missing values never match a search.
func NormalizeText(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
