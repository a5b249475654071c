package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"pricedb/internal/table"
)

// DateLayout is the display format used throughout the tool.
const DateLayout = "02.01.2006"

// DefaultMaxAgeDays is the staleness horizon for price observations.
const DefaultMaxAgeDays = 365

var (
	reDottedDate = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)
	reDigits     = regexp.MustCompile(`^\d+$`)
)

// ParseDate parses the date representations that occur in the database:
// day.month.year strings, ISO dates, and strings of at least 12 digits
// holding an epoch timestamp (values above 1e12 are milliseconds).
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if reDottedDate.MatchString(s) {
		if t, err := time.Parse("2.1.2006", s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	if reDigits.MatchString(s) && len(s) >= 12 {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return epochToTime(float64(v)), true
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func epochToTime(v float64) time.Time {
	if v > 1e12 {
		v = v / 1000
	}
	return time.Unix(int64(v), 0).UTC()
}

// CellDate extracts a date from a cell if it carries one in any of the
// known representations.
func CellDate(c table.Cell) (time.Time, bool) {
	switch c.Kind {
	case table.KindDate:
		return c.Date, true
	case table.KindNumber:
		// 12-digit minimum, same cutoff as the string form
		if c.Number >= 1e11 {
			return epochToTime(c.Number), true
		}
		return time.Time{}, false
	case table.KindText:
		return ParseDate(c.Text)
	default:
		return time.Time{}, false
	}
}

// IsStale reports whether the cell holds a date more than maxAgeDays before
// ref. Unparseable values are never stale: malformed legacy data must not
// produce false positives.
func IsStale(c table.Cell, ref time.Time, maxAgeDays int) bool {
	date, ok := CellDate(c)
	if !ok {
		return false
	}
	return ref.Sub(date) > time.Duration(maxAgeDays)*24*time.Hour
}

// FormatDateCell renders a date-row cell for display as DD.MM.YYYY,
// passing unparseable values through unchanged.
func FormatDateCell(c table.Cell) string {
	if c.IsEmpty() {
		return ""
	}
	if date, ok := CellDate(c); ok {
		return date.Format(DateLayout)
	}
	return c.Raw()
}
