package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the canonical, lexically sortable date representation.
const DateFormat = "2006-01-02"

var dateLayouts = []string{
	DateFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// ParseDate parses a statement date in any accepted layout and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// NormalizeDate rewrites s as YYYY-MM-DD. The second result is false if s
// could not be parsed.
func NormalizeDate(s string) (string, bool) {
	d, err := ParseDate(s)
	if err != nil {
		return "", false
	}
	return d.Format(DateFormat), true
}

// MonthKey identifies a calendar month (UTC).
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the UTC calendar month containing t.
func MonthOf(t time.Time) MonthKey {
	t = t.UTC()
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String returns "YYYY-MM".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before reports whether k is an earlier month than o.
func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// MarshalText encodes the key as "YYYY-MM".
func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes "YYYY-MM".
func (k *MonthKey) UnmarshalText(b []byte) error {
	parsed, err := ParseMonthKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseMonthKey parses "2025-01" into a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return MonthKey{}, fmt.Errorf("invalid month key format: %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid year in month key %q: %w", s, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month in month key %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("month out of range in month key %q", s)
	}

	return MonthKey{Year: year, Month: time.Month(month)}, nil
}
