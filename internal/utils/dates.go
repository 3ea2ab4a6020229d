package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd string as a UTC calendar date.
func ParseDate(dateStr string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	return d, nil
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsPastDate reports whether date falls strictly before today's date.
func IsPastDate(date, now time.Time) bool {
	return StartOfDay(date).Before(StartOfDay(now))
}

// DaysBetween returns the whole days from a to b, ignoring time of day.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}
