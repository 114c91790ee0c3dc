package utils

import (
	"regexp"
	"time"
)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidClock reports whether s is a zero-padded 24h "HH:MM" clock string.
// Zero-padding matters: the scheduler compares clock strings lexicographically.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// MonthRange returns the first day of the given month and the first day of the
// following month, for use as a half-open [from, to) date filter.
func MonthRange(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// ClockMinutes converts a valid "HH:MM" string to minutes since midnight.
// Returns 0 for malformed input; validate with IsValidClock first.
func ClockMinutes(s string) int {
	if len(s) != 5 {
		return 0
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	minutes := int(s[3]-'0')*10 + int(s[4]-'0')
	return hours*60 + minutes
}
