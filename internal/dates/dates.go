// Package dates handles the calendar dates used throughout Hisab. Dates carry
// no time component; internally they are time.Time values normalized to
// midnight UTC so that two records on the same calendar day always compare
// equal, regardless of which driver or timezone produced them.
package dates

import "time"

// Parse parses an ISO-8601 YYYY-MM-DD string into a normalized date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Format renders a date as YYYY-MM-DD for the API boundary.
func Format(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Normalize strips the time component and timezone, keeping only the
// calendar day.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthWindow returns the half-open interval [first day of the month, first
// day of the next month) for range queries.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearWindow returns the half-open interval covering the whole year.
func YearWindow(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
