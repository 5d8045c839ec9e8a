// Package time has the UTC helpers shared by retention and its wire types
package time

import "time"

// Day is a calendar-free day; retention windows never follow DST
const Day = 24 * time.Hour

// DaysBefore returns now in UTC minus days whole days
func DaysBefore(now time.Time, days int) time.Time {
	return now.UTC().Add(-time.Duration(days) * Day)
}

// Ptr returns &t, or nil for the zero time so it is omitted from JSON
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
