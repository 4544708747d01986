package utils

import "time"

// DateLayout is the stored form of appointment dates.
const DateLayout = "2006-01-02"

// DateIn formats t as a calendar date in loc.
func DateIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// StartOfDay is midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth is midnight of the first day of t's month in loc.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}
