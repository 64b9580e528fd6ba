// Package calendar converts between dates and the numeric day axis used by
// the trend fit, and lays out month-aligned ticks.
package calendar

import "time"

// unixEpochOrdinal is the ordinal of 1970-01-01 when 0001-01-01 is day 1
// (proleptic Gregorian calendar).
const unixEpochOrdinal = 719163

const secondsPerDay = 24 * 60 * 60

// Ordinal returns the day number of t's wall-clock date, with 0001-01-01 as
// day 1. The time of day is ignored.
func Ordinal(t time.Time) int {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix()/secondsPerDay) + unixEpochOrdinal
}

// FromOrdinal returns midnight UTC of the given day number.
func FromOrdinal(o int) time.Time {
	return time.Unix(int64(o-unixEpochOrdinal)*secondsPerDay, 0).UTC()
}

// MonthStarts lists the first day (midnight, UTC) of every n-th month in the
// closed range [min, max]. The sequence begins at the first month start on or
// after min's date; n <= 0 or max before min yields nil.
func MonthStarts(min, max time.Time, n int) []time.Time {
	if n <= 0 || max.Before(min) {
		return nil
	}

	y, m, d := min.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	if d != 1 || sinceMidnight(min) > 0 {
		start = start.AddDate(0, 1, 0)
	}

	my, mm, md := max.Date()
	last := time.Date(my, mm, md, 0, 0, 0, 0, time.UTC)

	var out []time.Time
	for t := start; !t.After(last); t = t.AddDate(0, n, 0) {
		out = append(out, t)
	}
	return out
}

func sinceMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	return t.Sub(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}
