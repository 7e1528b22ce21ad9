// Package week holds the ISO-8601 calendar math the partitioning scheme
// is built on. Partitions are keyed by (calendar year, ISO week number);
// around New Year the ISO week-year and the calendar year can disagree,
// and the store deliberately uses the calendar year so that queries,
// invalidation and the scheduled refresh all compute the same key.
package week

import (
	"time"
)

// Number returns the ISO-8601 week number of t: the week containing the
// year's first Thursday is week 1.
func Number(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

// Monday returns the Monday of the given ISO week, at midnight in loc.
func Monday(weekNumber, year int, loc *time.Location) time.Time {
	// January 4 is always in week 1.
	ref := time.Date(year, time.January, 4+(weekNumber-1)*7, 0, 0, 0, 0, loc)
	offset := (int(ref.Weekday()) + 6) % 7
	return ref.AddDate(0, 0, -offset)
}

// InMonth returns the ISO week numbers overlapping the given month, in
// the order their days occur.
func InMonth(year int, month time.Month, loc *time.Location) []int {
	var weeks []int
	seen := make(map[int]bool)

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		w := Number(d)
		if !seen[w] {
			seen[w] = true
			weeks = append(weeks, w)
		}
	}

	return weeks
}

// UTCStamp formats t as an iCalendar UTC date-time (e.g. 20240117T173000Z).
func UTCStamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// DateStamp formats t as an iCalendar all-day date (e.g. 20240115).
func DateStamp(t time.Time) string {
	return t.Format("20060102")
}
