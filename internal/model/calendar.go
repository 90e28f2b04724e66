package model

import "time"

// DateLayout is the calendar-date format used in the ledger document.
const DateLayout = "2006-01-02"

// NextWeekday returns the first Monday-Friday date strictly after t.
// Holidays are not considered.
func NextWeekday(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
