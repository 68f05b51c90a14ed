package finance

import "time"

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year int, month time.Month, dayOfMonth int) int {
	if dayOfMonth < 1 {
		return 1
	}
	return min(dayOfMonth, DaysIn(year, month))
}

// NextRun returns the due date following current: dayOfMonth in the next
// calendar month, or that month's last day when it is shorter. The time of
// day and location of current are kept.
func NextRun(current time.Time, dayOfMonth int) time.Time {
	year, month, _ := current.Date()
	// Normalise through the 1st so that e.g. Jan 31 never overflows into March.
	target := time.Date(year, month+1, 1, 0, 0, 0, 0, current.Location())
	ty, tm, _ := target.Date()

	hour, minute, sec := current.Clock()
	return time.Date(ty, tm, clampDay(ty, tm, dayOfMonth), hour, minute, sec, current.Nanosecond(), current.Location())
}

// FirstRun returns the first due date of a new template created at now.
// A day that has already passed this month is scheduled next month;
// otherwise it is this month, including today.
func FirstRun(now time.Time, dayOfMonth int) time.Time {
	year, month, today := now.Date()
	if dayOfMonth < today {
		next := time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location())
		year, month, _ = next.Date()
	}
	return time.Date(year, month, clampDay(year, month, dayOfMonth), 0, 0, 0, 0, now.Location())
}
