package handlers

import "time"

const dateLayout = "2006-01-02"

// isoWeekStart returns the Monday of the given ISO week.
func isoWeekStart(year, week int) time.Time {
	// January 4th is always inside ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	monday := jan4.AddDate(0, 0, -(wd - 1))
	return monday.AddDate(0, 0, (week-1)*7)
}

// lessonDate is the calendar date of day-of-week D (1 = Monday) in the
// given ISO week.
func lessonDate(year, week, dayOfWeek int) time.Time {
	return isoWeekStart(year, week).AddDate(0, 0, dayOfWeek-1)
}

func currentISOWeek() int {
	_, week := time.Now().ISOWeek()
	return week
}

func currentYear() int {
	year, _ := time.Now().ISOWeek()
	return year
}
