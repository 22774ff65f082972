package dateutil

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// BeginningOfWeek returns the most recent Monday midnight at or before t.
func BeginningOfWeek(t time.Time) time.Time {
	day := BeginningOfDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

func NextWeek(t time.Time) time.Time {
	return BeginningOfWeek(t).AddDate(0, 0, 7)
}
