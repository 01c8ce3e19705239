package services

import "time"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// EndOfDay returns the last representable instant of value's calendar day.
func EndOfDay(value time.Time, location *time.Location) time.Time {
	_, next := DayRange(value, location)
	return next.Add(-time.Nanosecond)
}

func SameCalendarDay(left time.Time, right time.Time, location *time.Location) bool {
	return DateAtLocation(left, location).Equal(DateAtLocation(right, location))
}
