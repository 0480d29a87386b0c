package todo

import "time"

// DayWindow returns [start of day, start of next day) around now in loc.
// AddDate keeps wall-clock midnight across DST transitions.
func DayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns [Monday 00:00, next Monday 00:00) of the ISO week
// containing now in loc.
func WeekWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	monday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -daysSinceMonday)
	return monday, monday.AddDate(0, 0, 7)
}
