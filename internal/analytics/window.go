package analytics

import "time"

// daysSinceMonday is an explicit weekday table. Sunday closes the week that
// began on the preceding Monday.
var daysSinceMonday = map[time.Weekday]int{
	time.Monday:    0,
	time.Tuesday:   1,
	time.Wednesday: 2,
	time.Thursday:  3,
	time.Friday:    4,
	time.Saturday:  5,
	time.Sunday:    6,
}

// TimeWindow is a half-open interval [Start, End). A zero End means the
// window is unbounded on the right.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return w.End.IsZero() || t.Before(w.End)
}

// StartOfWeek returns Monday 00:00:00 of the week containing now, in now's
// location.
func StartOfWeek(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -daysSinceMonday[now.Weekday()])
}

// CurrentWeek returns [startOfWeek, +inf).
func CurrentWeek(now time.Time) TimeWindow {
	return TimeWindow{Start: StartOfWeek(now)}
}

// PreviousWeek returns [startOfWeek-7d, startOfWeek).
func PreviousWeek(now time.Time) TimeWindow {
	start := StartOfWeek(now)
	return TimeWindow{Start: start.AddDate(0, 0, -7), End: start}
}
