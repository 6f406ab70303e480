package domain

import "time"

// NextDailyRun returns the next moment strictly after now at which the local
// wall clock in loc shows atM (minutes since midnight).
// On a DST gap time.Date normalizes the missing wall time forward.
func NextDailyRun(now time.Time, loc *time.Location, atM int) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	h, m := atM/60, atM%60

	candidate := time.Date(local.Year(), local.Month(), local.Day(), h, m, 0, 0, loc)
	if !candidate.After(now) {
		candidate = time.Date(local.Year(), local.Month(), local.Day()+1, h, m, 0, 0, loc)
	}
	return candidate
}

// LocalizeTime formats t in loc as YYYY-MM-DD HH:MM.
func LocalizeTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
