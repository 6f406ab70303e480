package domain

import "time"

// Category says why an entry is due on a given run.
type Category int

const (
	CategoryToday Category = iota
	CategoryWeekend
	CategoryHoliday
)

// Categories lists every category in message order.
var Categories = []Category{CategoryToday, CategoryWeekend, CategoryHoliday}

func (c Category) String() string {
	switch c {
	case CategoryToday:
		return "today"
	case CategoryWeekend:
		return "weekend"
	case CategoryHoliday:
		return "holiday"
	default:
		return "unknown"
	}
}

// DueEntry is a roster entry that needs a notification on this run.
type DueEntry struct {
	Name     string
	Date     string // DD.MM as stored
	Category Category
	Weekday  string // set for CategoryWeekend only
}

// maxCarryDays bounds the walk back over a run of non-working days.
const maxCarryDays = 14

// Resolver decides who is due on a given day.
type Resolver struct {
	Holidays HolidayCalendar
	Location *time.Location

	// CarryNonWorking replaces the Monday and yesterday rules with a walk back
	// over every consecutive non-working day before today. Set it when runs
	// are skipped on non-working days.
	CarryNonWorking bool
}

// Resolve returns today's entries, then those carried over from the weekend
// (Mondays only), then those carried over from yesterday's holiday.
//
// A holiday that falls on Saturday or Sunday is left to the Monday weekend
// rule, so every date resolves at most once.
func (r Resolver) Resolve(today time.Time, roster *Roster) []DueEntry {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	today = today.In(loc)
	var due []DueEntry

	todayStr := DayMonthOf(today)
	for _, n := range roster.Matching(todayStr) {
		due = append(due, DueEntry{Name: n, Date: todayStr, Category: CategoryToday})
	}

	if r.CarryNonWorking {
		return append(due, r.carried(today, roster)...)
	}

	if today.Weekday() == time.Monday {
		for _, back := range []int{2, 1} {
			d := addDays(today, -back)
			ds := DayMonthOf(d)
			for _, n := range roster.Matching(ds) {
				due = append(due, DueEntry{
					Name:     n,
					Date:     ds,
					Category: CategoryWeekend,
					Weekday:  d.Weekday().String(),
				})
			}
		}
	}

	yesterday := addDays(today, -1)
	ys := DayMonthOf(yesterday)
	if r.Holidays.IsHoliday(ys) && !IsWeekend(yesterday) {
		for _, n := range roster.Matching(ys) {
			due = append(due, DueEntry{Name: n, Date: ys, Category: CategoryHoliday})
		}
	}

	return due
}

// carried resolves the non-working days right before today, oldest first,
// weekend days ahead of holidays.
func (r Resolver) carried(today time.Time, roster *Roster) []DueEntry {
	var days []time.Time
	for back := 1; back <= maxCarryDays; back++ {
		d := addDays(today, -back)
		if r.IsWorkingDay(d) {
			break
		}
		days = append([]time.Time{d}, days...)
	}

	var weekend, holiday []DueEntry
	for _, d := range days {
		ds := DayMonthOf(d)
		for _, n := range roster.Matching(ds) {
			if IsWeekend(d) {
				weekend = append(weekend, DueEntry{Name: n, Date: ds, Category: CategoryWeekend, Weekday: d.Weekday().String()})
			} else {
				holiday = append(holiday, DueEntry{Name: n, Date: ds, Category: CategoryHoliday})
			}
		}
	}
	return append(weekend, holiday...)
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkingDay is false on weekends and listed holidays.
func (r Resolver) IsWorkingDay(t time.Time) bool {
	if r.Location != nil {
		t = t.In(r.Location)
	}
	return !IsWeekend(t) && !r.Holidays.IsHoliday(DayMonthOf(t))
}

// addDays moves by calendar days, keeping wall-clock semantics across DST.
func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 12, 0, 0, 0, t.Location())
}
