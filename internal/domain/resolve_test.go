package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) Resolver {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	cal, err := NewHolidayCalendar(DefaultHolidays)
	require.NoError(t, err)
	return Resolver{Holidays: cal, Location: loc}
}

func rosterOf(t *testing.T, pairs ...string) *Roster {
	t.Helper()
	r := NewRoster()
	for i := 0; i+1 < len(pairs); i += 2 {
		_, err := r.Set(pairs[i], pairs[i+1])
		require.NoError(t, err)
	}
	return r
}

func day(t *testing.T, res Resolver, y int, m time.Month, d int) time.Time {
	t.Helper()
	return time.Date(y, m, d, 9, 0, 0, 0, res.Location)
}

func TestResolve_TodayOnAnyWeekday(t *testing.T) {
	res := newResolver(t)
	roster := rosterOf(t, "Alice", "15.05")

	for _, year := range []int{2024, 2025, 2026, 2027, 2028, 2029, 2030} {
		due := res.Resolve(day(t, res, year, time.May, 15), roster)
		require.Len(t, due, 1, "year %d", year)
		assert.Equal(t, DueEntry{Name: "Alice", Date: "15.05", Category: CategoryToday}, due[0])
	}
}

func TestResolve_NobodyDue(t *testing.T) {
	res := newResolver(t)
	roster := rosterOf(t, "Alice", "15.05")
	assert.Empty(t, res.Resolve(day(t, res, 2025, time.May, 16), roster))
}

func TestResolve_WeekendCarriedToMondayOnce(t *testing.T) {
	res := newResolver(t)
	roster := rosterOf(t, "Bob", "14.06") // Saturday in 2025

	monday := day(t, res, 2025, time.June, 16)
	require.Equal(t, time.Monday, monday.Weekday())
	due := res.Resolve(monday, roster)
	require.Len(t, due, 1)
	assert.Equal(t, CategoryWeekend, due[0].Category)
	assert.Equal(t, "Bob", due[0].Name)
	assert.Equal(t, "Saturday", due[0].Weekday)

	assert.Empty(t, res.Resolve(day(t, res, 2025, time.June, 17), roster))
}

func TestResolve_HolidayCarriedToNextDay(t *testing.T) {
	res := newResolver(t)
	roster := rosterOf(t, "Carol", "01.05") // Thursday in 2025

	due := res.Resolve(day(t, res, 2025, time.May, 2), roster)
	require.Len(t, due, 1)
	assert.Equal(t, DueEntry{Name: "Carol", Date: "01.05", Category: CategoryHoliday}, due[0])
}

func TestResolve_HolidayOnSaturdayResolvedOnlyByWeekendRule(t *testing.T) {
	res := newResolver(t)
	roster := rosterOf(t, "Dan", "01.05") // Saturday in 2027

	sunday := day(t, res, 2027, time.May, 2)
	require.Equal(t, time.Sunday, sunday.Weekday())
	assert.Empty(t, res.Resolve(sunday, roster))

	due := res.Resolve(day(t, res, 2027, time.May, 3), roster)
	require.Len(t, due, 1)
	assert.Equal(t, CategoryWeekend, due[0].Category)
	assert.Equal(t, "Saturday", due[0].Weekday)
}

func TestResolve_HolidayOnSundayNotDuplicatedOnMonday(t *testing.T) {
	res := newResolver(t)
	roster := rosterOf(t, "Eve", "12.06") // Sunday in 2022

	due := res.Resolve(day(t, res, 2022, time.June, 13), roster)
	require.Len(t, due, 1)
	assert.Equal(t, CategoryWeekend, due[0].Category)
	assert.Equal(t, "Sunday", due[0].Weekday)
}

func TestResolve_CategoryOrder(t *testing.T) {
	res := newResolver(t)
	// 2025-02-24 is a Monday; 23.02 is a holiday on the Sunday before.
	roster := rosterOf(t,
		"Sun", "23.02",
		"Today", "24.02",
		"Sat", "22.02",
	)
	due := res.Resolve(day(t, res, 2025, time.February, 24), roster)
	require.Len(t, due, 3)
	assert.Equal(t, "Today", due[0].Name)
	assert.Equal(t, "Sat", due[1].Name)
	assert.Equal(t, "Sun", due[2].Name)
	assert.Equal(t, CategoryWeekend, due[2].Category)
}

func TestResolve_TodayThenHoliday(t *testing.T) {
	res := newResolver(t)
	// 08.03.2023 is Wednesday.
	roster := rosterOf(t, "Holiday", "08.03", "Now", "09.03")
	due := res.Resolve(day(t, res, 2023, time.March, 9), roster)
	require.Len(t, due, 2)
	assert.Equal(t, CategoryToday, due[0].Category)
	assert.Equal(t, CategoryHoliday, due[1].Category)
}

func TestResolve_UsesConfiguredTimezone(t *testing.T) {
	res := newResolver(t)
	roster := rosterOf(t, "Alice", "15.05")
	// 22:30 UTC on 14.05 is already 15.05 in Moscow.
	due := res.Resolve(time.Date(2025, time.May, 14, 22, 30, 0, 0, time.UTC), roster)
	require.Len(t, due, 1)
}

func TestIsWorkingDay(t *testing.T) {
	res := newResolver(t)
	assert.True(t, res.IsWorkingDay(day(t, res, 2025, time.May, 2)))
	assert.False(t, res.IsWorkingDay(day(t, res, 2025, time.May, 1)))
	assert.False(t, res.IsWorkingDay(day(t, res, 2025, time.May, 3)))
}

func TestResolve_CarryNonWorking_FridayHolidayBeforeWeekend(t *testing.T) {
	res := newResolver(t)
	res.CarryNonWorking = true
	// 09.05.2025 is a Friday holiday, 10-11.05 the weekend.
	roster := rosterOf(t, "Fri", "09.05", "Sun", "11.05", "Mon", "12.05")

	monday := day(t, res, 2025, time.May, 12)
	require.Equal(t, time.Monday, monday.Weekday())
	due := res.Resolve(monday, roster)
	require.Len(t, due, 3)
	assert.Equal(t, DueEntry{Name: "Mon", Date: "12.05", Category: CategoryToday}, due[0])
	assert.Equal(t, DueEntry{Name: "Sun", Date: "11.05", Category: CategoryWeekend, Weekday: "Sunday"}, due[1])
	assert.Equal(t, DueEntry{Name: "Fri", Date: "09.05", Category: CategoryHoliday}, due[2])

	assert.Empty(t, res.Resolve(day(t, res, 2025, time.May, 13), roster))
}

func TestResolve_CarryNonWorking_WeekendBeforeMondayHoliday(t *testing.T) {
	res := newResolver(t)
	res.CarryNonWorking = true
	// 21-22.02.2026 is a weekend, 23.02 a Monday holiday.
	roster := rosterOf(t, "Sat", "21.02", "Sun", "22.02", "Mon", "23.02")

	tuesday := day(t, res, 2026, time.February, 24)
	require.Equal(t, time.Tuesday, tuesday.Weekday())
	due := res.Resolve(tuesday, roster)
	require.Len(t, due, 3)
	assert.Equal(t, "Sat", due[0].Name)
	assert.Equal(t, "Saturday", due[0].Weekday)
	assert.Equal(t, "Sun", due[1].Name)
	assert.Equal(t, CategoryWeekend, due[1].Category)
	assert.Equal(t, DueEntry{Name: "Mon", Date: "23.02", Category: CategoryHoliday}, due[2])
}

func TestResolve_CarryNonWorking_OrdinaryWeekday(t *testing.T) {
	res := newResolver(t)
	res.CarryNonWorking = true
	roster := rosterOf(t, "Wed", "14.05")
	// Thursday after a working Wednesday carries nothing.
	assert.Empty(t, res.Resolve(day(t, res, 2025, time.May, 15), roster))
}
