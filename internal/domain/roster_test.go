package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterAdd_ZeroPadsEveryValidDate(t *testing.T) {
	r := NewRoster()
	for month := 1; month <= 12; month++ {
		for day := 1; day <= 31; day++ {
			e, err := r.Add("Person", day, month)
			require.NoError(t, err)

			got, ok := r.Get("Person")
			require.True(t, ok)
			assert.Equal(t, FormatDayMonth(day, month), got)
			assert.Equal(t, got, e.Date())
			assert.Len(t, got, 5)
		}
	}
	assert.Equal(t, 1, r.Len())
}

func TestRosterAdd_RejectsInvalidInputWithoutMutation(t *testing.T) {
	r := NewRoster()
	_, err := r.Add("Anna", 3, 4)
	require.NoError(t, err)
	before := r.Clone()

	cases := []struct {
		name       string
		day, month int
		want       error
	}{
		{"Ivan", 32, 1, ErrInvalidDate},
		{"Ivan", 0, 1, ErrInvalidDate},
		{"Ivan", 10, 13, ErrInvalidDate},
		{"Ivan", 10, 0, ErrInvalidDate},
		{"   ", 10, 10, ErrInvalidName},
		{"", 10, 10, ErrInvalidName},
	}
	for _, tc := range cases {
		_, err := r.Add(tc.name, tc.day, tc.month)
		assert.ErrorIs(t, err, tc.want)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Equal(t, before.Entries(), r.Entries())
}

func TestRosterAdd_AcceptsLooseCalendarDates(t *testing.T) {
	r := NewRoster()
	e, err := r.Add("Leap", 31, 2)
	require.NoError(t, err)
	assert.Equal(t, "31.02", e.Date())
}

func TestRosterAdd_OverwriteKeepsPosition(t *testing.T) {
	r := NewRoster()
	_, _ = r.Add("  Anna ", 1, 1)
	_, _ = r.Add("Boris", 2, 2)
	_, _ = r.Add("Anna", 5, 5)

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Name: "Anna", Day: 5, Month: 5}, entries[0])
	assert.Equal(t, "Boris", entries[1].Name)
}

func TestParseDayMonth(t *testing.T) {
	day, month, err := ParseDayMonth(" 5.3 ")
	require.NoError(t, err)
	assert.Equal(t, 5, day)
	assert.Equal(t, 3, month)

	for _, bad := range []string{"", "15", "15-05", "aa.bb", "15.05.1990", "32.01"} {
		_, _, err := ParseDayMonth(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, m)
	assert.Equal(t, "09:30", FormatMinutes(m))

	_, err = ParseClock("")
	assert.ErrorIs(t, err, ErrEmptyClock)
	_, err = ParseClock("24:00")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestHolidayCalendar_Normalizes(t *testing.T) {
	c, err := NewHolidayCalendar([]string{"1.5", "09.05"})
	require.NoError(t, err)
	assert.True(t, c.IsHoliday("01.05"))
	assert.True(t, c.IsHoliday("09.05"))
	assert.False(t, c.IsHoliday("02.05"))

	_, err = NewHolidayCalendar([]string{"40.01"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
