package domain

// DefaultHolidays are the fixed public holidays the bot ships with.
var DefaultHolidays = []string{"01.01", "23.02", "08.03", "01.05", "09.05", "12.06", "04.11"}

// HolidayCalendar is an immutable set of DD.MM dates.
type HolidayCalendar struct {
	dates map[string]struct{}
}

// NewHolidayCalendar validates and normalizes every date ("1.5" -> "01.05").
func NewHolidayCalendar(dates []string) (HolidayCalendar, error) {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		day, month, err := ParseDayMonth(d)
		if err != nil {
			return HolidayCalendar{}, err
		}
		set[FormatDayMonth(day, month)] = struct{}{}
	}
	return HolidayCalendar{dates: set}, nil
}

// IsHoliday reports whether ddmm is a listed holiday.
func (c HolidayCalendar) IsHoliday(ddmm string) bool {
	_, ok := c.dates[ddmm]
	return ok
}

// Len is the number of holidays.
func (c HolidayCalendar) Len() int {
	return len(c.dates)
}
