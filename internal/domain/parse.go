package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyClock   = errors.New("empty time of day")
	ErrInvalidClock = errors.New("invalid time of day")
)

// ParseDayMonth parses "D.M" / "DD.MM" into day and month.
// Only ranges are checked: 31.02 is accepted.
func ParseDayMonth(s string) (day, month int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q, expected DD.MM", ErrInvalidDate, s)
	}
	day, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	month, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if err := ValidateDayMonth(day, month); err != nil {
		return 0, 0, err
	}
	return day, month, nil
}

// ValidateDayMonth enforces 1<=day<=31 and 1<=month<=12.
func ValidateDayMonth(day, month int) error {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return fmt.Errorf("%w: %d.%d out of range", ErrInvalidDate, day, month)
	}
	return nil
}

// FormatDayMonth returns zero-padded DD.MM.
func FormatDayMonth(day, month int) string {
	return fmt.Sprintf("%02d.%02d", day, month)
}

// DayMonthOf formats t (in its own location) as DD.MM.
func DayMonthOf(t time.Time) string {
	return FormatDayMonth(t.Day(), int(t.Month()))
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyClock
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected HH:MM", ErrInvalidClock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: invalid hour", ErrInvalidClock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: invalid minute", ErrInvalidClock)
	}
	return h*60 + m, nil
}

// ValidateTZ checks that the tz is a valid IANA location.
func ValidateTZ(tz string) (*time.Location, error) {
	return time.LoadLocation(strings.TrimSpace(tz))
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	h := mins / 60
	m := mins % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
