package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrInvalidName = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrInvalidDate = fmt.Errorf("%w: invalid date", ErrValidation)
)

// Entry is one person on the roster. There is no birth year.
type Entry struct {
	Name  string
	Day   int // 1..31, not checked against month length
	Month int // 1..12
}

// Date renders the entry as zero-padded DD.MM.
func (e Entry) Date() string {
	return FormatDayMonth(e.Day, e.Month)
}

// NewEntry trims the name and range-checks the date.
func NewEntry(name string, day, month int) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrInvalidName
	}
	if err := ValidateDayMonth(day, month); err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Day: day, Month: month}, nil
}

// Roster maps name -> DD.MM and remembers insertion order.
// The zero value is an empty roster ready to use.
type Roster struct {
	names []string
	dates map[string]string
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{dates: make(map[string]string)}
}

// Add validates and stores an entry. A later add with the same name
// overwrites the date in place. On error the roster is untouched.
func (r *Roster) Add(name string, day, month int) (Entry, error) {
	e, err := NewEntry(name, day, month)
	if err != nil {
		return Entry{}, err
	}
	r.put(e.Name, e.Date())
	return e, nil
}

// Set stores a raw DD.MM value after parsing and normalizing it.
func (r *Roster) Set(name, date string) (Entry, error) {
	day, month, err := ParseDayMonth(date)
	if err != nil {
		return Entry{}, err
	}
	return r.Add(name, day, month)
}

func (r *Roster) put(name, date string) {
	if r.dates == nil {
		r.dates = make(map[string]string)
	}
	if _, ok := r.dates[name]; !ok {
		r.names = append(r.names, name)
	}
	r.dates[name] = date
}

// Get returns the stored DD.MM for name.
func (r *Roster) Get(name string) (string, bool) {
	d, ok := r.dates[name]
	return d, ok
}

// Len reports the number of people on the roster.
func (r *Roster) Len() int {
	return len(r.names)
}

// Entries returns the roster in insertion order.
func (r *Roster) Entries() []Entry {
	out := make([]Entry, 0, len(r.names))
	for _, n := range r.names {
		// Stored dates were validated on the way in.
		day, month, _ := ParseDayMonth(r.dates[n])
		out = append(out, Entry{Name: n, Day: day, Month: month})
	}
	return out
}

// Matching returns the names whose stored date equals ddmm, in roster order.
func (r *Roster) Matching(ddmm string) []string {
	var out []string
	for _, n := range r.names {
		if r.dates[n] == ddmm {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns an independent copy.
func (r *Roster) Clone() *Roster {
	c := &Roster{
		names: make([]string, len(r.names)),
		dates: make(map[string]string, len(r.dates)),
	}
	copy(c.names, r.names)
	for k, v := range r.dates {
		c.dates[k] = v
	}
	return c
}
