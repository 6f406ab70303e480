package httpapi

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

const (
	calendarProdID = "-//birthday-bot//calendar//EN"
	calendarName   = "Birthdays"
	uidDomain      = "birthday-bot"

	// Leap year, so 29.02 gets a start date.
	calendarBaseYear = 2000

	emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + calendarProdID + "\r\nEND:VCALENDAR\r\n"
)

func (h *Handler) calendar(w http.ResponseWriter, _ *http.Request) {
	body, err := BuildCalendar(h.roster.Snapshot(), time.Now())
	if err != nil {
		h.log.Error("calendar encode failed", zap.Error(err))
		http.Error(w, "calendar unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	_, _ = w.Write(body)
}

// BuildCalendar renders the roster as yearly-recurring all-day events.
// Entries whose day does not exist in their month (31.02) are left out.
func BuildCalendar(r *domain.Roster, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProdID)
	cal.Props.SetText("X-WR-CALNAME", calendarName)

	stamp := now.UTC()
	for _, e := range r.Entries() {
		start := time.Date(calendarBaseYear, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC)
		if start.Day() != e.Day || int(start.Month()) != e.Month {
			continue
		}

		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, eventUID(e.Name))
		ev.Props.SetText(ical.PropSummary, "🎂 "+e.Name)
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

		dtStart := ical.NewProp(ical.PropDateTimeStart)
		dtStart.SetDate(start)
		ev.Props.Set(dtStart)

		// Raw value: SetText would tag the rule VALUE=TEXT.
		rrule := ical.NewProp(ical.PropRecurrenceRule)
		rrule.Value = "FREQ=YEARLY"
		ev.Props.Set(rrule)

		cal.Children = append(cal.Children, ev.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(emptyCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// eventUID is stable across refreshes for the same name.
func eventUID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return fmt.Sprintf("%x@%s", sum[:16], uidDomain)
}
