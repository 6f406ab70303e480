package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/dispatch"
	"github.com/KatrinTsesko/birthday-bot/internal/domain"
	"github.com/KatrinTsesko/birthday-bot/internal/greeting"
)

type staticRoster struct{ r *domain.Roster }

func (s staticRoster) Snapshot() *domain.Roster { return s.r.Clone() }

type recordingSender struct{ texts []string }

func (s *recordingSender) SendMessage(_ int64, text string) error {
	s.texts = append(s.texts, text)
	return nil
}

// runDays ticks a real dispatcher once per local day in [from, to] and
// returns how many times each roster name was announced.
func runDays(t *testing.T, opts Options, from, to time.Time, names map[string]string) map[string]int {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	cal, err := domain.NewHolidayCalendar(domain.DefaultHolidays)
	require.NoError(t, err)

	roster := domain.NewRoster()
	for name, date := range names {
		_, err := roster.Set(name, date)
		require.NoError(t, err)
	}

	resolver := domain.Resolver{Holidays: cal, Location: loc, CarryNonWorking: opts.SkipNonWorkingDays}
	sender := &recordingSender{}
	d := dispatch.New(staticRoster{roster}, resolver, greeting.NewComposer(nil, zap.NewNop()), sender, nil, -100, zap.NewNop())
	s := New(d, nil, resolver, opts, zap.NewNop())

	seen := make(map[string]int)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		before := len(sender.texts)
		s.tick(context.Background(), time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, loc))
		for _, text := range sender.texts[before:] {
			for name := range names {
				if strings.Contains(text, name) {
					seen[name]++
				}
			}
		}
	}
	return seen
}

func TestDailyRuns_NobodyLost(t *testing.T) {
	for _, opts := range []Options{{}, {SkipNonWorkingDays: true}} {
		may := runDays(t, opts,
			time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.May, 16, 0, 0, 0, 0, time.UTC),
			map[string]string{"Fedor": "09.05"}) // Friday holiday
		assert.Positive(t, may["Fedor"], "skip=%v", opts.SkipNonWorkingDays)

		feb := runDays(t, opts,
			time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
			// Weekend right before the 23.02 Monday holiday.
			map[string]string{"Sasha": "21.02", "Sonya": "22.02", "Misha": "23.02"})
		for _, name := range []string{"Sasha", "Sonya", "Misha"} {
			assert.Positive(t, feb[name], "%s skip=%v", name, opts.SkipNonWorkingDays)
		}
	}
}

func TestDailyRuns_SkippingAnnouncesOnce(t *testing.T) {
	seen := runDays(t, Options{SkipNonWorkingDays: true},
		time.Date(2026, time.February, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		map[string]string{"Sasha": "21.02", "Misha": "23.02"})
	assert.Equal(t, 1, seen["Sasha"])
	assert.Equal(t, 1, seen["Misha"])
}
