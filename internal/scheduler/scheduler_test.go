package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/dispatch"
	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

type fakeDispatcher struct {
	calls []time.Time
	err   error
}

func (f *fakeDispatcher) Live(_ context.Context, today time.Time) (dispatch.Result, error) {
	f.calls = append(f.calls, today)
	return dispatch.Result{}, f.err
}

type fakeJournal struct {
	runs    []domain.DispatchRun
	sent    bool
	lookErr error
}

func (f *fakeJournal) RecordRun(_ context.Context, run *domain.DispatchRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeJournal) HasLiveSend(context.Context, string) (bool, error) {
	return f.sent, f.lookErr
}

func newScheduler(t *testing.T, opts Options) (*Scheduler, *fakeDispatcher, *fakeJournal) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	cal, err := domain.NewHolidayCalendar(domain.DefaultHolidays)
	require.NoError(t, err)
	d, j := &fakeDispatcher{}, &fakeJournal{}
	return New(d, j, domain.Resolver{Holidays: cal, Location: loc}, opts, zap.NewNop()), d, j
}

func localDay(s *Scheduler, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, s.resolver.Location)
}

func TestTick_WorkingDayDispatches(t *testing.T) {
	s, d, j := newScheduler(t, Options{AtMinutes: 540, SkipNonWorkingDays: true})
	s.tick(context.Background(), localDay(s, 2025, time.May, 2))
	assert.Len(t, d.calls, 1)
	assert.Empty(t, j.runs)
}

func TestTick_SkipsWeekendsAndHolidays(t *testing.T) {
	s, d, j := newScheduler(t, Options{SkipNonWorkingDays: true})
	s.tick(context.Background(), localDay(s, 2025, time.May, 1)) // holiday
	s.tick(context.Background(), localDay(s, 2025, time.May, 3)) // Saturday
	assert.Empty(t, d.calls)
	require.Len(t, j.runs, 2)
	assert.Equal(t, domain.RunSkipped, j.runs[0].Status)
	assert.Equal(t, "2025-05-01", j.runs[0].Day)
}

func TestTick_RunsEveryDayWhenNotSkipping(t *testing.T) {
	s, d, _ := newScheduler(t, Options{})
	s.tick(context.Background(), localDay(s, 2025, time.May, 3))
	assert.Len(t, d.calls, 1)
}

func TestTick_Dedupe(t *testing.T) {
	s, d, j := newScheduler(t, Options{DedupeDaily: true})
	j.sent = true
	s.tick(context.Background(), localDay(s, 2025, time.May, 2))
	assert.Empty(t, d.calls)

	j.sent, j.lookErr = false, errors.New("db locked")
	s.tick(context.Background(), localDay(s, 2025, time.May, 2))
	assert.Len(t, d.calls, 1)
}

func TestTick_DispatchErrorIsSwallowed(t *testing.T) {
	s, d, _ := newScheduler(t, Options{})
	d.err = dispatch.ErrSend
	assert.NotPanics(t, func() { s.tick(context.Background(), localDay(s, 2025, time.May, 2)) })
}

func TestNextRun(t *testing.T) {
	s, _, _ := newScheduler(t, Options{AtMinutes: 9 * 60})
	s.now = func() time.Time { return time.Date(2025, time.May, 2, 10, 0, 0, 0, s.resolver.Location) }
	assert.Equal(t, time.Date(2025, time.May, 3, 9, 0, 0, 0, s.resolver.Location), s.NextRun())
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, d, _ := newScheduler(t, Options{AtMinutes: 9 * 60})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Empty(t, d.calls)
}
