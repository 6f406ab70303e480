package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/dispatch"
	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

// Dispatcher is what the daily trigger calls.
// dispatch.Dispatcher implements it.
type Dispatcher interface {
	Live(ctx context.Context, today time.Time) (dispatch.Result, error)
}

// Journal is the part of store.Repo the scheduler needs.
type Journal interface {
	RecordRun(ctx context.Context, run *domain.DispatchRun) error
	HasLiveSend(ctx context.Context, day string) (bool, error)
}

// Options configure the daily trigger.
type Options struct {
	AtMinutes          int // local wall clock, minutes since midnight
	SkipNonWorkingDays bool
	DedupeDaily        bool
}

// Scheduler fires the live dispatch once a day at a fixed local time.
type Scheduler struct {
	dispatcher Dispatcher
	journal    Journal
	resolver   domain.Resolver
	opts       Options
	log        *zap.Logger
	now        func() time.Time
}

// New creates a new Scheduler. journal may be nil.
func New(d Dispatcher, journal Journal, resolver domain.Resolver, opts Options, log *zap.Logger) *Scheduler {
	if resolver.Location == nil {
		resolver.Location = time.UTC
	}
	return &Scheduler{
		dispatcher: d,
		journal:    journal,
		resolver:   resolver,
		opts:       opts,
		log:        log.With(zap.String("component", "scheduler")),
		now:        time.Now,
	}
}

// NextRun returns the next fire time after now.
func (s *Scheduler) NextRun() time.Time {
	return domain.NextDailyRun(s.now(), s.resolver.Location, s.opts.AtMinutes)
}

// Run starts the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started",
		zap.String("at", domain.FormatMinutes(s.opts.AtMinutes)),
		zap.String("tz", s.resolver.Location.String()),
	)
	for {
		next := s.NextRun()
		s.log.Debug("next run", zap.Time("at", next))
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("scheduler stopping")
			return
		case <-timer.C:
			s.tick(ctx, s.now())
		}
	}
}

// tick performs one daily cycle. Failures are logged and swallowed.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	day := now.In(s.resolver.Location).Format("2006-01-02")
	log := s.log.With(zap.String("day", day))

	if s.opts.SkipNonWorkingDays && !s.resolver.IsWorkingDay(now) {
		log.Info("non-working day, greetings carried forward")
		s.recordSkip(ctx, day)
		return
	}

	if s.opts.DedupeDaily && s.journal != nil {
		done, err := s.journal.HasLiveSend(ctx, day)
		if err != nil {
			log.Warn("journal lookup failed, dispatching anyway", zap.Error(err))
		} else if done {
			log.Info("already sent today, skipping")
			s.recordSkip(ctx, day)
			return
		}
	}

	res, err := s.dispatcher.Live(ctx, now)
	if err != nil {
		log.Error("daily dispatch failed", zap.Error(err))
		return
	}
	log.Info("daily dispatch finished", zap.Int("entries", len(res.Entries)), zap.Bool("sent", res.Sent))
}

func (s *Scheduler) recordSkip(ctx context.Context, day string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordRun(ctx, &domain.DispatchRun{Day: day, Status: domain.RunSkipped}); err != nil {
		s.log.Warn("journal write failed", zap.Error(err))
	}
}
