package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
	"github.com/KatrinTsesko/birthday-bot/internal/greeting"
)

var (
	ErrSend          = errors.New("send failed")
	ErrNoDestination = errors.New("no destination chat configured")
)

// TestMarker is the first line of every test run message.
const TestMarker = "🧪 TEST RUN"

// Sender delivers a text message to a chat.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// RosterSource gives read-only access to the current roster.
type RosterSource interface {
	Snapshot() *domain.Roster
}

// Journal records dispatch runs. It may be nil.
type Journal interface {
	RecordRun(ctx context.Context, run *domain.DispatchRun) error
}

// Result describes one dispatch cycle.
type Result struct {
	Day         string // YYYY-MM-DD in the bot timezone
	Destination int64
	Test        bool
	Entries     []domain.DueEntry
	Text        string
	Sent        bool
}

// Dispatcher runs resolve -> compose -> send. It never writes to the roster
// and keeps no "already sent" state: two calls on one day send twice.
type Dispatcher struct {
	roster     RosterSource
	resolver   domain.Resolver
	composer   *greeting.Composer
	sender     Sender
	journal    Journal
	liveChatID int64
	log        *zap.Logger
}

// New creates a Dispatcher. liveChatID is the production destination.
func New(roster RosterSource, resolver domain.Resolver, composer *greeting.Composer, sender Sender, journal Journal, liveChatID int64, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		roster:     roster,
		resolver:   resolver,
		composer:   composer,
		sender:     sender,
		journal:    journal,
		liveChatID: liveChatID,
		log:        log.With(zap.String("component", "dispatch")),
	}
}

// Live dispatches to the production chat.
func (d *Dispatcher) Live(ctx context.Context, today time.Time) (Result, error) {
	if d.liveChatID == 0 {
		return Result{Day: d.dayOf(today)}, ErrNoDestination
	}
	return d.Dispatch(ctx, today, d.liveChatID, false)
}

// Dispatch notifies destination about everyone due on today. With nobody due
// nothing is sent and no error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, today time.Time, destination int64, test bool) (Result, error) {
	res := Result{Day: d.dayOf(today), Destination: destination, Test: test}
	log := d.log.With(zap.String("day", res.Day), zap.Int64("chatID", destination), zap.Bool("test", test))

	res.Entries = d.resolver.Resolve(today, d.roster.Snapshot())
	if len(res.Entries) == 0 {
		log.Info("nobody is due")
		d.record(ctx, res, domain.RunNobody, nil)
		return res, nil
	}

	res.Text = d.compose(ctx, res.Entries, test)

	if err := d.sender.SendMessage(destination, res.Text); err != nil {
		err = fmt.Errorf("%w: %v", ErrSend, err)
		log.Error("greeting send failed", zap.Error(err), zap.Int("entries", len(res.Entries)))
		d.record(ctx, res, domain.RunFailed, err)
		return res, err
	}
	res.Sent = true
	log.Info("greetings sent", zap.Int("entries", len(res.Entries)))
	d.record(ctx, res, domain.RunSent, nil)
	return res, nil
}

// compose builds one block per non-empty category, in category order.
func (d *Dispatcher) compose(ctx context.Context, entries []domain.DueEntry, test bool) string {
	buckets := make(map[domain.Category][]domain.DueEntry, len(domain.Categories))
	for _, e := range entries {
		buckets[e.Category] = append(buckets[e.Category], e)
	}
	var blocks []string
	if test {
		blocks = append(blocks, TestMarker)
	}
	for _, cat := range domain.Categories {
		if b := d.composer.Block(ctx, cat, buckets[cat]); b != "" {
			blocks = append(blocks, b)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (d *Dispatcher) record(ctx context.Context, res Result, status domain.RunStatus, err error) {
	if d.journal == nil {
		return
	}
	run := &domain.DispatchRun{
		Day:         res.Day,
		Destination: res.Destination,
		Test:        res.Test,
		Entries:     len(res.Entries),
		Status:      status,
	}
	if err != nil {
		run.Error = err.Error()
	}
	if jerr := d.journal.RecordRun(ctx, run); jerr != nil {
		d.log.Warn("journal write failed", zap.Error(jerr))
	}
}

func (d *Dispatcher) dayOf(t time.Time) string {
	if d.resolver.Location != nil {
		t = t.In(d.resolver.Location)
	}
	return t.Format("2006-01-02")
}
