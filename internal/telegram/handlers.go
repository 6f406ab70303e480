package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
	"github.com/KatrinTsesko/birthday-bot/internal/roster"
	"github.com/KatrinTsesko/birthday-bot/internal/store"
)

func (r *Router) handleStart(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, startText)
	msg.ReplyMarkup = mainMenuKeyboard()
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send menu failed", zap.Error(err), zap.Int64("chatID", chatID))
	}
}

// handleAdd expects "<name...> <DD.MM>"; the name may contain spaces.
func (r *Router) handleAdd(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		r.sendText(chatID, addUsage)
		return
	}
	name := strings.Join(fields[:len(fields)-1], " ")
	day, month, err := domain.ParseDayMonth(fields[len(fields)-1])
	if err != nil {
		r.sendText(chatID, invalidDate)
		return
	}

	e, err := r.roster.Add(name, day, month)
	switch {
	case err == nil:
		r.sendText(chatID, fmt.Sprintf(addedFmt, e.Name, e.Date()))
	case errors.Is(err, domain.ErrInvalidName):
		r.sendText(chatID, invalidName)
	case errors.Is(err, domain.ErrValidation):
		r.sendText(chatID, invalidDate)
	default:
		r.log.Error("add failed", zap.Error(err))
		r.sendText(chatID, saveFailed)
	}
}

func (r *Router) handleList(chatID int64) {
	entries := r.roster.Snapshot().Entries()
	if len(entries) == 0 {
		r.sendText(chatID, emptyList)
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Name < b.Name
	})

	var sb strings.Builder
	sb.WriteString(listTitle)
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n• %s: %s", e.Name, e.Date())
	}
	r.sendText(chatID, sb.String())
}

func (r *Router) handleImport(chatID int64) {
	n, err := r.roster.Import()
	switch {
	case err == nil:
		r.sendText(chatID, fmt.Sprintf(importedFmt, n))
	case errors.Is(err, roster.ErrSourceNotFound):
		r.sendText(chatID, fmt.Sprintf(importMissing, r.info.ExportFile))
	default:
		r.log.Error("import failed", zap.Error(err))
		r.sendText(chatID, fmt.Sprintf(importFailed, err))
	}
}

func (r *Router) handleSync(chatID int64) {
	if err := r.roster.Sync(); err != nil {
		r.log.Error("sync failed", zap.Error(err))
		r.sendText(chatID, fmt.Sprintf(syncFailed, err))
		return
	}
	r.sendText(chatID, syncedText)
}

func (r *Router) handleGetID(chatID int64) {
	r.sendText(chatID, fmt.Sprintf(chatIDFmt, chatID))
}

// handleCheck runs a test dispatch into the invoking chat.
func (r *Router) handleCheck(ctx context.Context, chatID int64) {
	res, err := r.dispatcher.Dispatch(ctx, r.now(), chatID, true)
	switch {
	case err != nil:
		r.sendText(chatID, fmt.Sprintf(checkFailed, err))
	case len(res.Entries) == 0:
		r.sendText(chatID, checkNobody)
	default:
		r.sendText(chatID, fmt.Sprintf(checkSentFmt, len(res.Entries)))
	}
}

func (r *Router) handleDebug(ctx context.Context, chatID int64) {
	dest := "❌ not set"
	if r.info.ChatID != 0 {
		dest = strconv.FormatInt(r.info.ChatID, 10)
	}
	backend := "❌"
	if r.info.GenerationEnabled {
		backend = "✅"
	}
	tz := "UTC"
	if r.info.Location != nil {
		tz = r.info.Location.String()
	}

	r.sendText(chatID, fmt.Sprintf(debugFmt,
		dest,
		tz,
		r.info.NotifyAt,
		r.info.Holidays,
		yesNo(r.info.SkipNonWorking),
		r.roster.Snapshot().Len(),
		backend,
		r.info.RunMode,
		r.lastRun(ctx),
	))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (r *Router) lastRun(ctx context.Context) string {
	if r.journal == nil {
		return "—"
	}
	run, err := r.journal.LastRun(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "—"
	}
	if err != nil {
		r.log.Warn("journal read failed", zap.Error(err))
		return "unknown"
	}
	s := fmt.Sprintf("%s %s (%d)", domain.LocalizeTime(run.CreatedAt, r.info.Location), run.Status, run.Entries)
	if run.Test {
		s += " test"
	}
	return s
}
