package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/dispatch"
	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

// Pending state keys used in conversational flows.
const (
	pendingAdd = "await_add_text"
)

// BotAPI is the subset of *tgbotapi.BotAPI the router uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// RosterStore is implemented by roster.Store.
type RosterStore interface {
	Snapshot() *domain.Roster
	Add(name string, day, month int) (domain.Entry, error)
	Import() (int, error)
	Sync() error
}

// Dispatcher is implemented by dispatch.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, today time.Time, destination int64, test bool) (dispatch.Result, error)
}

// Journal is the read side of store.Repo.
type Journal interface {
	LastRun(ctx context.Context) (*domain.DispatchRun, error)
}

// Info is static bot state shown by /debug.
type Info struct {
	ChatID            int64
	Location          *time.Location
	NotifyAt          string
	Holidays          int
	SkipNonWorking    bool
	GenerationEnabled bool
	RunMode           string
	ExportFile        string
}

// Router wires Telegram updates to handlers and holds minimal in-memory state.
type Router struct {
	*Sender
	bot        BotAPI
	log        *zap.Logger
	roster     RosterStore
	dispatcher Dispatcher
	journal    Journal
	info       Info
	now        func() time.Time

	state map[int64]string // chatID -> pending state
	mu    sync.RWMutex
}

// NewRouter creates a new Telegram router. journal may be nil.
func NewRouter(bot BotAPI, log *zap.Logger, roster RosterStore, d Dispatcher, journal Journal, info Info) *Router {
	return &Router{
		Sender:     NewSender(bot),
		bot:        bot,
		log:        log.With(zap.String("component", "telegram")),
		roster:     roster,
		dispatcher: d,
		journal:    journal,
		info:       info,
		now:        time.Now,
		state:      make(map[int64]string),
	}
}

func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		cmd, args, ok := ParseCommand(text)
		if !ok {
			r.handleFreeForm(ctx, chatID, text)
			return
		}
		r.clearPending(chatID)
		r.run(ctx, chatID, cmd, args)
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		_ = r.answerCallback(cb.ID, "")
		if cb.Message == nil {
			return
		}
		chatID := cb.Message.Chat.ID
		cmd := CommandFromName(cb.Data)
		if cmd == CmdAdd {
			r.sendText(chatID, addPrompt)
			r.setPending(chatID, pendingAdd)
			return
		}
		r.run(ctx, chatID, cmd, "")
	}
}

// run dispatches one command.
func (r *Router) run(ctx context.Context, chatID int64, cmd Command, args string) {
	r.log.Debug("command", zap.Stringer("cmd", cmd), zap.Int64("chatID", chatID))
	switch cmd {
	case CmdStart:
		r.handleStart(chatID)
	case CmdAdd:
		r.handleAdd(chatID, args)
	case CmdList:
		r.handleList(chatID)
	case CmdImport:
		r.handleImport(chatID)
	case CmdSync:
		r.handleSync(chatID)
	case CmdGetID:
		r.handleGetID(chatID)
	case CmdCheck:
		r.handleCheck(ctx, chatID)
	case CmdHelp:
		r.sendText(chatID, helpText)
	case CmdDebug:
		r.handleDebug(ctx, chatID)
	case CmdUnknown:
		r.sendText(chatID, unknownText)
	}
}

// handleFreeForm serves the "Add" button flow; other text is ignored.
func (r *Router) handleFreeForm(_ context.Context, chatID int64, text string) {
	switch r.getPending(chatID) {
	case pendingAdd:
		r.clearPending(chatID)
		r.handleAdd(chatID, text)
	default:
	}
}
