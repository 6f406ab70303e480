package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

// WebhookPath is where Telegram posts updates in webhook mode.
const WebhookPath = "/telegram/webhook"

// RosterSource is implemented by roster.Store.
type RosterSource interface {
	Snapshot() *domain.Roster
}

// Handler serves the health, calendar and webhook endpoints.
type Handler struct {
	roster  RosterSource
	ready   func(ctx context.Context) error
	updates chan<- tgbotapi.Update
	log     *zap.Logger
}

// NewHandler creates a Handler. ready may be nil; updates is nil outside webhook mode.
func NewHandler(roster RosterSource, ready func(ctx context.Context) error, updates chan<- tgbotapi.Update, log *zap.Logger) *Handler {
	return &Handler{
		roster:  roster,
		ready:   ready,
		updates: updates,
		log:     log.With(zap.String("component", "http")),
	}
}

// NewRouter mounts all routes.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", h.readyz)
	r.Get("/calendar.ics", h.calendar)
	if h.updates != nil {
		r.Post(WebhookPath, h.webhook)
	}
	return r
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.log.Warn("not ready", zap.Error(err))
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
