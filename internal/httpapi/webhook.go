package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxWebhookBody caps one update payload.
const maxWebhookBody = 1 << 20

// webhook decodes one update and hands it to the update loop.
func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	var upd tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&upd); err != nil {
		h.log.Warn("bad webhook payload", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	select {
	case h.updates <- upd:
		w.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
	}
}
