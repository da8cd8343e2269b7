package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxUpdateBytes bounds a single update body. Telegram updates are small;
// voice audio is fetched separately.
const maxUpdateBytes = 1 << 20

// UpdateHandler processes one Telegram update to completion.
type UpdateHandler interface {
	Handle(ctx context.Context, u tgbotapi.Update)
}

type WebhookHandler struct {
	updates UpdateHandler
}

func NewWebhookHandler(updates UpdateHandler) *WebhookHandler {
	return &WebhookHandler{updates: updates}
}

// Receive always answers 200 "ok" so Telegram never redelivers, whatever
// happened while handling the update.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	defer writeOK(w)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		slog.Warn("read webhook body", "error", err)
		return
	}

	var u tgbotapi.Update
	if err := json.Unmarshal(body, &u); err != nil {
		slog.Warn("invalid webhook payload", "error", err, "bytes", len(body))
		return
	}

	// A dropped Telegram connection must not abort a half-done flow; the
	// Telegram and LLM timeouts bound the work instead.
	h.updates.Handle(context.WithoutCancel(r.Context()), u)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
