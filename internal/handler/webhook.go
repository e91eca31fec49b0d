package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxWebhookBody = 1 << 20

// HandleWebhook accepts a Telegram update, acknowledges it immediately and
// hands it to the command dispatcher.
func (d *Dependencies) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		slog.Error("failed to read webhook body", "error", err)
		WriteText(w, http.StatusBadRequest, "No update found")
		return
	}

	if isEmptyUpdate(body) {
		slog.Warn("empty update received")
		WriteText(w, http.StatusBadRequest, "No update found")
		return
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		slog.Warn("failed to decode webhook update", "error", err)
		WriteText(w, http.StatusBadRequest, "No update found")
		return
	}

	slog.Debug("update received", "update_id", update.UpdateID)
	d.Commands.Dispatch(update)
	WriteText(w, http.StatusOK, "OK")
}

// isEmptyUpdate reports whether body carries no update: nothing, null, or
// an object without fields.
func isEmptyUpdate(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return false
	}
	return len(fields) == 0
}
