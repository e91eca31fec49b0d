package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rocjay1/piggy-notifier/internal/models"
)

// MonitorClient is the read-only view of the monitor state.
type MonitorClient interface {
	Status(ctx context.Context) (models.Status, error)
	DonationDetails(ctx context.Context) (models.DonationDetails, error)
	DonationPage(ctx context.Context) (*models.DonationPage, error)
	LastUpdate() time.Time
}

// UpdateDispatcher handles chat updates in the background.
type UpdateDispatcher interface {
	Dispatch(update tgbotapi.Update)
}

// Dependencies holds the services required by the handlers.
type Dependencies struct {
	Monitor      MonitorClient
	Commands     UpdateDispatcher
	InstanceName string
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteText writes a plain text response.
func WriteText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write text response", "error", err)
	}
}
