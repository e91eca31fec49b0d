package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// HandleHome is the liveness probe.
func (d *Dependencies) HandleHome(w http.ResponseWriter, r *http.Request) {
	WriteText(w, http.StatusOK, "🔍 "+d.InstanceName+" monitor is running.")
}

// HandleStatus returns the balance snapshot, latest payments and donation
// details.
func (d *Dependencies) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := d.Monitor.Status(r.Context())
	if err != nil {
		slog.Error("failed to build status", "error", err)
		WriteError(w, http.StatusInternalServerError, "Error retrieving status")
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// HandleDonationsUpdates returns when the donation ledger last changed so
// the donations page knows when to refresh.
func (d *Dependencies) HandleDonationsUpdates(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"last_update": d.Monitor.LastUpdate().UTC().Format(time.RFC3339Nano),
	})
}
