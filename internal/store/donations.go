package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/renameio/v2"
	"github.com/rocjay1/piggy-notifier/internal/models"
)

// LoadDonations reads the donation ledger into ledger. A missing file leaves
// ledger as is; malformed JSON is logged and also leaves it untouched.
func (s *FileStore) LoadDonations(ledger *models.DonationLedger) {
	data, err := os.ReadFile(s.donationsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("donations file does not exist yet", "path", s.donationsPath)
		} else {
			slog.Error("failed to read donations file", "path", s.donationsPath, "error", err)
		}
		return
	}

	var loaded models.DonationLedger
	if err := json.Unmarshal(data, &loaded); err != nil {
		slog.Error("failed to parse donations file", "path", s.donationsPath, "error", err)
		return
	}
	if loaded.Donations == nil {
		loaded.Donations = []models.Donation{}
	}

	*ledger = loaded
	slog.Debug("loaded donations", "count", len(loaded.Donations), "total_donations", loaded.TotalDonations.String())
}

// SaveDonations atomically rewrites the whole ledger document.
func (s *FileStore) SaveDonations(ledger models.DonationLedger) error {
	doc := ledger.Clone()
	data, err := json.Marshal(doc)
	if err != nil {
		slog.Error("failed to marshal donations", "error", err)
		return fmt.Errorf("failed to marshal donations: %w", err)
	}

	if err := renameio.WriteFile(s.donationsPath, data, 0o644); err != nil {
		slog.Error("failed to save donations", "path", s.donationsPath, "error", err)
		return fmt.Errorf("failed to write %s: %w", s.donationsPath, err)
	}

	slog.Debug("saved donations", "count", len(doc.Donations), "total_donations", doc.TotalDonations.String())
	return nil
}
