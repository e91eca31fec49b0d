package store

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/shopspring/decimal"
)

// LoadLastBalance returns the last saved balance in sats. ok is false when no
// balance was ever saved, which is different from a saved zero. Empty or
// unparseable content yields zero.
func (s *FileStore) LoadLastBalance() (balance decimal.Decimal, ok bool) {
	data, err := os.ReadFile(s.balancePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("balance file does not exist, balance is uninitialized", "path", s.balancePath)
			return decimal.Zero, false
		}
		slog.Error("failed to read balance file", "path", s.balancePath, "error", err)
		return decimal.Zero, true
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		slog.Warn("balance file is empty, using 0", "path", s.balancePath)
		return decimal.Zero, true
	}

	balance, err = decimal.NewFromString(content)
	if err != nil {
		slog.Error("invalid balance value in file, using 0", "path", s.balancePath, "content", content, "error", err)
		return decimal.Zero, true
	}

	slog.Debug("loaded last balance", "balance_sats", balance.String())
	return balance, true
}

// SaveBalance atomically replaces the balance file.
func (s *FileStore) SaveBalance(balance decimal.Decimal) {
	if err := renameio.WriteFile(s.balancePath, []byte(balance.String()+"\n"), 0o644); err != nil {
		slog.Error("failed to save balance", "path", s.balancePath, "balance_sats", balance.String(), "error", err)
		return
	}
	slog.Debug("saved balance", "balance_sats", balance.String())
}
