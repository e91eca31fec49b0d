package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// LoadProcessedPayments reads the newline-delimited processed-payment log.
// A missing file is a first run; a read failure is logged and whatever was
// read so far is returned.
func (s *FileStore) LoadProcessedPayments() map[string]struct{} {
	processed := make(map[string]struct{})

	f, err := os.Open(s.processedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("processed payments file does not exist yet", "path", s.processedPath)
		} else {
			slog.Error("failed to open processed payments file", "path", s.processedPath, "error", err)
		}
		return processed
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		processed[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		slog.Error("failed to read processed payments file", "path", s.processedPath, "loaded", len(processed), "error", err)
		return processed
	}

	slog.Debug("loaded processed payment hashes", "count", len(processed))
	return processed
}

// RecordProcessedPayment appends one identifier to the log. A failed append is
// logged and not retried; the next poll may then notify the payment again.
func (s *FileStore) RecordProcessedPayment(id string) {
	if err := s.appendLine(id); err != nil {
		slog.Error("failed to record processed payment", "payment_hash", id, "error", err)
		return
	}
	slog.Debug("recorded processed payment", "payment_hash", id)
}

func (s *FileStore) appendLine(line string) error {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	f, err := os.OpenFile(s.processedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.processedPath, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", s.processedPath, err)
	}
	return f.Close()
}
