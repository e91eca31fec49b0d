// Package store persists the monitor's state in three independent flat files:
// the processed-payment log, the last known balance and the donation ledger.
//
// Failures never propagate. Every operation logs and degrades to a safe
// default so a broken disk only costs a duplicate notification, never a crash.
package store

import (
	"log/slog"
	"sync"
)

// FileStore implements the persistence helpers over local files.
type FileStore struct {
	processedPath string
	balancePath   string
	donationsPath string

	appendMu sync.Mutex
}

// NewFileStore creates a FileStore. Files are created lazily on first write.
func NewFileStore(processedPath, balancePath, donationsPath string) *FileStore {
	slog.Info("file store initialized",
		"processed_payments_file", processedPath,
		"balance_file", balancePath,
		"donations_file", donationsPath,
	)
	return &FileStore{
		processedPath: processedPath,
		balancePath:   balancePath,
		donationsPath: donationsPath,
	}
}
