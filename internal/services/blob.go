package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/rocjay1/piggy-notifier/internal/models"
)

const ledgerBlobName = "donations.json"

type blobUploader interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// LedgerBackup copies the donation ledger to Azure Blob Storage.
type LedgerBackup struct {
	client    blobUploader
	container string
}

// NewLedgerBackup creates the backup from BLOB_SERVICE_URL and
// LEDGER_CONTAINER. It returns ErrNotConfigured when no endpoint is set.
func NewLedgerBackup(ctx context.Context) (*LedgerBackup, error) {
	blobURL := os.Getenv("BLOB_SERVICE_URL")
	if blobURL == "" {
		return nil, ErrNotConfigured
	}
	container := envOr("LEDGER_CONTAINER", "piggy-ledger")

	slog.Info("initializing ledger backup", "blob_url", blobURL)
	var client *azblob.Client

	// Check if running locally with Azurite (http endpoint)
	if isLocal(blobURL) {
		slog.Info("using Azurite shared key credentials for blob service")
		name, key := getAzuriteCredentials()
		cred, err := azblob.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(blobURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azblob.NewClient(blobURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
	}

	if _, err := client.CreateContainer(ctx, container, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		slog.Warn("failed to create container", "container", container, "error", err)
	}

	slog.Info("ledger backup initialized", "container", container)
	return &LedgerBackup{client: client, container: container}, nil
}

// BackupLedger uploads the ledger as JSON, replacing the previous copy.
func (s *LedgerBackup) BackupLedger(ctx context.Context, ledger models.DonationLedger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	if _, err := s.client.UploadBuffer(ctx, s.container, ledgerBlobName, data, nil); err != nil {
		slog.Error("failed to upload ledger", "container", s.container, "blob_name", ledgerBlobName, "error", err)
		return fmt.Errorf("failed to upload blob %s/%s: %w", s.container, ledgerBlobName, err)
	}

	slog.Debug("uploaded ledger backup", "container", s.container, "blob_name", ledgerBlobName, "size_bytes", len(data))
	return nil
}
