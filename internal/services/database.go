package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/rocjay1/piggy-notifier/internal/models"
)

// Table Storage caps a transaction at 100 entities sharing one partition.
const maxBatchSize = 100

type tableTransactor interface {
	SubmitTransaction(ctx context.Context, actions []aztables.TransactionAction, opts *aztables.SubmitTransactionOptions) (aztables.TransactionResponse, error)
}

// PaymentArchive keeps one Azure Table Storage entity per processed payment.
type PaymentArchive struct {
	client tableTransactor
	table  string
}

// NewPaymentArchive creates the archive from TABLE_SERVICE_URL and
// PAYMENTS_TABLE. It returns ErrNotConfigured when no endpoint is set.
func NewPaymentArchive(ctx context.Context) (*PaymentArchive, error) {
	tableURL := os.Getenv("TABLE_SERVICE_URL")
	if tableURL == "" {
		return nil, ErrNotConfigured
	}
	table := envOr("PAYMENTS_TABLE", "payments")

	var client *aztables.ServiceClient

	// Check if running locally with Azurite (http endpoint)
	if isLocal(tableURL) {
		slog.Info("using Azurite credentials for payment archive")
		name, key := getAzuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	if _, err := client.CreateTable(ctx, table, nil); err != nil {
		var azErr *azcore.ResponseError
		if !errors.As(err, &azErr) || azErr.ErrorCode != "TableAlreadyExists" {
			return nil, fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	slog.Info("payment archive initialized", "table_url", tableURL, "table", table)
	return &PaymentArchive{client: client.NewClient(table), table: table}, nil
}

func paymentEntity(r models.PaymentRecord) ([]byte, error) {
	return json.Marshal(map[string]any{
		"PartitionKey":   partitionKey(r.ProcessedAt),
		"RowKey":         r.Hash,
		"Kind":           string(r.Kind),
		"AmountSats":     r.AmountSats,
		"Memo":           r.Memo,
		"IsDonation":     r.IsDonation,
		"DonationAmount": r.DonationAmount.InexactFloat64(),
		"ProcessedAt":    r.ProcessedAt.UTC().Format(time.RFC3339),
	})
}

func partitionKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// ArchivePayments upserts the records, batched per month partition.
func (s *PaymentArchive) ArchivePayments(ctx context.Context, records []models.PaymentRecord) error {
	if len(records) == 0 {
		return nil
	}

	partitions := make(map[string][]aztables.TransactionAction)
	for _, r := range records {
		entity, err := paymentEntity(r)
		if err != nil {
			return fmt.Errorf("failed to marshal payment %s: %w", r.Hash, err)
		}
		pk := partitionKey(r.ProcessedAt)
		partitions[pk] = append(partitions[pk], aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entity,
		})
	}

	keys := make([]string, 0, len(partitions))
	for pk := range partitions {
		keys = append(keys, pk)
	}
	sort.Strings(keys)

	for _, pk := range keys {
		actions := partitions[pk]
		for start := 0; start < len(actions); start += maxBatchSize {
			end := min(start+maxBatchSize, len(actions))
			if _, err := s.client.SubmitTransaction(ctx, actions[start:end], nil); err != nil {
				slog.Error("failed to archive payments", "table", s.table, "partition", pk, "error", err)
				return fmt.Errorf("failed to submit batch for partition %s: %w", pk, err)
			}
		}
	}

	slog.Info("archived payments", "table", s.table, "count", len(records))
	return nil
}
